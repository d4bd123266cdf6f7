package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/npio/pkg/npy"
)

type inspectReport struct {
	File         string `json:"file"`
	Version      string `json:"version"`
	HeaderLen    int    `json:"header_len"`
	DType        string `json:"dtype"`
	ByteOrder    string `json:"byte_order"`
	Kind         string `json:"kind"`
	BitWidth     int    `json:"bit_width"`
	Shape        []int  `json:"shape"`
	FortranOrder bool   `json:"fortran_order"`
	Elements     int    `json:"elements"`
	ByteSize     int    `json:"byte_size"`
	FileSize     int64  `json:"file_size"`
}

func inspectCmd() *cli.Command {
	var (
		asJSON      bool
		headerLimit int
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the header of a .npy file",
		ArgsUsage: "<path.npy>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "emit machine-readable JSON", Destination: &asJSON},
			&cli.IntFlag{Name: "header-limit", Usage: "max accepted header length in bytes",
				Value: npy.DefaultHeaderLimit, Destination: &headerLimit},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return cli.Exit("usage: npio inspect <path.npy>", 2)
			}
			path := c.Args().First()

			cfg := LoadConfig()
			limit := headerLimitFrom(cfg, c.IsSet("header-limit"), headerLimit)

			st, err := os.Stat(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: stat %q: %v", path, err), 1)
			}
			a, err := npy.OpenHeader(path, npy.WithHeaderLimit(limit))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open %q: %v", path, err), 1)
			}
			defer func() { _ = a.Close() }()

			rep, err := buildReport(path, st.Size(), a)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if asJSON {
				b, err := json.MarshalIndent(rep, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(b))
				return nil
			}

			printReport(rep)
			return nil
		},
	}
}

func buildReport(path string, fileSize int64, a *npy.Array) (inspectReport, error) {
	byteSize, err := a.MemSize()
	if err != nil {
		return inspectReport{}, err
	}

	order := "big"
	if a.LittleEndian {
		order = "little"
	}
	kind := "unsigned integer"
	switch {
	case a.Float:
		kind = "floating point"
	case a.Signed:
		kind = "signed integer"
	}

	shape := a.Shape
	if shape == nil {
		shape = []int{}
	}
	return inspectReport{
		File:         filepath.Base(path),
		Version:      fmt.Sprintf("%d.%d", a.Major, a.Minor),
		HeaderLen:    a.HeaderLen,
		DType:        a.DType,
		ByteOrder:    order,
		Kind:         kind,
		BitWidth:     a.BitWidth,
		Shape:        shape,
		FortranOrder: a.FortranOrder,
		Elements:     a.Size(),
		ByteSize:     byteSize,
		FileSize:     fileSize,
	}, nil
}

func printReport(r inspectReport) {
	fmt.Printf("File: %s (%s)\n", r.File, formatBytes(uint64(r.FileSize)))
	fmt.Printf("NPY v%s | header=%dB | data=%s\n", r.Version, r.HeaderLen, formatBytes(uint64(r.ByteSize)))
	row("dtype", r.DType)
	row("byte_order", r.ByteOrder)
	row("kind", r.Kind)
	row("bit_width", fmt.Sprintf("%d", r.BitWidth))
	row("shape", formatShape(r.Shape))
	row("fortran_order", fmt.Sprintf("%v", r.FortranOrder))
	row("elements", fmt.Sprintf("%d", r.Elements))
}

func row(label, value string) {
	fmt.Printf("%-16s %s\n", label+":", value)
}

func formatShape(shape []int) string {
	if len(shape) == 0 {
		return "() scalar"
	}
	parts := make([]string, len(shape))
	for i, v := range shape {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatBytes(b uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.2f GiB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
