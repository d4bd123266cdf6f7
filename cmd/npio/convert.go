package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/npio/pkg/npy"
)

func convertCmd() *cli.Command {
	var (
		order       string
		headerLimit int
	)

	return &cli.Command{
		Name:      "convert",
		Usage:     "Rewrite a .npy file with a chosen byte order",
		ArgsUsage: "<in.npy> <out.npy>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "order",
				Usage:       "target byte order (little, big, host, swap)",
				Value:       "host",
				Destination: &order,
			},
			&cli.IntFlag{
				Name:        "header-limit",
				Usage:       "max accepted header length in bytes",
				Value:       npy.DefaultHeaderLimit,
				Destination: &headerLimit,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return cli.Exit("usage: npio convert [--order little|big|host|swap] <in.npy> <out.npy>", 2)
			}
			in, out := c.Args().Get(0), c.Args().Get(1)

			cfg := LoadConfig()
			limit := headerLimitFrom(cfg, c.IsSet("header-limit"), headerLimit)

			a, err := npy.Open(in, npy.WithHeaderLimit(limit), npy.KeepByteOrder())
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: open %q: %v", in, err), 1)
			}
			defer func() { _ = a.Close() }()

			wantLittle, err := targetOrder(order, a.LittleEndian)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 2)
			}

			if err := a.ConvertByteOrder(wantLittle); err != nil {
				return cli.Exit(fmt.Sprintf("error: convert %q: %v", in, err), 1)
			}

			if err := npy.Save(out, a); err != nil {
				return cli.Exit(fmt.Sprintf("error: save %q: %v", out, err), 1)
			}
			return nil
		},
	}
}

func targetOrder(order string, current bool) (little bool, err error) {
	switch order {
	case "little":
		return true, nil
	case "big":
		return false, nil
	case "host":
		return npy.HostLittleEndian(), nil
	case "swap":
		return !current, nil
	default:
		return false, fmt.Errorf("unknown byte order %q", order)
	}
}
