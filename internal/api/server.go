// Package api serves array metadata and raw element bytes from a
// directory of .npy files over HTTP.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/npio/internal/logger"
	"github.com/samcharles93/npio/pkg/npy"
)

// Server exposes read-only access to the .npy files in one directory.
type Server struct {
	root        string
	headerLimit int
	log         logger.Logger
}

// NewServer creates a server rooted at dir. headerLimit bounds the header
// length accepted from the served files; zero means npy.DefaultHeaderLimit.
func NewServer(dir string, headerLimit int, log logger.Logger) *Server {
	if headerLimit <= 0 {
		headerLimit = npy.DefaultHeaderLimit
	}
	if log == nil {
		log = logger.Default()
	}
	return &Server{root: dir, headerLimit: headerLimit, log: log.With("component", "api")}
}

// Register attaches all routes to e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/arrays", s.handleList)
	e.GET("/v1/arrays/:name", s.handleGet)
	e.GET("/v1/arrays/:name/data", s.handleData)
}

func (s *Server) handleList(c *echo.Context) error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.log.Error("list arrays", "dir", s.root, "error", err)
		return writeError(c, http.StatusInternalServerError, "io_error", "cannot read array directory")
	}

	infos := make([]ArrayInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !validName(entry.Name()) {
			continue
		}
		info, err := s.describe(entry.Name())
		if err != nil {
			// A directory may hold files that are not valid .npy; skip them.
			s.log.Warn("skip array", "name", entry.Name(), "error", err)
			continue
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return writeJSON(c, http.StatusOK, ListResponse{
		RequestID: newRequestID(),
		Arrays:    infos,
	})
}

func (s *Server) handleGet(c *echo.Context) error {
	name := c.Param("name")
	if !validName(name) {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", "invalid array name")
	}
	info, err := s.describe(name)
	if err != nil {
		return s.arrayError(c, name, err)
	}
	return writeJSON(c, http.StatusOK, info)
}

// handleData returns the raw element bytes exactly as stored, without
// byte-order normalization.
func (s *Server) handleData(c *echo.Context) error {
	name := c.Param("name")
	if !validName(name) {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", "invalid array name")
	}

	a, err := npy.Open(filepath.Join(s.root, name),
		npy.KeepByteOrder(), npy.WithHeaderLimit(s.headerLimit))
	if err != nil {
		return s.arrayError(c, name, err)
	}
	defer func() { _ = a.Close() }()

	res := c.Response()
	res.Header().Set("X-Npy-Dtype", a.DType)
	res.Header().Set(echo.HeaderContentType, "application/octet-stream")
	res.WriteHeader(http.StatusOK)
	_, err = res.Write(a.Data)
	return err
}

func (s *Server) describe(name string) (ArrayInfo, error) {
	path := filepath.Join(s.root, name)
	st, err := os.Stat(path)
	if err != nil {
		return ArrayInfo{}, err
	}

	a, err := npy.OpenHeader(path, npy.WithHeaderLimit(s.headerLimit))
	if err != nil {
		return ArrayInfo{}, err
	}
	defer func() { _ = a.Close() }()

	byteSize, err := a.MemSize()
	if err != nil {
		return ArrayInfo{}, err
	}
	shape := a.Shape
	if shape == nil {
		shape = []int{}
	}
	return ArrayInfo{
		Name:         name,
		DType:        a.DType,
		Shape:        shape,
		FortranOrder: a.FortranOrder,
		Elements:     a.Size(),
		ByteSize:     byteSize,
		Version:      fmt.Sprintf("%d.%d", a.Major, a.Minor),
		FileSize:     st.Size(),
	}, nil
}

func (s *Server) arrayError(c *echo.Context, name string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return writeError(c, http.StatusNotFound, "not_found_error", "no such array: "+name)
	case errors.Is(err, npy.ErrFormat), errors.Is(err, npy.ErrUnsupported), errors.Is(err, npy.ErrRange):
		return writeError(c, http.StatusUnprocessableEntity, "invalid_array_error", err.Error())
	default:
		s.log.Error("open array", "name", name, "error", err)
		return writeError(c, http.StatusInternalServerError, "io_error", "cannot open array")
	}
}
