package npy

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Option adjusts how an array is loaded.
type Option func(*loadConfig)

type loadConfig struct {
	headerLimit int
	keepOrder   bool
}

// WithHeaderLimit caps the header length a file may declare on the
// streaming read path, bounding the staging allocation against a
// maliciously large claim.
func WithHeaderLimit(n int) Option {
	return func(c *loadConfig) { c.headerLimit = n }
}

// KeepByteOrder disables normalization to host byte order: data is
// materialized exactly as stored, with the recorded order untouched.
func KeepByteOrder() Option {
	return func(c *loadConfig) { c.keepOrder = true }
}

func applyOptions(opts []Option) loadConfig {
	c := loadConfig{headerLimit: DefaultHeaderLimit}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Open loads a complete array, header and data, from a .npy file.
// The returned array must be closed.
func Open(path string, opts ...Option) (*Array, error) {
	a, err := OpenHeader(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := a.LoadData(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// OpenHeader loads only the header of a .npy file. Call LoadData to
// materialize the elements, and Close when done in either case.
func OpenHeader(path string, opts ...Option) (*Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	a, err := loadHeader(f, true, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Load reads a complete array from an open file. The handle is not owned
// by the array and stays open after Close; the caller must not touch its
// read position between Load and Close.
func Load(f *os.File, opts ...Option) (*Array, error) {
	a, err := LoadHeader(f, opts...)
	if err != nil {
		return nil, err
	}
	if err := a.LoadData(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// LoadHeader reads only the header from an open file.
func LoadHeader(f *os.File, opts ...Option) (*Array, error) {
	return loadHeader(f, false, applyOptions(opts))
}

// Decode reads an array from an in-memory .npy image. The array never
// owns buf: the caller must keep it alive for the array's lifetime, and
// Data aliases it directly. Byte-order normalization rewrites elements
// inside buf; pass KeepByteOrder to leave it untouched.
func Decode(buf []byte, opts ...Option) (*Array, error) {
	cfg := applyOptions(opts)
	a := &Array{normalize: !cfg.keepOrder, view: buf, prov: provExternal}
	if err := a.parseHeaderBytes(buf); err != nil {
		return nil, err
	}
	if err := a.LoadData(); err != nil {
		return nil, err
	}
	return a, nil
}

// loadHeader picks the byte-source strategy and decodes the header.
// A private read/write mapping is preferred: it gives the materializer an
// exact length to validate against and a zero-copy element buffer that
// in-place byte swaps cannot leak into the file. When the source cannot
// be mapped it falls back to a bounded streaming read.
func loadHeader(f *os.File, owns bool, cfg loadConfig) (*Array, error) {
	a := &Array{normalize: !cfg.keepOrder, f: f, ownsFile: owns}

	if st, err := f.Stat(); err == nil {
		size := st.Size()
		if size > 0 && size <= int64(maxInt) {
			view, merr := unix.Mmap(int(f.Fd()), 0, int(size),
				unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE)
			if merr == nil {
				a.view = view
				a.prov = provMapped
				// The mapping outlives the descriptor's need for the handle.
				if owns {
					_ = f.Close()
				}
				a.f = nil
				a.ownsFile = false
				if err := a.parseHeaderBytes(view); err != nil {
					_ = a.Close()
					return nil, err
				}
				return a, nil
			}
		}
	}

	if err := a.readHeaderStream(cfg); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// parseHeaderBytes decodes prelude and header text from a complete or
// partial in-memory image.
func (a *Array) parseHeaderBytes(buf []byte) error {
	if len(buf) < 16 {
		return fmt.Errorf("%w: file too short", ErrFormat)
	}
	p, err := parsePrelude(buf)
	if err != nil {
		return err
	}
	a.Major = p.major
	a.Minor = p.minor
	a.HeaderLen = p.headerLen

	end := p.headerOff + p.headerLen
	if end > len(buf) || end < p.headerOff {
		end = len(buf)
	}
	return a.parseHeaderDict(buf[p.headerOff:end])
}

// readHeaderStream is the fallback for sources that cannot be mapped:
// read a minimal prelude, validate the declared header length against the
// ceiling, then stage prelude plus header text in one buffer.
func (a *Array) readHeaderStream(cfg loadConfig) error {
	var pre [preludeMax]byte
	if _, err := io.ReadFull(a.f, pre[:]); err != nil {
		return fmt.Errorf("npy: read prelude: %w", err)
	}
	p, err := parsePrelude(pre[:])
	if err != nil {
		return err
	}
	if p.headerLen > cfg.headerLimit {
		return fmt.Errorf("%w: declared header length %d exceeds limit %d",
			ErrRange, p.headerLen, cfg.headerLimit)
	}
	a.Major = p.major
	a.Minor = p.minor
	a.HeaderLen = p.headerLen

	total := p.headerOff + p.headerLen
	if total < len(pre) {
		return fmt.Errorf("%w: declared header length %d too short", ErrFormat, p.headerLen)
	}
	a.hdrBuf = make([]byte, total)
	copy(a.hdrBuf, pre[:])
	if _, err := io.ReadFull(a.f, a.hdrBuf[len(pre):]); err != nil {
		return fmt.Errorf("npy: read header: %w", err)
	}
	return a.parseHeaderDict(a.hdrBuf[p.headerOff:total])
}

// LoadData materializes the element buffer after a header-only load. For
// mapped and in-memory sources the buffer is a zero-copy view that must
// account for the source length exactly; for streamed sources the bytes
// are read into a fresh heap buffer. Unless KeepByteOrder was given, the
// elements are then swapped to host byte order in place.
func (a *Array) LoadData() error {
	offset := a.HeaderLen + preludeSize(a.Major)
	if offset%dataAlign != 0 {
		return fmt.Errorf("%w: data offset %d not %d-byte aligned", ErrFormat, offset, dataAlign)
	}

	size, err := a.MemSize()
	if err != nil {
		return err
	}

	switch a.prov {
	case provMapped, provExternal:
		if size > maxInt-offset {
			return fmt.Errorf("%w: data segment overflow", ErrRange)
		}
		// No truncation and no trailing bytes: the declared segment must
		// cover the source exactly.
		if offset+size != len(a.view) {
			return fmt.Errorf("%w: %d header+data bytes in a %d byte source",
				ErrFormat, offset+size, len(a.view))
		}
		a.Data = a.view[offset : offset+size]
	default:
		if a.f == nil {
			return fmt.Errorf("%w: no data source", ErrFormat)
		}
		buf := make([]byte, size)
		if _, err := io.ReadFull(a.f, buf); err != nil {
			return fmt.Errorf("npy: read data: %w", err)
		}
		a.Data = buf
		a.prov = provOwned
	}

	if a.normalize {
		return a.ConvertByteOrder(hostLittleEndian)
	}
	return nil
}
