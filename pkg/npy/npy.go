// Package npy reads and writes array files in the NumPy .npy format.
//
// A .npy file is a fixed magic prefix, a one-byte major and minor format
// version, a little-endian header length field, an ASCII dictionary literal
// describing dtype, storage order and shape, and finally the raw element
// bytes. The package describes data only and never reinterprets it: a
// Fortran-ordered file is loaded as-is with the order recorded as metadata.
package npy

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Format constants. These must never change.
const (
	// MagicNPY is the six-byte prefix of every .npy file.
	MagicNPY = "\x93NUMPY"

	// Data must begin at a multiple of this from the start of the file.
	dataAlign = 16

	// Prelude sizes: magic + versions + length field.
	// Version 1 uses a 2-byte length field, version 2 a 4-byte one.
	preludeV1  = 10
	preludeV2  = 12
	preludeMax = 12
)

// DefaultHeaderLimit bounds the declared header length on the streaming
// read path. It covers every header a version-1 writer can produce.
const DefaultHeaderLimit = 65536

// provenance records who owns the element buffer.
type provenance uint8

const (
	provNone     provenance = iota
	provExternal            // caller-supplied memory, never released here
	provMapped              // private mmap view, released on Close
	provOwned               // heap buffer, left to the collector
)

// Array is an n-dimensional array loaded from or destined for a .npy file.
//
// The exported fields mirror the file header. DType holds the unparsed
// three-character code and always agrees with the decoded LittleEndian,
// Float, Signed and BitWidth fields; the two forms are only ever set
// together, by the header parser or by New.
type Array struct {
	Major     byte
	Minor     byte
	HeaderLen int

	DType        string
	Shape        []int
	FortranOrder bool
	LittleEndian bool
	Float        bool
	Signed       bool
	BitWidth     int

	// Data holds the raw element bytes in the declared byte order.
	// It is nil until materialized by a load or supplied by the caller.
	Data []byte

	size      int // cached product of Shape
	prov      provenance
	view      []byte // full mapped view or external source buffer
	f         *os.File
	ownsFile  bool
	hdrBuf    []byte // staging buffer on the streaming read path
	normalize bool   // swap loaded data to host byte order
}

// New returns an Array with the dtype code and shape populated and all
// derived fields consistent. The caller supplies Data before saving.
func New(dtype string, shape []int) (*Array, error) {
	a := &Array{
		Major:        1,
		Shape:        shape,
		LittleEndian: hostLittleEndian,
	}
	if err := a.setDType(dtype); err != nil {
		return nil, err
	}
	n, err := countElems(shape)
	if err != nil {
		return nil, err
	}
	a.size = n
	return a, nil
}

// Dim returns the number of axes. A zero-dimensional array is a scalar.
func (a *Array) Dim() int { return len(a.Shape) }

// Size returns the total number of elements. A scalar has one element.
func (a *Array) Size() int {
	if a.size > 0 {
		return a.size
	}
	n, err := countElems(a.Shape)
	if err != nil {
		return 0
	}
	return n
}

// MemSize returns the element buffer size in bytes, or an error if the
// computation overflows.
func (a *Array) MemSize() (int, error) {
	n, err := countElems(a.Shape)
	if err != nil {
		return 0, err
	}
	w := a.BitWidth / 8
	if w <= 0 {
		return 0, fmt.Errorf("%w: bit width %d", ErrUnsupported, a.BitWidth)
	}
	if n > maxInt/w {
		return 0, fmt.Errorf("%w: %d elements of %d bytes overflow", ErrRange, n, w)
	}
	return n * w, nil
}

// Close releases whatever the array acquired during loading: the mapped
// view, the file handle and the header staging buffer. It only touches
// resources that were actually acquired, so it is safe after a failed
// load and safe to call more than once.
func (a *Array) Close() error {
	if a == nil {
		return nil
	}
	var err error
	if a.prov == provMapped && a.view != nil {
		err = unix.Munmap(a.view)
	}
	a.view = nil
	a.Data = nil
	a.prov = provNone
	a.hdrBuf = nil
	if a.ownsFile && a.f != nil {
		if cerr := a.f.Close(); err == nil {
			err = cerr
		}
	}
	a.f = nil
	a.ownsFile = false
	return err
}

const maxInt = int(^uint(0) >> 1)

// countElems is the element count derived from a shape. The empty shape
// is a scalar with one element.
func countElems(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative axis extent %d", ErrFormat, d)
		}
		if d != 0 && n > maxInt/d {
			return 0, fmt.Errorf("%w: element count overflow", ErrRange)
		}
		n *= d
	}
	return n, nil
}

var hostLittleEndian bool

func init() {
	// Decided by memory layout, not value arithmetic.
	hostLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1
}

// HostLittleEndian reports the native byte order of this machine.
func HostLittleEndian() bool {
	return hostLittleEndian
}
