package npy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestEncodeHeaderLayout(t *testing.T) {
	t.Parallel()

	a, err := New("<f4", []int{2, 3})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	buf := make([]byte, 256)
	n, err := EncodeHeader(buf, a)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if !bytes.Equal(buf[:6], []byte(MagicNPY)) {
		t.Fatalf("magic: %x", buf[:6])
	}
	if buf[6] != 1 || buf[7] != 0 {
		t.Fatalf("version: %d.%d", buf[6], buf[7])
	}
	if n%16 != 0 {
		t.Fatalf("total header bytes %d not 16-byte aligned", n)
	}
	if buf[n-1] != '\n' {
		t.Fatalf("last header byte %q, want newline", buf[n-1])
	}
	hlen := int(binary.LittleEndian.Uint16(buf[8:10]))
	if 10+hlen != n {
		t.Fatalf("length field %d does not cover %d header bytes", hlen, n)
	}
	text := buf[10:n]
	if !bytes.HasPrefix(text, []byte(`{"descr": "<f4", "fortran_order": False, "shape": (2, 3, )}`)) {
		t.Fatalf("header text: %q", text)
	}
	for _, c := range text[bytes.IndexByte(text, '}')+1 : len(text)-1] {
		if c != ' ' {
			t.Fatalf("padding contains %q", c)
		}
	}
}

func TestEncodeHeaderParseRoundTrip(t *testing.T) {
	t.Parallel()

	dtypes := []string{"<i1", "<u2", "<i4", "<f8", ">u8", ">f4"}
	shapes := [][]int{nil, {5}, {2, 3}, {1, 1, 1, 7}, {0, 4}}

	buf := make([]byte, 512)
	for _, code := range dtypes {
		for _, shape := range shapes {
			for _, fortran := range []bool{false, true} {
				a, err := New(code, shape)
				if err != nil {
					t.Fatalf("new %s: %v", code, err)
				}
				a.FortranOrder = fortran

				n, err := EncodeHeader(buf, a)
				if err != nil {
					t.Fatalf("encode %s %v: %v", code, shape, err)
				}

				var back Array
				if err := back.parseHeaderBytes(buf[:n]); err != nil {
					t.Fatalf("parse back %s %v: %v", code, shape, err)
				}
				if back.DType != code {
					t.Fatalf("dtype: got %q want %q", back.DType, code)
				}
				if back.FortranOrder != fortran {
					t.Fatalf("fortran_order: got %v want %v", back.FortranOrder, fortran)
				}
				if len(back.Shape) != len(shape) {
					t.Fatalf("shape: got %v want %v", back.Shape, shape)
				}
				for i := range shape {
					if back.Shape[i] != shape[i] {
						t.Fatalf("shape: got %v want %v", back.Shape, shape)
					}
				}
				if back.HeaderLen+preludeSize(back.Major) != n {
					t.Fatalf("header len %d for %d total bytes", back.HeaderLen, n)
				}
			}
		}
	}
}

func TestEncodeHeaderBufferFloor(t *testing.T) {
	t.Parallel()

	a, err := New("<f4", nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := EncodeHeader(make([]byte, 63), a); !errors.Is(err, ErrRange) {
		t.Fatalf("63-byte buffer: got %v, want ErrRange", err)
	}
}

func TestEncodeHeaderShapeOverflowsBuffer(t *testing.T) {
	t.Parallel()

	shape := make([]int, 64)
	for i := range shape {
		shape[i] = 1000000 + i
	}
	a, err := New("<f4", shape)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	// Enough for the fixed structure but not for 64 shape entries.
	if _, err := EncodeHeader(make([]byte, 128), a); !errors.Is(err, ErrRange) {
		t.Fatalf("overflowing shape entries: got %v, want ErrRange", err)
	}
}
