package npy

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// headerFloor is the minimum buffer that can hold the fixed header
// structure for the smallest possible array.
const headerFloor = 64

// builder appends into a fixed caller-supplied buffer and fails
// explicitly when capacity runs out, instead of tracking raw offsets.
type builder struct {
	buf []byte
	n   int
}

func (b *builder) writeString(s string) error {
	if b.n+len(s) > len(b.buf) {
		return fmt.Errorf("%w: header buffer too small", ErrRange)
	}
	copy(b.buf[b.n:], s)
	b.n += len(s)
	return nil
}

func (b *builder) writeByte(c byte) error {
	if b.n >= len(b.buf) {
		return fmt.Errorf("%w: header buffer too small", ErrRange)
	}
	b.buf[b.n] = c
	b.n++
	return nil
}

// EncodeHeader assembles the complete file header for a into buf: magic
// and version prefix, length field, dictionary literal, space padding to a
// 16-byte boundary and the closing newline. It returns the total number of
// header bytes written. Output is always version 1.0.
//
// The shape tuple is unbounded by construction, so the bound is checked
// while each entry is emitted rather than estimated up front.
func EncodeHeader(buf []byte, a *Array) (int, error) {
	if len(buf) < headerFloor {
		return 0, fmt.Errorf("%w: header buffer below %d bytes", ErrRange, headerFloor)
	}

	code, err := a.dtypeCode()
	if err != nil {
		return 0, err
	}

	b := &builder{buf: buf}
	// Magic, version 1.0, then two bytes reserved for the length field.
	if err := b.writeString(MagicNPY + "\x01\x00\x00\x00"); err != nil {
		return 0, err
	}

	if err := b.writeString(`{"descr": "` + code + `", `); err != nil {
		return 0, err
	}
	order := "False"
	if a.FortranOrder {
		order = "True"
	}
	if err := b.writeString(`"fortran_order": ` + order + `, `); err != nil {
		return 0, err
	}
	if err := b.writeString(`"shape": (`); err != nil {
		return 0, err
	}
	var scratch [20]byte
	for _, d := range a.Shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative axis extent %d", ErrFormat, d)
		}
		s := strconv.AppendInt(scratch[:0], int64(d), 10)
		if err := b.writeString(string(s)); err != nil {
			return 0, err
		}
		if err := b.writeString(", "); err != nil {
			return 0, err
		}
	}
	if err := b.writeString(")}"); err != nil {
		return 0, err
	}

	// Pad with spaces so the data segment starts on a 16-byte boundary.
	// At least one pad byte is required to carry the closing newline.
	pad := dataAlign - b.n%dataAlign // in [1,16], so the newline always fits
	for i := 0; i < pad; i++ {
		if err := b.writeByte(' '); err != nil {
			return 0, err
		}
	}
	buf[b.n-1] = '\n'

	headerLen := b.n - preludeV1
	if headerLen > 0xFFFF {
		return 0, fmt.Errorf("%w: header length %d exceeds version 1 field", ErrRange, headerLen)
	}
	binary.LittleEndian.PutUint16(buf[8:10], uint16(headerLen))

	return b.n, nil
}
