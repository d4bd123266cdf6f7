package npy

import "fmt"

// SwapEndian reverses the bytes of every element in data in place,
// converting between little- and big-endian storage. Applying it twice
// restores the original bytes. 8-bit elements are a no-op.
func SwapEndian(data []byte, bitWidth int) error {
	switch bitWidth {
	case 8:
		return nil
	case 16, 32, 64:
	default:
		return fmt.Errorf("%w: bit width %d", ErrUnsupported, bitWidth)
	}

	w := bitWidth / 8
	if len(data)%w != 0 {
		return fmt.Errorf("%w: %d bytes is not a whole number of %d-byte elements",
			ErrFormat, len(data), w)
	}

	for off := 0; off < len(data); off += w {
		for i, j := off, off+w-1; i < j; i, j = i+1, j-1 {
			data[i], data[j] = data[j], data[i]
		}
	}
	return nil
}

// ConvertByteOrder rewrites the element bytes to the requested order and
// keeps the dtype code in step with the flags. Already-matching arrays
// are left untouched.
func (a *Array) ConvertByteOrder(little bool) error {
	if little == a.LittleEndian {
		return nil
	}
	if err := SwapEndian(a.Data, a.BitWidth); err != nil {
		return err
	}
	a.LittleEndian = little
	code, err := a.dtypeCode()
	if err != nil {
		return err
	}
	a.DType = code
	return nil
}
