package npy

import "fmt"

// setDType decodes a three-character dtype code and stores both the code
// and its decoded fields. Codes are `<` or `>` for byte order, `i`, `u` or
// `f` for the element kind, and `1`, `2`, `4` or `8` for the byte width.
// Everything else, including byte-order-agnostic and structured dtypes,
// is rejected.
func (a *Array) setDType(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("%w: dtype %q", ErrUnsupported, code)
	}

	var little bool
	switch code[0] {
	case '<':
		little = true
	case '>':
		little = false
	default:
		return fmt.Errorf("%w: dtype %q", ErrUnsupported, code)
	}

	var float, signed bool
	switch code[1] {
	case 'i':
		signed = true
	case 'u':
	case 'f':
		// floating point implies signed
		float = true
		signed = true
	default:
		return fmt.Errorf("%w: dtype %q", ErrUnsupported, code)
	}

	var bits int
	switch code[2] {
	case '1':
		bits = 8
	case '2':
		bits = 16
	case '4':
		bits = 32
	case '8':
		bits = 64
	default:
		return fmt.Errorf("%w: dtype %q", ErrUnsupported, code)
	}

	a.DType = code
	a.LittleEndian = little
	a.Float = float
	a.Signed = signed
	a.BitWidth = bits
	return nil
}

// dtypeCode is the inverse of setDType: it encodes the current flags as
// one of the twelve valid codes.
func (a *Array) dtypeCode() (string, error) {
	var b [3]byte

	if a.LittleEndian {
		b[0] = '<'
	} else {
		b[0] = '>'
	}

	switch {
	case a.Float:
		b[1] = 'f'
	case a.Signed:
		b[1] = 'i'
	default:
		b[1] = 'u'
	}

	switch a.BitWidth {
	case 8:
		b[2] = '1'
	case 16:
		b[2] = '2'
	case 32:
		b[2] = '4'
	case 64:
		b[2] = '8'
	default:
		return "", fmt.Errorf("%w: bit width %d", ErrUnsupported, a.BitWidth)
	}

	return string(b[:]), nil
}
