package npy

import (
	"errors"
	"testing"
)

func TestDTypeCodecRoundTrip(t *testing.T) {
	t.Parallel()

	type want struct {
		little bool
		float  bool
		signed bool
		bits   int
	}
	cases := map[string]want{
		"<i1": {little: true, signed: true, bits: 8},
		"<i2": {little: true, signed: true, bits: 16},
		"<i4": {little: true, signed: true, bits: 32},
		"<i8": {little: true, signed: true, bits: 64},
		"<u1": {little: true, bits: 8},
		"<u4": {little: true, bits: 32},
		"<f4": {little: true, float: true, signed: true, bits: 32},
		"<f8": {little: true, float: true, signed: true, bits: 64},
		">i8": {signed: true, bits: 64},
		">u2": {bits: 16},
		">f4": {float: true, signed: true, bits: 32},
		">f8": {float: true, signed: true, bits: 64},
	}

	for code, w := range cases {
		var a Array
		if err := a.setDType(code); err != nil {
			t.Fatalf("setDType(%q): %v", code, err)
		}
		if a.DType != code {
			t.Fatalf("dtype %q not retained, got %q", code, a.DType)
		}
		if a.LittleEndian != w.little || a.Float != w.float || a.Signed != w.signed || a.BitWidth != w.bits {
			t.Fatalf("decode %q: got little=%v float=%v signed=%v bits=%d",
				code, a.LittleEndian, a.Float, a.Signed, a.BitWidth)
		}
		back, err := a.dtypeCode()
		if err != nil {
			t.Fatalf("dtypeCode after %q: %v", code, err)
		}
		if back != code {
			t.Fatalf("round trip %q -> %q", code, back)
		}
	}
}

func TestDTypeRejected(t *testing.T) {
	t.Parallel()

	bad := []string{
		"", "f", "f4", "<f44", "|f4", "=f4", "<b1", "<c8", "<f3", "<f0",
		"<i16", ">z4", "f4<",
	}
	for _, code := range bad {
		var a Array
		err := a.setDType(code)
		if !errors.Is(err, ErrUnsupported) {
			t.Fatalf("setDType(%q): got %v, want ErrUnsupported", code, err)
		}
	}
}

func TestDTypeCodeInvalidWidth(t *testing.T) {
	t.Parallel()

	a := Array{BitWidth: 24, Signed: true}
	if _, err := a.dtypeCode(); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("dtypeCode with 24-bit width: got %v, want ErrUnsupported", err)
	}
}
