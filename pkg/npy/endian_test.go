package npy

import (
	"bytes"
	"errors"
	"testing"
	"unsafe"
)

func TestSwapEndianInvolution(t *testing.T) {
	t.Parallel()

	for _, bits := range []int{16, 32, 64} {
		data := make([]byte, 4*bits/8)
		for i := range data {
			data[i] = byte(i * 7)
		}
		orig := bytes.Clone(data)

		if err := SwapEndian(data, bits); err != nil {
			t.Fatalf("swap %d: %v", bits, err)
		}
		if bytes.Equal(data, orig) {
			t.Fatalf("swap %d changed nothing", bits)
		}
		if err := SwapEndian(data, bits); err != nil {
			t.Fatalf("second swap %d: %v", bits, err)
		}
		if !bytes.Equal(data, orig) {
			t.Fatalf("double swap %d did not restore input", bits)
		}
	}
}

func TestSwapEndianWidth8NoOp(t *testing.T) {
	t.Parallel()

	data := []byte{1, 2, 3}
	orig := bytes.Clone(data)
	if err := SwapEndian(data, 8); err != nil {
		t.Fatalf("swap: %v", err)
	}
	if !bytes.Equal(data, orig) {
		t.Fatalf("8-bit swap modified data")
	}
}

func TestSwapEndianGroups(t *testing.T) {
	t.Parallel()

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := SwapEndian(data, 32); err != nil {
		t.Fatalf("swap: %v", err)
	}
	want := []byte{4, 3, 2, 1, 8, 7, 6, 5}
	if !bytes.Equal(data, want) {
		t.Fatalf("got %v want %v", data, want)
	}
}

func TestConvertByteOrder(t *testing.T) {
	t.Parallel()

	a, err := New("<u2", []int{2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	a.Data = []byte{1, 2, 3, 4}

	if err := a.ConvertByteOrder(false); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if a.LittleEndian || a.DType != ">u2" {
		t.Fatalf("dtype code out of step with flags: %q little=%v", a.DType, a.LittleEndian)
	}
	if !bytes.Equal(a.Data, []byte{2, 1, 4, 3}) {
		t.Fatalf("data: %v", a.Data)
	}

	// Matching order is a no-op.
	if err := a.ConvertByteOrder(false); err != nil {
		t.Fatalf("repeat convert: %v", err)
	}
	if !bytes.Equal(a.Data, []byte{2, 1, 4, 3}) {
		t.Fatalf("no-op convert touched data: %v", a.Data)
	}
}

func TestHostByteOrderDetection(t *testing.T) {
	t.Parallel()

	// Independent memory-layout probe: on a little-endian host the low
	// byte of a multi-byte value sits first.
	v := uint16(0x0102)
	first := *(*byte)(unsafe.Pointer(&v))
	if first != 0x01 && first != 0x02 {
		t.Fatalf("first byte of 0x0102 is %#x", first)
	}
	if HostLittleEndian() != (first == 0x02) {
		t.Fatalf("HostLittleEndian() = %v, but first byte of 0x0102 is %#x",
			HostLittleEndian(), first)
	}
}

func TestSwapEndianBadInput(t *testing.T) {
	t.Parallel()

	if err := SwapEndian(make([]byte, 6), 32); !errors.Is(err, ErrFormat) {
		t.Fatalf("ragged length: got %v, want ErrFormat", err)
	}
	if err := SwapEndian(make([]byte, 6), 24); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("24-bit width: got %v, want ErrUnsupported", err)
	}
}
