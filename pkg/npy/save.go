package npy

import (
	"fmt"
	"os"
)

// saveBufSize comfortably holds any version-1 header.
const saveBufSize = 65536

// Write saves the array to an open file in version 1.0 format: assembled
// header, then the element bytes exactly as they sit in Data. On failure
// the destination is left with whatever was already flushed.
func Write(f *os.File, a *Array) error {
	hdr := make([]byte, saveBufSize)
	n, err := EncodeHeader(hdr, a)
	if err != nil {
		return err
	}
	if err := writeFull(f, hdr[:n]); err != nil {
		return fmt.Errorf("npy: write header: %w", err)
	}

	size, err := a.MemSize()
	if err != nil {
		return err
	}
	if len(a.Data) != size {
		return fmt.Errorf("%w: %d data bytes for a %d byte array", ErrRange, len(a.Data), size)
	}
	if err := writeFull(f, a.Data); err != nil {
		return fmt.Errorf("npy: write data: %w", err)
	}
	return nil
}

// Save writes the array to a new file at path, truncating any existing
// contents.
func Save(path string, a *Array) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, a); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeFull(f *os.File, p []byte) error {
	for len(p) > 0 {
		n, err := f.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
