package npy

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// prelude is the decoded fixed-layout prefix of a .npy file: magic,
// version bytes and the header length field.
type prelude struct {
	major     byte
	minor     byte
	headerLen int
	headerOff int // offset of the first header-text byte
}

// parsePrelude decodes the fixed prefix from buf. It needs only a minimal
// prefix of the file: 10 bytes for version 1, 12 for version 2.
func parsePrelude(buf []byte) (prelude, error) {
	var p prelude

	if len(buf) < preludeV1 {
		return p, fmt.Errorf("%w: truncated prelude", ErrFormat)
	}
	if !bytes.Equal(buf[:6], []byte(MagicNPY)) {
		return p, fmt.Errorf("%w: bad magic", ErrFormat)
	}
	p.major = buf[6]
	p.minor = buf[7]

	switch p.major {
	case 1:
		p.headerLen = int(binary.LittleEndian.Uint16(buf[8:10]))
		p.headerOff = preludeV1
	case 2:
		if len(buf) < preludeV2 {
			return p, fmt.Errorf("%w: truncated prelude", ErrFormat)
		}
		p.headerLen = int(binary.LittleEndian.Uint32(buf[8:12]))
		p.headerOff = preludeV2
	default:
		return p, fmt.Errorf("%w: npy version %d.%d", ErrUnsupported, p.major, p.minor)
	}

	return p, nil
}

// preludeSize is the prelude length implied by a major version that has
// already passed parsePrelude.
func preludeSize(major byte) int {
	if major == 2 {
		return preludeV2
	}
	return preludeV1
}
