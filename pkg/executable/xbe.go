package executable

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// XBE header layout (little-endian):
//
//	0x000  magic "XBEH"
//	0x104  image base address
//	0x118  certificate virtual address
//
// Certificate (addressed virtually, relative to the image base):
//
//	+0x08  title id
//	+0xA8  disc number
//	+0xAC  version
var xbeMagic = []byte("XBEH")

const (
	xbeHeaderSize      = 0x11C
	xbeBaseAddrOffset  = 0x104
	xbeCertAddrOffset  = 0x118
	xbeCertTitleID     = 0x08
	xbeCertDiscNumber  = 0xA8
	xbeCertVersion     = 0xAC
	xbeCertMinimumSize = 0xB0
)

// parseXbe extracts the execution info from an original-Xbox XBE executable.
// The XBE certificate carries fewer identity fields than a XEX execution-info
// record; the missing ones are synthesized with their conventional values.
func parseXbe(r io.ReaderAt) (*ExecutionInfo, error) {
	var header [xbeHeaderSize]byte
	if _, err := r.ReadAt(header[:], 0); err != nil {
		return nil, fmt.Errorf("%w: failed to read XBE header: %s", ErrMalformedExecutable, err)
	}
	if !bytes.Equal(header[0:4], xbeMagic) {
		return nil, fmt.Errorf("%w: missing XBEH magic", ErrMalformedExecutable)
	}

	baseAddr := binary.LittleEndian.Uint32(header[xbeBaseAddrOffset:])
	certAddr := binary.LittleEndian.Uint32(header[xbeCertAddrOffset:])
	if certAddr < baseAddr {
		return nil, fmt.Errorf("%w: certificate address below image base", ErrMalformedExecutable)
	}

	cert := make([]byte, xbeCertMinimumSize)
	if _, err := r.ReadAt(cert, int64(certAddr-baseAddr)); err != nil {
		return nil, fmt.Errorf("%w: failed to read XBE certificate: %s", ErrMalformedExecutable, err)
	}

	version := binary.LittleEndian.Uint32(cert[xbeCertVersion:])
	discNumber := cert[xbeCertDiscNumber]
	if discNumber == 0 {
		discNumber = 1
	}
	return &ExecutionInfo{
		MediaID:     0,
		Version:     version,
		BaseVersion: version,
		TitleID:     binary.LittleEndian.Uint32(cert[xbeCertTitleID:]),
		DiscNumber:  discNumber,
		DiscCount:   1,
	}, nil
}
