package executable

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// XEX2 header layout (big-endian):
//
//	0x00  magic "XEX2"
//	0x04  module flags
//	0x08  PE data offset
//	0x0C  reserved
//	0x10  security info offset
//	0x14  optional header count
//	0x18  optional header directory: { id u32, offset u32 } * count
//
// The execution-info optional header points at the canonical 24-byte record.
var xexMagic = []byte("XEX2")

const (
	xexHeaderFixedSize     = 0x18
	xexExecutionInfoID     = 0x0004_0006
	xexMaxOptionalHeaders  = 0x100
	xexOptionalHeaderEntry = 8
)

// parseXex extracts the execution info from an XEX2 executable.
func parseXex(r io.ReaderAt) (*ExecutionInfo, error) {
	var header [xexHeaderFixedSize]byte
	if _, err := r.ReadAt(header[:], 0); err != nil {
		return nil, fmt.Errorf("%w: failed to read XEX header: %s", ErrMalformedExecutable, err)
	}
	if !bytes.Equal(header[0:4], xexMagic) {
		return nil, fmt.Errorf("%w: missing XEX2 magic", ErrMalformedExecutable)
	}

	count := binary.BigEndian.Uint32(header[0x14:])
	if count == 0 || count > xexMaxOptionalHeaders {
		return nil, fmt.Errorf("%w: implausible optional header count %d", ErrMalformedExecutable, count)
	}

	directory := make([]byte, count*xexOptionalHeaderEntry)
	if _, err := r.ReadAt(directory, xexHeaderFixedSize); err != nil {
		return nil, fmt.Errorf("%w: failed to read XEX optional header directory: %s", ErrMalformedExecutable, err)
	}

	for i := uint32(0); i < count; i++ {
		id := binary.BigEndian.Uint32(directory[i*xexOptionalHeaderEntry:])
		offset := binary.BigEndian.Uint32(directory[i*xexOptionalHeaderEntry+4:])
		if id != xexExecutionInfoID {
			continue
		}
		var record [ExecutionInfoSize]byte
		if _, err := r.ReadAt(record[:], int64(offset)); err != nil {
			return nil, fmt.Errorf("%w: failed to read XEX execution info: %s", ErrMalformedExecutable, err)
		}
		info := &ExecutionInfo{}
		info.Unmarshal(record)
		return info, nil
	}
	return nil, fmt.Errorf("%w: XEX carries no execution info header", ErrMalformedExecutable)
}
