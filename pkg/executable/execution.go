// Package executable locates and parses a title's primary executable (XEX2
// for Xbox 360 discs, XBE for original Xbox discs) to recover the identity
// fields the Games on Demand container header needs.
package executable

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrExecutableNotFound is returned when the image root directory holds
	// neither a default.xex nor a default.xbe.
	ErrExecutableNotFound = errors.New("title executable not found in image root")
	// ErrMalformedExecutable is returned when the executable header cannot be
	// parsed. No valid package can be produced without it.
	ErrMalformedExecutable = errors.New("malformed title executable")
)

// ExecutionInfoSize is the length of the canonical execution-info record.
const ExecutionInfoSize = 24

// ExecutionInfo identifies the title being converted. The field order and
// widths mirror the execution-info record of the XEX2 header, which is also
// the byte layout the package header stores.
type ExecutionInfo struct {
	MediaID        uint32
	Version        uint32
	BaseVersion    uint32
	TitleID        uint32
	Platform       uint8
	ExecutableType uint8
	DiscNumber     uint8
	DiscCount      uint8
}

// Marshal serializes the execution info as its canonical 24-byte big-endian
// record.
func (e *ExecutionInfo) Marshal() [ExecutionInfoSize]byte {
	var buf [ExecutionInfoSize]byte
	binary.BigEndian.PutUint32(buf[0:], e.MediaID)
	binary.BigEndian.PutUint32(buf[4:], e.Version)
	binary.BigEndian.PutUint32(buf[8:], e.BaseVersion)
	binary.BigEndian.PutUint32(buf[12:], e.TitleID)
	buf[16] = e.Platform
	buf[17] = e.ExecutableType
	buf[18] = e.DiscNumber
	buf[19] = e.DiscCount
	return buf
}

// Unmarshal parses a canonical 24-byte big-endian execution-info record.
func (e *ExecutionInfo) Unmarshal(buf [ExecutionInfoSize]byte) {
	e.MediaID = binary.BigEndian.Uint32(buf[0:])
	e.Version = binary.BigEndian.Uint32(buf[4:])
	e.BaseVersion = binary.BigEndian.Uint32(buf[8:])
	e.TitleID = binary.BigEndian.Uint32(buf[12:])
	e.Platform = buf[16]
	e.ExecutableType = buf[17]
	e.DiscNumber = buf[18]
	e.DiscCount = buf[19]
}

// TitleIDString renders the title identifier in its conventional 8-hex-digit
// form.
func (e *ExecutionInfo) TitleIDString() string {
	return fmt.Sprintf("%08X", e.TitleID)
}
