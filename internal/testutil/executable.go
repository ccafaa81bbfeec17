package testutil

import (
	"encoding/binary"
)

// ExecSpec carries the identity fields baked into a synthetic executable.
type ExecSpec struct {
	TitleID     uint32
	MediaID     uint32
	Version     uint32
	BaseVersion uint32
	DiscNumber  uint8
	DiscCount   uint8
}

// BuildXex builds a minimal XEX2 executable whose optional-header directory
// carries a single execution-info record.
func BuildXex(spec ExecSpec) []byte {
	const recordOffset = 0x20
	buf := make([]byte, recordOffset+24)
	copy(buf[0:], "XEX2")
	binary.BigEndian.PutUint32(buf[0x14:], 1)
	binary.BigEndian.PutUint32(buf[0x18:], 0x0004_0006)
	binary.BigEndian.PutUint32(buf[0x1C:], recordOffset)

	binary.BigEndian.PutUint32(buf[recordOffset+0:], spec.MediaID)
	binary.BigEndian.PutUint32(buf[recordOffset+4:], spec.Version)
	binary.BigEndian.PutUint32(buf[recordOffset+8:], spec.BaseVersion)
	binary.BigEndian.PutUint32(buf[recordOffset+12:], spec.TitleID)
	buf[recordOffset+16] = 2 // platform: Xbox 360
	buf[recordOffset+17] = 1 // executable type
	buf[recordOffset+18] = spec.DiscNumber
	buf[recordOffset+19] = spec.DiscCount
	return buf
}

// BuildXbe builds a minimal original-Xbox XBE executable with a certificate
// holding the given identity.
func BuildXbe(spec ExecSpec) []byte {
	const (
		baseAddr   = 0x0001_0000
		certOffset = 0x200
	)
	buf := make([]byte, certOffset+0xB0)
	copy(buf[0:], "XBEH")
	binary.LittleEndian.PutUint32(buf[0x104:], baseAddr)
	binary.LittleEndian.PutUint32(buf[0x118:], baseAddr+certOffset)

	cert := buf[certOffset:]
	binary.LittleEndian.PutUint32(cert[0x08:], spec.TitleID)
	cert[0xA8] = spec.DiscNumber
	binary.LittleEndian.PutUint32(cert[0xAC:], spec.Version)
	return buf
}
