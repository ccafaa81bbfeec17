package xdvdfs

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	// SectorSize is the logical sector size of an XDVDFS volume.
	SectorSize = 2048

	// VolumeDescriptorSector is the fixed sector, relative to the sub-image
	// base, at which the volume descriptor is recorded.
	VolumeDescriptorSector = 32
)

// volumeMagic is the 20-byte signature recorded at both the head and the tail
// of the volume descriptor sector.
var volumeMagic = []byte("MICROSOFT*XBOX*MEDIA")

// ErrInvalidVolumeDescriptor is returned when no candidate sub-image offset
// yields a sector carrying the XDVDFS signature.
var ErrInvalidVolumeDescriptor = errors.New("invalid XDVDFS volume descriptor")

// subImageBases are the known byte offsets at which an XDVDFS game partition
// may start within a physical dump: plain extracted images start at zero,
// XGD2 and XGD3 dumps carry video partitions before the game data.
var subImageBases = []uint64{0x0, 0x0000_0000_0208_0000, 0x0000_0000_0FD9_0000}

// VolumeDescriptor is the parsed filesystem header of an XDVDFS volume.
type VolumeDescriptor struct {
	// RootDirSector is the sector of the root directory table, relative to the
	// sub-image base.
	RootDirSector uint32
	// RootDirSize is the size in bytes of the root directory table.
	RootDirSize uint32
	// ImageCreationTime is the volume creation time as a Windows FILETIME.
	ImageCreationTime uint64
	// RootOffset is the byte offset of the sub-image base within the physical
	// image. All sector addresses in the filesystem are relative to it.
	RootOffset uint64
}

// Unmarshal parses a volume descriptor from a raw 2048-byte sector. The
// RootOffset field is left for the caller, which knows which sub-image base
// the sector was read from.
func (vd *VolumeDescriptor) Unmarshal(sector [SectorSize]byte) error {
	if !bytes.Equal(sector[0:20], volumeMagic) {
		return ErrInvalidVolumeDescriptor
	}
	if !bytes.Equal(sector[SectorSize-20:], volumeMagic) {
		return ErrInvalidVolumeDescriptor
	}
	vd.RootDirSector = binary.LittleEndian.Uint32(sector[0x14:])
	vd.RootDirSize = binary.LittleEndian.Uint32(sector[0x18:])
	vd.ImageCreationTime = binary.LittleEndian.Uint64(sector[0x1C:])
	return nil
}
