// Package testutil builds small synthetic disc images and executables for
// package tests, so no real (multi-gigabyte) dumps are needed.
package testutil

import (
	"encoding/binary"
	"path"
)

const sectorSize = 2048

// Extent records where a node of a built image landed.
type Extent struct {
	Sector uint32
	Size   uint32
}

// FileNode describes one entry of the synthetic filesystem tree.
type FileNode struct {
	Name     string
	Data     []byte
	Dir      bool
	Children []FileNode
}

// BuiltImage is a fully assembled synthetic XDVDFS image.
type BuiltImage struct {
	Bytes         []byte
	RootOffset    uint64
	RootDirSector uint32
	RootDirSize   uint32
	// Extents maps slash-joined paths (relative to the root) to their
	// placement, for tests that poke at raw image bytes.
	Extents map[string]Extent
}

// SectorOffset returns the absolute byte offset of a sector of the built
// image.
func (img *BuiltImage) SectorOffset(sector uint32) int64 {
	return int64(img.RootOffset) + int64(sector)*sectorSize
}

type segment struct {
	sector uint32
	data   []byte
}

type imageBuilder struct {
	nextSector uint32
	segments   []segment
	extents    map[string]Extent
}

func (b *imageBuilder) place(data []byte) Extent {
	ext := Extent{Sector: b.nextSector, Size: uint32(len(data))}
	if len(data) > 0 {
		b.segments = append(b.segments, segment{sector: b.nextSector, data: data})
	}
	sectors := uint32((len(data) + sectorSize - 1) / sectorSize)
	if sectors == 0 {
		sectors = 1
	}
	b.nextSector += sectors
	return ext
}

func (b *imageBuilder) buildDir(prefix string, nodes []FileNode) Extent {
	type placed struct {
		node FileNode
		ext  Extent
	}
	var children []placed
	for _, node := range nodes {
		var ext Extent
		if node.Dir {
			ext = b.buildDir(path.Join(prefix, node.Name), node.Children)
		} else {
			ext = b.place(node.Data)
		}
		b.extents[path.Join(prefix, node.Name)] = ext
		children = append(children, placed{node: node, ext: ext})
	}

	// Lay the entries out sequentially, chained through the right pointers.
	var table []byte
	for i, child := range children {
		entrySize := (14 + len(child.node.Name) + 3) &^ 3
		right := uint16(0)
		if i+1 < len(children) {
			right = uint16((len(table) + entrySize) / 4)
		}
		entry := make([]byte, entrySize)
		binary.LittleEndian.PutUint16(entry[0:], 0)
		binary.LittleEndian.PutUint16(entry[2:], right)
		binary.LittleEndian.PutUint32(entry[4:], child.ext.Sector)
		binary.LittleEndian.PutUint32(entry[8:], child.ext.Size)
		attr := byte(0)
		if child.node.Dir {
			attr = 0x10
		}
		entry[12] = attr
		entry[13] = byte(len(child.node.Name))
		copy(entry[14:], child.node.Name)
		table = append(table, entry...)
	}
	return b.place(table)
}

// BuildImage assembles a synthetic XDVDFS image with the given root entries,
// starting at the given sub-image base offset.
func BuildImage(rootOffset uint64, rootEntries []FileNode) *BuiltImage {
	b := &imageBuilder{
		// Leave room for the volume descriptor at sector 32.
		nextSector: 40,
		extents:    map[string]Extent{},
	}
	rootExt := b.buildDir("", rootEntries)

	size := rootOffset + uint64(b.nextSector)*sectorSize
	buf := make([]byte, size)

	// Volume descriptor sector.
	magic := []byte("MICROSOFT*XBOX*MEDIA")
	vd := buf[rootOffset+32*sectorSize:]
	copy(vd[0:], magic)
	binary.LittleEndian.PutUint32(vd[0x14:], rootExt.Sector)
	binary.LittleEndian.PutUint32(vd[0x18:], rootExt.Size)
	binary.LittleEndian.PutUint64(vd[0x1C:], 0x01C8_0000_0000_0000)
	copy(vd[sectorSize-20:sectorSize], magic)

	for _, seg := range b.segments {
		copy(buf[rootOffset+uint64(seg.sector)*sectorSize:], seg.data)
	}

	return &BuiltImage{
		Bytes:         buf,
		RootOffset:    rootOffset,
		RootDirSector: rootExt.Sector,
		RootDirSize:   rootExt.Size,
		Extents:       b.extents,
	}
}
