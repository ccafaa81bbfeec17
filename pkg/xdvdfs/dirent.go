package xdvdfs

import (
	"encoding/binary"
	"errors"
	"strings"
)

// Directory table entries are aligned to 4-byte boundaries and address each
// other by dword index from the start of the table. An index of 0xFFFF marks
// an absent child; unused table space is filled with 0xFF.
const (
	direntFixedSize = 14
	direntAlignment = 4
	noEntry         = 0xFFFF
)

// Directory entry attribute flags.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrDirectory = 0x10
	AttrArchive   = 0x20
	AttrNormal    = 0x80
)

var errBadDirent = errors.New("malformed directory entry")

// DirEntry is a single parsed entry from an XDVDFS directory table.
type DirEntry struct {
	// StartSector is the first sector of the entry's data, relative to the
	// sub-image base.
	StartSector uint32
	// FileSize is the entry's data length in bytes. For directories this is
	// the size of the child directory table.
	FileSize uint32
	// Attributes carries the Attr* flag bits.
	Attributes uint8
	// Name is the entry's ASCII name.
	Name string

	left  uint16
	right uint16
}

// IsDirectory reports whether the entry describes a child directory table.
func (e *DirEntry) IsDirectory() bool {
	return e.Attributes&AttrDirectory != 0
}

// parseDirEntry decodes the entry starting at the given dword index of a
// directory table.
func parseDirEntry(table []byte, dword uint16) (*DirEntry, error) {
	off := int(dword) * direntAlignment
	if off+direntFixedSize > len(table) {
		return nil, errBadDirent
	}
	// A run of 0xFF padding means the remainder of the sector holds no more
	// entries.
	if table[off] == 0xFF && table[off+1] == 0xFF {
		return nil, errBadDirent
	}
	e := &DirEntry{
		left:        binary.LittleEndian.Uint16(table[off:]),
		right:       binary.LittleEndian.Uint16(table[off+2:]),
		StartSector: binary.LittleEndian.Uint32(table[off+4:]),
		FileSize:    binary.LittleEndian.Uint32(table[off+8:]),
		Attributes:  table[off+12],
	}
	nameLen := int(table[off+13])
	if nameLen == 0 || off+direntFixedSize+nameLen > len(table) {
		return nil, errBadDirent
	}
	e.Name = string(table[off+direntFixedSize : off+direntFixedSize+nameLen])
	return e, nil
}

// walkTable visits every parseable entry of a directory table in tree order.
// The walk is best-effort: entries that fail to parse terminate their own
// subtree only. Visiting stops early if visit returns false.
func walkTable(table []byte, visit func(*DirEntry) bool) {
	if len(table) == 0 {
		return
	}
	seen := make(map[uint16]bool)
	stack := []uint16{0}
	for len(stack) > 0 {
		dword := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if dword == noEntry || seen[dword] {
			continue
		}
		seen[dword] = true
		e, err := parseDirEntry(table, dword)
		if err != nil {
			continue
		}
		if !visit(e) {
			return
		}
		if e.left != 0 {
			stack = append(stack, e.left)
		}
		if e.right != 0 {
			stack = append(stack, e.right)
		}
	}
}

// findInTable returns the entry with the given name, or nil. XDVDFS name
// comparison is case-insensitive.
func findInTable(table []byte, name string) *DirEntry {
	var found *DirEntry
	walkTable(table, func(e *DirEntry) bool {
		if strings.EqualFold(e.Name, name) {
			found = e
			return false
		}
		return true
	})
	return found
}
