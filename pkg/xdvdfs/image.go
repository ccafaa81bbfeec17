package xdvdfs

import (
	"fmt"
	"io"
	"os"

	"github.com/bgrewell/god-kit/pkg/logging"
)

// maxWalkDepth bounds the directory recursion performed by
// MaxUsedPrefixSize. Retail discs nest a handful of levels deep; the cap only
// exists to keep pathological tables from walking forever.
const maxWalkDepth = 16

// Image represents an opened XDVDFS disc image.
type Image struct {
	reader io.ReaderAt
	size   int64
	vd     VolumeDescriptor
	logger *logging.Logger
}

// Open locates and parses the XDVDFS volume descriptor from a random-access
// byte source of the given total length. Each known sub-image base offset is
// probed in turn; ErrInvalidVolumeDescriptor is returned when none carries
// the signature.
func Open(reader io.ReaderAt, size int64, logger *logging.Logger) (*Image, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	var sector [SectorSize]byte
	for _, base := range subImageBases {
		off := int64(base) + VolumeDescriptorSector*SectorSize
		if off+SectorSize > size {
			continue
		}
		if _, err := reader.ReadAt(sector[:], off); err != nil {
			return nil, fmt.Errorf("failed to read volume descriptor at offset %d: %w", off, err)
		}
		var vd VolumeDescriptor
		if err := vd.Unmarshal(sector); err != nil {
			logger.Trace("no volume descriptor at sub-image base", "base", base)
			continue
		}
		vd.RootOffset = base
		logger.Debug("parsed volume descriptor",
			"base", base, "rootDirSector", vd.RootDirSector, "rootDirSize", vd.RootDirSize)
		return &Image{
			reader: reader,
			size:   size,
			vd:     vd,
			logger: logger,
		}, nil
	}
	return nil, ErrInvalidVolumeDescriptor
}

// OpenFile opens the image file at the given path. The caller owns closing
// the returned file; the Image reads from it for its whole lifetime.
func OpenFile(path string, logger *logging.Logger) (*Image, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image file: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	img, err := Open(f, fi.Size(), logger)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return img, f, nil
}

// VolumeDescriptor returns the parsed volume descriptor.
func (img *Image) VolumeDescriptor() VolumeDescriptor {
	return img.vd
}

// RootOffset returns the byte offset where the usable filesystem payload
// begins. Downstream length calculations subtract it from the physical image
// size.
func (img *Image) RootOffset() uint64 {
	return img.vd.RootOffset
}

// Size returns the total byte length of the physical image.
func (img *Image) Size() int64 {
	return img.size
}

// Reader exposes the underlying random-access byte source.
func (img *Image) Reader() io.ReaderAt {
	return img.reader
}

// readTable reads a whole directory table into memory. Tables are small
// (a few sectors) so this keeps traversal simple.
func (img *Image) readTable(sector uint32, size uint32) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	table := make([]byte, size)
	off := int64(img.vd.RootOffset) + int64(sector)*SectorSize
	if _, err := img.reader.ReadAt(table, off); err != nil {
		return nil, fmt.Errorf("failed to read directory table at sector %d: %w", sector, err)
	}
	return table, nil
}

// FindRootEntry looks up a name in the root directory table.
func (img *Image) FindRootEntry(name string) (*DirEntry, error) {
	table, err := img.readTable(img.vd.RootDirSector, img.vd.RootDirSize)
	if err != nil {
		return nil, err
	}
	return findInTable(table, name), nil
}

// EntryReader returns a reader over the data extent of a directory entry.
func (img *Image) EntryReader(e *DirEntry) *io.SectionReader {
	off := int64(img.vd.RootOffset) + int64(e.StartSector)*SectorSize
	return io.NewSectionReader(img.reader, off, int64(e.FileSize))
}

// MaxUsedPrefixSize scans the filesystem metadata for the highest byte offset
// referenced by any file or directory, rounded up to the sector size and
// relative to the root offset. The scan is best-effort: directory tables that
// cannot be read or entries that do not parse contribute nothing, and
// recursion is capped at maxWalkDepth levels.
func (img *Image) MaxUsedPrefixSize() uint64 {
	max := extentEnd(img.vd.RootDirSector, img.vd.RootDirSize)
	img.walkUsed(img.vd.RootDirSector, img.vd.RootDirSize, 0, &max)
	return max
}

func (img *Image) walkUsed(sector uint32, size uint32, depth int, max *uint64) {
	if depth >= maxWalkDepth {
		img.logger.Debug("directory walk depth cap reached", "sector", sector)
		return
	}
	table, err := img.readTable(sector, size)
	if err != nil {
		img.logger.Debug("skipping unreadable directory table", "sector", sector, "error", err)
		return
	}
	walkTable(table, func(e *DirEntry) bool {
		if end := extentEnd(e.StartSector, e.FileSize); end > *max {
			*max = end
		}
		if e.IsDirectory() {
			img.walkUsed(e.StartSector, e.FileSize, depth+1, max)
		}
		return true
	})
}

// extentEnd returns the exclusive end offset of an extent, rounded up to a
// whole sector.
func extentEnd(sector uint32, size uint32) uint64 {
	sectors := (uint64(size) + SectorSize - 1) / SectorSize
	return (uint64(sector) + sectors) * SectorSize
}
