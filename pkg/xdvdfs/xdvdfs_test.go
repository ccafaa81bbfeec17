package xdvdfs_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/bgrewell/god-kit/internal/testutil"
	"github.com/bgrewell/god-kit/pkg/xdvdfs"
	"github.com/stretchr/testify/require"
)

func openBuilt(t *testing.T, img *testutil.BuiltImage) *xdvdfs.Image {
	t.Helper()
	opened, err := xdvdfs.Open(bytes.NewReader(img.Bytes), int64(len(img.Bytes)), nil)
	require.NoError(t, err)
	return opened
}

func TestOpen(t *testing.T) {
	t.Run("PlainImage", func(t *testing.T) {
		built := testutil.BuildImage(0, []testutil.FileNode{
			{Name: "default.xex", Data: []byte("not a real executable")},
		})
		img := openBuilt(t, built)
		require.Equal(t, uint64(0), img.RootOffset())
		require.Equal(t, built.RootDirSector, img.VolumeDescriptor().RootDirSector)
		require.Equal(t, built.RootDirSize, img.VolumeDescriptor().RootDirSize)
	})

	t.Run("SubImageBase", func(t *testing.T) {
		// XGD2-style dump: the game partition starts past a video partition.
		built := testutil.BuildImage(0x0208_0000, []testutil.FileNode{
			{Name: "default.xex", Data: []byte("payload")},
		})
		img := openBuilt(t, built)
		require.Equal(t, uint64(0x0208_0000), img.RootOffset())
	})

	t.Run("NoDescriptor", func(t *testing.T) {
		blank := make([]byte, 0x20000)
		_, err := xdvdfs.Open(bytes.NewReader(blank), int64(len(blank)), nil)
		require.ErrorIs(t, err, xdvdfs.ErrInvalidVolumeDescriptor)
	})

	t.Run("TruncatedImage", func(t *testing.T) {
		_, err := xdvdfs.Open(bytes.NewReader(nil), 0, nil)
		require.ErrorIs(t, err, xdvdfs.ErrInvalidVolumeDescriptor)
	})

	t.Run("CorruptTailMagic", func(t *testing.T) {
		built := testutil.BuildImage(0, []testutil.FileNode{
			{Name: "default.xex", Data: []byte("payload")},
		})
		copy(built.Bytes[built.SectorOffset(33)-20:], "XXXX")
		_, err := xdvdfs.Open(bytes.NewReader(built.Bytes), int64(len(built.Bytes)), nil)
		require.ErrorIs(t, err, xdvdfs.ErrInvalidVolumeDescriptor)
	})
}

func TestFindRootEntry(t *testing.T) {
	built := testutil.BuildImage(0, []testutil.FileNode{
		{Name: "default.xex", Data: []byte("executable bytes")},
		{Name: "data", Dir: true, Children: []testutil.FileNode{
			{Name: "level0.bin", Data: bytes.Repeat([]byte{0xAB}, 5000)},
		}},
	})
	img := openBuilt(t, built)

	t.Run("CaseInsensitive", func(t *testing.T) {
		entry, err := img.FindRootEntry("DEFAULT.XEX")
		require.NoError(t, err)
		require.NotNil(t, entry)
		require.Equal(t, uint32(len("executable bytes")), entry.FileSize)
		require.False(t, entry.IsDirectory())
	})

	t.Run("Directory", func(t *testing.T) {
		entry, err := img.FindRootEntry("data")
		require.NoError(t, err)
		require.NotNil(t, entry)
		require.True(t, entry.IsDirectory())
	})

	t.Run("Missing", func(t *testing.T) {
		entry, err := img.FindRootEntry("default.xbe")
		require.NoError(t, err)
		require.Nil(t, entry)
	})
}

func TestEntryReader(t *testing.T) {
	content := []byte("executable bytes")
	built := testutil.BuildImage(0, []testutil.FileNode{
		{Name: "default.xex", Data: content},
	})
	img := openBuilt(t, built)

	entry, err := img.FindRootEntry("default.xex")
	require.NoError(t, err)
	require.NotNil(t, entry)

	data, err := io.ReadAll(img.EntryReader(entry))
	require.NoError(t, err)
	require.Equal(t, content, data)
}

// expectedUsedSize mirrors the trim computation: the sector-rounded end of
// the furthest extent, including the directory tables themselves.
func expectedUsedSize(built *testutil.BuiltImage) uint64 {
	end := func(sector uint32, size uint32) uint64 {
		sectors := (uint64(size) + 2047) / 2048
		return (uint64(sector) + sectors) * 2048
	}
	max := end(built.RootDirSector, built.RootDirSize)
	for _, ext := range built.Extents {
		if e := end(ext.Sector, ext.Size); e > max {
			max = e
		}
	}
	return max
}

func TestMaxUsedPrefixSize(t *testing.T) {
	tree := []testutil.FileNode{
		{Name: "default.xex", Data: bytes.Repeat([]byte{1}, 3000)},
		{Name: "media", Dir: true, Children: []testutil.FileNode{
			{Name: "intro.bik", Data: bytes.Repeat([]byte{2}, 10_000)},
			{Name: "textures", Dir: true, Children: []testutil.FileNode{
				{Name: "ui.dds", Data: bytes.Repeat([]byte{3}, 700)},
			}},
		}},
	}

	t.Run("WholeTree", func(t *testing.T) {
		built := testutil.BuildImage(0, tree)
		img := openBuilt(t, built)
		require.Equal(t, expectedUsedSize(built), img.MaxUsedPrefixSize())
	})

	t.Run("GarbledSubdirIsBestEffort", func(t *testing.T) {
		built := testutil.BuildImage(0, tree)
		// Shred the media directory table; the scan must skip it, not fail.
		ext := built.Extents["media"]
		table := built.Bytes[built.SectorOffset(ext.Sector):]
		for i := uint32(0); i < ext.Size; i++ {
			table[i] = 0xFF
		}
		img := openBuilt(t, built)
		got := img.MaxUsedPrefixSize()
		require.Equal(t, expectedUsedSize(built), got)
	})

	t.Run("RelativeToSubImageBase", func(t *testing.T) {
		built := testutil.BuildImage(0x0208_0000, tree)
		img := openBuilt(t, built)
		require.Equal(t, expectedUsedSize(built), img.MaxUsedPrefixSize())
	})
}
