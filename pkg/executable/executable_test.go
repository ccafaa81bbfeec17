package executable_test

import (
	"bytes"
	"testing"

	"github.com/bgrewell/god-kit/internal/testutil"
	"github.com/bgrewell/god-kit/pkg/executable"
	"github.com/bgrewell/god-kit/pkg/xdvdfs"
	"github.com/stretchr/testify/require"
)

func openImage(t *testing.T, nodes []testutil.FileNode) *xdvdfs.Image {
	t.Helper()
	built := testutil.BuildImage(0, nodes)
	img, err := xdvdfs.Open(bytes.NewReader(built.Bytes), int64(len(built.Bytes)), nil)
	require.NoError(t, err)
	return img
}

func TestExtractTitleInfo(t *testing.T) {
	t.Run("Xex", func(t *testing.T) {
		spec := testutil.ExecSpec{
			TitleID:     0x4D5307E6,
			MediaID:     0x11223344,
			Version:     0x00000003,
			BaseVersion: 0x00000001,
			DiscNumber:  1,
			DiscCount:   1,
		}
		img := openImage(t, []testutil.FileNode{
			{Name: "default.xex", Data: testutil.BuildXex(spec)},
		})

		info, err := executable.ExtractTitleInfo(img)
		require.NoError(t, err)
		require.Equal(t, executable.ContentTypeGamesOnDemand, info.ContentType)
		require.Equal(t, spec.TitleID, info.ExecutionInfo.TitleID)
		require.Equal(t, spec.MediaID, info.ExecutionInfo.MediaID)
		require.Equal(t, spec.Version, info.ExecutionInfo.Version)
		require.Equal(t, spec.BaseVersion, info.ExecutionInfo.BaseVersion)
		require.Equal(t, spec.DiscNumber, info.ExecutionInfo.DiscNumber)
		require.Equal(t, spec.DiscCount, info.ExecutionInfo.DiscCount)
	})

	t.Run("XexNameIsCaseInsensitive", func(t *testing.T) {
		img := openImage(t, []testutil.FileNode{
			{Name: "DEFAULT.XEX", Data: testutil.BuildXex(testutil.ExecSpec{TitleID: 0x0A0B0C0D})},
		})

		info, err := executable.ExtractTitleInfo(img)
		require.NoError(t, err)
		require.Equal(t, uint32(0x0A0B0C0D), info.ExecutionInfo.TitleID)
	})

	t.Run("Xbe", func(t *testing.T) {
		spec := testutil.ExecSpec{
			TitleID:    0x4541000D,
			Version:    0x00000002,
			DiscNumber: 2,
		}
		img := openImage(t, []testutil.FileNode{
			{Name: "default.xbe", Data: testutil.BuildXbe(spec)},
		})

		info, err := executable.ExtractTitleInfo(img)
		require.NoError(t, err)
		require.Equal(t, executable.ContentTypeXboxOriginal, info.ContentType)
		require.Equal(t, spec.TitleID, info.ExecutionInfo.TitleID)
		require.Equal(t, spec.Version, info.ExecutionInfo.Version)
		// Fields the XBE certificate lacks get their conventional values.
		require.Equal(t, spec.Version, info.ExecutionInfo.BaseVersion)
		require.Equal(t, uint32(0), info.ExecutionInfo.MediaID)
		require.Equal(t, uint8(2), info.ExecutionInfo.DiscNumber)
		require.Equal(t, uint8(1), info.ExecutionInfo.DiscCount)
	})

	t.Run("XexPreferredOverXbe", func(t *testing.T) {
		img := openImage(t, []testutil.FileNode{
			{Name: "default.xbe", Data: testutil.BuildXbe(testutil.ExecSpec{TitleID: 1})},
			{Name: "default.xex", Data: testutil.BuildXex(testutil.ExecSpec{TitleID: 2})},
		})

		info, err := executable.ExtractTitleInfo(img)
		require.NoError(t, err)
		require.Equal(t, executable.ContentTypeGamesOnDemand, info.ContentType)
		require.Equal(t, uint32(2), info.ExecutionInfo.TitleID)
	})

	t.Run("NotFound", func(t *testing.T) {
		img := openImage(t, []testutil.FileNode{
			{Name: "readme.txt", Data: []byte("nothing to run here")},
		})

		_, err := executable.ExtractTitleInfo(img)
		require.ErrorIs(t, err, executable.ErrExecutableNotFound)
	})

	t.Run("MalformedXex", func(t *testing.T) {
		img := openImage(t, []testutil.FileNode{
			{Name: "default.xex", Data: bytes.Repeat([]byte{0xDE}, 64)},
		})

		_, err := executable.ExtractTitleInfo(img)
		require.ErrorIs(t, err, executable.ErrMalformedExecutable)
	})

	t.Run("MalformedXbe", func(t *testing.T) {
		img := openImage(t, []testutil.FileNode{
			{Name: "default.xbe", Data: []byte("XBEH truncated")},
		})

		_, err := executable.ExtractTitleInfo(img)
		require.ErrorIs(t, err, executable.ErrMalformedExecutable)
	})
}

func TestExecutionInfoRecord(t *testing.T) {
	info := executable.ExecutionInfo{
		MediaID:        0xAABBCCDD,
		Version:        0x00000007,
		BaseVersion:    0x00000005,
		TitleID:        0x4D5307E6,
		Platform:       2,
		ExecutableType: 1,
		DiscNumber:     1,
		DiscCount:      2,
	}

	record := info.Marshal()
	var back executable.ExecutionInfo
	back.Unmarshal(record)
	require.Equal(t, info, back)
	require.Equal(t, "4D5307E6", info.TitleIDString())

	// The record is big-endian with the title id at offset 12.
	require.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, record[0:4])
	require.Equal(t, []byte{0x4D, 0x53, 0x07, 0xE6}, record[12:16])
}
