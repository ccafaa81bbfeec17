package god_test

import (
	"crypto/sha1"
	"path/filepath"
	"testing"

	"github.com/bgrewell/god-kit/pkg/executable"
	"github.com/bgrewell/god-kit/pkg/god"
	"github.com/stretchr/testify/require"
)

func TestFileLayout(t *testing.T) {
	info := &executable.ExecutionInfo{
		MediaID: 0x11223344,
		TitleID: 0x4D5307E6,
		Version: 3,
	}
	layout := god.NewFileLayout("/games", info, executable.ContentTypeGamesOnDemand)

	record := info.Marshal()
	wantID := sha1.Sum(record[:])
	require.Equal(t, wantID, layout.ContentID())
	require.Len(t, layout.ContentIDString(), 2*sha1.Size)

	cid := layout.ContentIDString()
	require.Equal(t, filepath.Join("/games", "4D5307E6"), layout.TitleDirPath())
	require.Equal(t, filepath.Join("/games", "4D5307E6", "00007000"), layout.ContentTypeDirPath())
	require.Equal(t, filepath.Join("/games", "4D5307E6", "00007000", cid+".data"), layout.DataDirPath())
	require.Equal(t, filepath.Join("/games", "4D5307E6", "00007000", cid+".data", "Data0000"), layout.PartFilePath(0))
	require.Equal(t, filepath.Join("/games", "4D5307E6", "00007000", cid+".data", "Data0012"), layout.PartFilePath(12))
	require.Equal(t, filepath.Join("/games", "4D5307E6", "00007000", cid), layout.HeaderFilePath())
}

func TestFileLayoutIsDeterministic(t *testing.T) {
	info := &executable.ExecutionInfo{TitleID: 0x4541000D, Version: 1}
	a := god.NewFileLayout("/a", info, executable.ContentTypeXboxOriginal)
	b := god.NewFileLayout("/a", info, executable.ContentTypeXboxOriginal)
	require.Equal(t, a, b)

	// A different identity lands on different paths.
	other := *info
	other.Version = 2
	c := god.NewFileLayout("/a", &other, executable.ContentTypeXboxOriginal)
	require.NotEqual(t, a.ContentID(), c.ContentID())
	require.Equal(t, a.TitleDirPath(), c.TitleDirPath())
	require.NotEqual(t, a.HeaderFilePath(), c.HeaderFilePath())
}
