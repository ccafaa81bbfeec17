package god

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bgrewell/god-kit/pkg/executable"
)

// FileLayout is the destination naming scheme for one conversion job:
//
//	<base>/<TITLEID>/<CONTENTTYPE>/<CONTENTID>          content header
//	<base>/<TITLEID>/<CONTENTTYPE>/<CONTENTID>.data/    part files Data0000...
//
// It is a pure function of its inputs. The content id is the SHA-1 of the
// canonical execution-info record, so re-converting the same title lands on
// the same paths and two different titles never collide.
type FileLayout struct {
	baseDir     string
	titleID     string
	contentType string
	contentID   [sha1.Size]byte
}

// NewFileLayout derives the layout for a destination root, title identity and
// content type.
func NewFileLayout(baseDir string, info *executable.ExecutionInfo, contentType executable.ContentType) FileLayout {
	record := info.Marshal()
	return FileLayout{
		baseDir:     baseDir,
		titleID:     fmt.Sprintf("%08X", info.TitleID),
		contentType: fmt.Sprintf("%08X", uint32(contentType)),
		contentID:   sha1.Sum(record[:]),
	}
}

// ContentID returns the derived content identifier.
func (l FileLayout) ContentID() [sha1.Size]byte {
	return l.contentID
}

// ContentIDString renders the content identifier as uppercase hex. It names
// both the header file and the data directory.
func (l FileLayout) ContentIDString() string {
	return strings.ToUpper(hex.EncodeToString(l.contentID[:]))
}

// TitleDirPath is the title-identifier directory: the finished package path
// reported to the caller.
func (l FileLayout) TitleDirPath() string {
	return filepath.Join(l.baseDir, l.titleID)
}

// ContentTypeDirPath holds the header file and the data directory.
func (l FileLayout) ContentTypeDirPath() string {
	return filepath.Join(l.baseDir, l.titleID, l.contentType)
}

// DataDirPath holds the numbered part files. It is cleared and recreated
// before any part is written.
func (l FileLayout) DataDirPath() string {
	return filepath.Join(l.ContentTypeDirPath(), l.ContentIDString()+".data")
}

// PartFilePath returns the path of the part file at the given index.
func (l FileLayout) PartFilePath(partIndex uint64) string {
	return filepath.Join(l.DataDirPath(), fmt.Sprintf("Data%04d", partIndex))
}

// HeaderFilePath returns the path of the content header file.
func (l FileLayout) HeaderFilePath() string {
	return filepath.Join(l.ContentTypeDirPath(), l.ContentIDString())
}
