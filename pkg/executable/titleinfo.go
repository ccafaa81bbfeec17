package executable

import (
	"github.com/bgrewell/god-kit/pkg/xdvdfs"
)

// ContentType classifies the structural layout of the source disc and drives
// the package header fields and the destination naming.
type ContentType uint32

const (
	// ContentTypeGamesOnDemand marks a retail Xbox 360 disc layout.
	ContentTypeGamesOnDemand ContentType = 0x7000
	// ContentTypeXboxOriginal marks an original-Xbox disc layout.
	ContentTypeXboxOriginal ContentType = 0x5000
)

func (c ContentType) String() string {
	switch c {
	case ContentTypeGamesOnDemand:
		return "Games on Demand"
	case ContentTypeXboxOriginal:
		return "Xbox Original"
	default:
		return "Unknown"
	}
}

// Well-known root paths of the primary executable. Which one the disc carries
// is the structural signal that classifies the content type.
const (
	xexName = "default.xex"
	xbeName = "default.xbe"
)

// TitleInfo is the identity of the title being converted.
type TitleInfo struct {
	ExecutionInfo ExecutionInfo
	ContentType   ContentType
}

// ExtractTitleInfo locates the title's primary executable in the image root
// directory and parses its header. The classification is a pure function of
// the disc structure: an Xbox 360 disc carries default.xex, an original-Xbox
// disc carries default.xbe.
func ExtractTitleInfo(img *xdvdfs.Image) (*TitleInfo, error) {
	if entry, err := img.FindRootEntry(xexName); err != nil {
		return nil, err
	} else if entry != nil {
		info, err := parseXex(img.EntryReader(entry))
		if err != nil {
			return nil, err
		}
		return &TitleInfo{
			ExecutionInfo: *info,
			ContentType:   ContentTypeGamesOnDemand,
		}, nil
	}

	if entry, err := img.FindRootEntry(xbeName); err != nil {
		return nil, err
	} else if entry != nil {
		info, err := parseXbe(img.EntryReader(entry))
		if err != nil {
			return nil, err
		}
		return &TitleInfo{
			ExecutionInfo: *info,
			ContentType:   ContentTypeXboxOriginal,
		}, nil
	}

	return nil, ErrExecutableNotFound
}
