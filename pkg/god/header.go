package god

import (
	"crypto/sha1"
	"encoding/binary"

	"github.com/bgrewell/god-kit/pkg/executable"
	"golang.org/x/text/encoding/unicode"
)

// ConHeaderSize is the on-disk size of the content header file.
const ConHeaderSize = 0xB000

// Content header field offsets. The header is a LIVE-signed STFS-style
// metadata block; the interesting fields sit inside the metadata region that
// starts at 0x22C. All integers are big-endian.
const (
	offContentID       = 0x32C // 20-byte content id
	offHeaderSize      = 0x340
	offContentType     = 0x344
	offMetadataVersion = 0x348
	offContentSize     = 0x34C  // u64
	offExecutionInfo   = 0x354  // canonical 24-byte record
	offDescriptorLen   = 0x379  // device descriptor length, always 0x24
	offMhtHash         = 0x37D  // top-level hash: digest of part 0's MHT
	offDataBlockCount  = 0x392  // u24
	offDataBlockOffset = 0x395  // u24
	offDataFileCount   = 0x39D  // u32
	offDataFileSize    = 0x3A1  // u64
	offDisplayName     = 0x411  // UTF-16BE, first locale slot, 0x100 bytes
	offTitleName       = 0x1691 // UTF-16BE, 0x80 bytes

	displayNameSize = 0x100
	titleNameSize   = 0x80

	headerSizeValue  = 0x971A
	metadataVersion  = 1
	descriptorLength = 0x24
)

var conHeaderMagic = []byte("LIVE")

// ConHeaderBuilder accumulates the fields of the content header and finalizes
// them into an immutable byte buffer written exactly once.
type ConHeaderBuilder struct {
	buf [ConHeaderSize]byte
}

// NewConHeaderBuilder returns a builder with the fixed fields pre-filled.
func NewConHeaderBuilder() *ConHeaderBuilder {
	b := &ConHeaderBuilder{}
	copy(b.buf[0:], conHeaderMagic)
	binary.BigEndian.PutUint32(b.buf[offHeaderSize:], headerSizeValue)
	binary.BigEndian.PutUint32(b.buf[offMetadataVersion:], metadataVersion)
	b.buf[offDescriptorLen] = descriptorLength
	return b
}

// WithExecutionInfo stores the title identity record and derives the content
// id from it, the same derivation FileLayout uses for the file names.
func (b *ConHeaderBuilder) WithExecutionInfo(info *executable.ExecutionInfo) *ConHeaderBuilder {
	record := info.Marshal()
	copy(b.buf[offExecutionInfo:], record[:])
	contentID := sha1.Sum(record[:])
	copy(b.buf[offContentID:], contentID[:])
	return b
}

// WithBlockCounts stores the payload block count and the secondary block
// offset (zero for a single-package title).
func (b *ConHeaderBuilder) WithBlockCounts(blockCount uint32, secondary uint32) *ConHeaderBuilder {
	putUint24(b.buf[offDataBlockCount:], blockCount)
	putUint24(b.buf[offDataBlockOffset:], secondary)
	return b
}

// WithDataPartsInfo stores the part count and the combined on-disk size of
// all part files.
func (b *ConHeaderBuilder) WithDataPartsInfo(partCount uint32, combinedSize uint64) *ConHeaderBuilder {
	binary.BigEndian.PutUint32(b.buf[offDataFileCount:], partCount)
	binary.BigEndian.PutUint64(b.buf[offDataFileSize:], combinedSize)
	binary.BigEndian.PutUint64(b.buf[offContentSize:], combinedSize)
	return b
}

// WithContentType stores the disc layout classification.
func (b *ConHeaderBuilder) WithContentType(contentType executable.ContentType) *ConHeaderBuilder {
	binary.BigEndian.PutUint32(b.buf[offContentType:], uint32(contentType))
	return b
}

// WithMhtHash stores the top-level hash tree digest: the digest of part 0's
// fully chained master hash table.
func (b *ConHeaderBuilder) WithMhtHash(hash [HashSize]byte) *ConHeaderBuilder {
	copy(b.buf[offMhtHash:], hash[:])
	return b
}

// WithGameTitle stores the display title in the first locale slot and the
// title name field.
func (b *ConHeaderBuilder) WithGameTitle(title string) *ConHeaderBuilder {
	encoded := encodeUTF16BE(title)
	copyBounded(b.buf[offDisplayName:offDisplayName+displayNameSize], encoded)
	copyBounded(b.buf[offTitleName:offTitleName+titleNameSize], encoded)
	return b
}

// Finalize produces the immutable header bytes.
func (b *ConHeaderBuilder) Finalize() []byte {
	out := make([]byte, ConHeaderSize)
	copy(out, b.buf[:])
	return out
}

// putUint24 writes the low 24 bits big-endian.
func putUint24(buf []byte, v uint32) {
	buf[0] = byte(v >> 16)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v)
}

// encodeUTF16BE renders a string as UTF-16BE bytes without a BOM. Titles
// that fail to encode degrade to an empty field rather than a failed
// conversion.
func encodeUTF16BE(s string) []byte {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil
	}
	return out
}

// copyBounded copies src into dst leaving at least a two-byte NUL terminator,
// truncated on a code-unit boundary.
func copyBounded(dst []byte, src []byte) {
	limit := len(dst) - 2
	if limit < 0 {
		return
	}
	if len(src) > limit {
		src = src[:limit&^1]
	}
	copy(dst, src)
}
