package god

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
)

// HashSize is the length of a single digest entry.
const HashSize = sha1.Size

// HashListSize is the on-disk size of a hash table: one block, zero padded
// past the last entry.
const HashListSize = BlockSize

// MaxHashes is the number of digest slots a hash table holds.
const MaxHashes = HashListSize / HashSize // 204

// ErrBadHashList is returned when a part file's hash table region is corrupt
// or undersized. It signals leftover output from a previously interrupted
// run, which must be discarded rather than repaired.
var ErrBadHashList = errors.New("malformed part hash list")

// HashList is a per-part table of digests (the MHT). A part's master list
// carries one digest per sub hash table written, and gains exactly one more
// entry during stitching: the digest of the next part's finalized list.
type HashList struct {
	hashes [][HashSize]byte
}

// NewHashList returns an empty hash list.
func NewHashList() *HashList {
	return &HashList{}
}

// Len returns the number of entries.
func (hl *HashList) Len() int {
	return len(hl.hashes)
}

// Hash returns the entry at index i.
func (hl *HashList) Hash(i int) [HashSize]byte {
	return hl.hashes[i]
}

// AddHash appends one digest entry.
func (hl *HashList) AddHash(hash [HashSize]byte) error {
	if len(hl.hashes) >= MaxHashes {
		return fmt.Errorf("%w: table full at %d entries", ErrBadHashList, MaxHashes)
	}
	hl.hashes = append(hl.hashes, hash)
	return nil
}

// Marshal renders the table as its zero-padded on-disk block.
func (hl *HashList) Marshal() [HashListSize]byte {
	var block [HashListSize]byte
	for i, h := range hl.hashes {
		copy(block[i*HashSize:], h[:])
	}
	return block
}

// Digest returns the SHA-1 of the full padded on-disk block. This is the
// value chained into the previous part's list and, for part 0, into the
// header.
func (hl *HashList) Digest() [HashSize]byte {
	block := hl.Marshal()
	return sha1.Sum(block[:])
}

// WriteTo persists the table to the head of a part file.
func (hl *HashList) WriteTo(w io.WriterAt) error {
	block := hl.Marshal()
	if _, err := w.WriteAt(block[:], 0); err != nil {
		return fmt.Errorf("failed to write hash list: %w", err)
	}
	return nil
}

// ReadHashList reads the master hash table from the head of a part file.
// Entries end at the first all-zero slot; a SHA-1 digest is never all zero,
// so zero slots only ever come from the padding.
func ReadHashList(r io.ReaderAt) (*HashList, error) {
	var block [HashListSize]byte
	n, err := r.ReadAt(block[:], 0)
	// A ReaderAt may legally return io.EOF together with a full read when the
	// source is exactly one table long.
	if err != nil && !(n == len(block) && errors.Is(err, io.EOF)) {
		return nil, fmt.Errorf("%w: %s", ErrBadHashList, err)
	}
	hl := NewHashList()
	for i := 0; i < MaxHashes; i++ {
		var entry [HashSize]byte
		copy(entry[:], block[i*HashSize:])
		if entry == ([HashSize]byte{}) {
			break
		}
		hl.hashes = append(hl.hashes, entry)
	}
	return hl, nil
}
