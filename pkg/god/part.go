package god

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
)

// WritePart streams one part's window of the source payload into a freshly
// created part file. The source reader must be positioned at (and limited to)
// the part's input window; the final part may run short, and its last block
// may be partial.
//
// On-disk part layout: a master hash table block, then up to SubPartsPerPart
// groups of one sub hash table block followed by up to BlocksPerSubPart data
// blocks. Each data block's SHA-1 lands in its group's sub table; each sub
// table's digest lands in the master table. The master table is written last,
// once all sub-table digests are known, and is later amended by the
// stitching pass for every part but the final one.
func WritePart(src io.Reader, dst io.WriteSeeker) error {
	// Reserve the master table block; it is rewritten at the end.
	var placeholder [HashListSize]byte
	if _, err := dst.Write(placeholder[:]); err != nil {
		return fmt.Errorf("failed to reserve master hash table: %w", err)
	}

	master := NewHashList()
	block := make([]byte, BlockSize)
	data := make([]byte, 0, BlocksPerSubPart*BlockSize)

	for sub := 0; sub < SubPartsPerPart; sub++ {
		subList := NewHashList()
		data = data[:0]
		exhausted := false

		for b := 0; b < BlocksPerSubPart; b++ {
			n, err := io.ReadFull(src, block)
			if n > 0 {
				if err := subList.AddHash(sha1.Sum(block[:n])); err != nil {
					return err
				}
				data = append(data, block[:n]...)
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				exhausted = true
				break
			}
			if err != nil {
				return fmt.Errorf("failed to read source block: %w", err)
			}
		}

		if subList.Len() > 0 {
			table := subList.Marshal()
			if _, err := dst.Write(table[:]); err != nil {
				return fmt.Errorf("failed to write sub hash table: %w", err)
			}
			if _, err := dst.Write(data); err != nil {
				return fmt.Errorf("failed to write data blocks: %w", err)
			}
			if err := master.AddHash(subList.Digest()); err != nil {
				return err
			}
		}

		if exhausted {
			break
		}
	}

	if _, err := dst.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to master hash table: %w", err)
	}
	table := master.Marshal()
	if _, err := dst.Write(table[:]); err != nil {
		return fmt.Errorf("failed to write master hash table: %w", err)
	}
	return nil
}

// PartWindow returns the byte offset and length of the input window for a
// part, relative to the start of the payload. The final part's window is
// short when the payload does not fill it.
func PartWindow(partIndex uint64, payloadSize uint64) (offset uint64, length uint64) {
	offset = partIndex * BlocksPerPart * BlockSize
	if offset >= payloadSize {
		return offset, 0
	}
	length = payloadSize - offset
	if length > BlocksPerPart*BlockSize {
		length = BlocksPerPart * BlockSize
	}
	return offset, length
}
