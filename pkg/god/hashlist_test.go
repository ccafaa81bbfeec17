package god_test

import (
	"bytes"
	"crypto/sha1"
	"io"
	"testing"

	"github.com/bgrewell/god-kit/pkg/god"
	"github.com/stretchr/testify/require"
)

func fakeDigest(seed byte) [god.HashSize]byte {
	var h [god.HashSize]byte
	for i := range h {
		h[i] = seed
	}
	return h
}

func TestHashList(t *testing.T) {
	t.Run("AddAndMarshal", func(t *testing.T) {
		hl := god.NewHashList()
		require.Equal(t, 0, hl.Len())
		require.NoError(t, hl.AddHash(fakeDigest(0x11)))
		require.NoError(t, hl.AddHash(fakeDigest(0x22)))
		require.Equal(t, 2, hl.Len())
		require.Equal(t, fakeDigest(0x22), hl.Hash(1))

		block := hl.Marshal()
		require.Equal(t, fakeDigest(0x11), [god.HashSize]byte(block[0:god.HashSize]))
		require.Equal(t, fakeDigest(0x22), [god.HashSize]byte(block[god.HashSize:2*god.HashSize]))
		// Everything past the last entry is padding.
		require.Equal(t, make([]byte, god.HashListSize-2*god.HashSize), block[2*god.HashSize:])
	})

	t.Run("DigestCoversPaddedBlock", func(t *testing.T) {
		hl := god.NewHashList()
		require.NoError(t, hl.AddHash(fakeDigest(0x33)))
		block := hl.Marshal()
		require.Equal(t, sha1.Sum(block[:]), hl.Digest())
	})

	t.Run("FullTableRejectsMore", func(t *testing.T) {
		hl := god.NewHashList()
		for i := 0; i < god.MaxHashes; i++ {
			require.NoError(t, hl.AddHash(fakeDigest(byte(i%255+1))))
		}
		require.ErrorIs(t, hl.AddHash(fakeDigest(0x44)), god.ErrBadHashList)
	})
}

func TestReadHashList(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		hl := god.NewHashList()
		require.NoError(t, hl.AddHash(fakeDigest(0x55)))
		require.NoError(t, hl.AddHash(fakeDigest(0x66)))
		block := hl.Marshal()

		back, err := god.ReadHashList(bytes.NewReader(block[:]))
		require.NoError(t, err)
		require.Equal(t, 2, back.Len())
		require.Equal(t, hl.Digest(), back.Digest())
	})

	t.Run("StopsAtFirstZeroSlot", func(t *testing.T) {
		var block [god.HashListSize]byte
		d := fakeDigest(0x77)
		copy(block[0:], d[:])
		// A stray entry after a zero slot is leftover padding noise, not data.
		copy(block[2*god.HashSize:], d[:])

		back, err := god.ReadHashList(bytes.NewReader(block[:]))
		require.NoError(t, err)
		require.Equal(t, 1, back.Len())
	})

	t.Run("ShortRegion", func(t *testing.T) {
		_, err := god.ReadHashList(bytes.NewReader(make([]byte, god.HashListSize-1)))
		require.ErrorIs(t, err, god.ErrBadHashList)
	})

	t.Run("ExactSizeSourceReportingEOF", func(t *testing.T) {
		hl := god.NewHashList()
		require.NoError(t, hl.AddHash(fakeDigest(0x88)))
		block := hl.Marshal()

		back, err := god.ReadHashList(eofReaderAt{data: block[:]})
		require.NoError(t, err)
		require.Equal(t, 1, back.Len())
	})
}

// eofReaderAt returns io.EOF together with the final full read, which a
// conforming io.ReaderAt is allowed to do.
type eofReaderAt struct{ data []byte }

func (r eofReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[off:])
	if off+int64(n) == int64(len(r.data)) {
		return n, io.EOF
	}
	return n, nil
}
