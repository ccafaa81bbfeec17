package god_test

import (
	"testing"

	"github.com/bgrewell/god-kit/pkg/god"
	"github.com/stretchr/testify/require"
)

func TestBlockCount(t *testing.T) {
	require.Equal(t, uint64(0), god.BlockCount(0))
	require.Equal(t, uint64(1), god.BlockCount(1))
	require.Equal(t, uint64(1), god.BlockCount(god.BlockSize))
	require.Equal(t, uint64(2), god.BlockCount(god.BlockSize+1))
}

func TestPartCount(t *testing.T) {
	require.Equal(t, uint64(0), god.PartCount(0))
	require.Equal(t, uint64(1), god.PartCount(1))
	require.Equal(t, uint64(1), god.PartCount(god.BlocksPerPart))
	require.Equal(t, uint64(2), god.PartCount(god.BlocksPerPart+1))
}

// A payload one byte past a full part needs one extra block, which needs one
// extra part.
func TestGeometryOverflowByOneByte(t *testing.T) {
	size := uint64(god.BlockSize)*god.BlocksPerPart + 1
	blocks := god.BlockCount(size)
	require.Equal(t, uint64(god.BlocksPerPart+1), blocks)
	require.Equal(t, uint64(2), god.PartCount(blocks))
}

func TestCombinedPartsSize(t *testing.T) {
	require.Equal(t, uint64(0x5000), god.CombinedPartsSize(1, 0x5000))

	const fullPart = uint64(god.BlockSize) * god.DiskBlocksPerPart
	require.Equal(t, 2*fullPart+0x3000, god.CombinedPartsSize(3, 0x3000))
}
