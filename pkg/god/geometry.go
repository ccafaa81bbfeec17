// Package god encodes an Xbox 360 disc payload into the Games on Demand
// container consumed by the console's storage layer: numbered part files
// holding fixed-size blocks interleaved with SHA-1 hash tables, chained
// across parts, plus one content header binding the package together.
package god

// Container geometry. These are fixed protocol parameters of the on-disc
// format; the consuming hardware rejects packages built with anything else.
const (
	// BlockSize is the payload block size and the atomic unit of hashing.
	BlockSize = 0x1000

	// BlocksPerSubPart is the number of data blocks covered by one sub hash
	// table.
	BlocksPerSubPart = 0xCC

	// SubPartsPerPart is the number of sub hash tables per part file.
	SubPartsPerPart = 0xCB

	// BlocksPerPart is the number of payload blocks held by every part except
	// the last.
	BlocksPerPart = BlocksPerSubPart * SubPartsPerPart // 0xA1C4

	// DiskBlocksPerPart is the on-disk size of a full part file in blocks:
	// one master hash table plus SubPartsPerPart groups of one sub hash table
	// and BlocksPerSubPart data blocks.
	DiskBlocksPerPart = 1 + SubPartsPerPart*(1+BlocksPerSubPart) // 0xA290
)

// BlockCount returns the number of payload blocks needed for dataSize bytes.
func BlockCount(dataSize uint64) uint64 {
	return (dataSize + BlockSize - 1) / BlockSize
}

// PartCount returns the number of part files needed for blockCount blocks.
func PartCount(blockCount uint64) uint64 {
	return (blockCount + BlocksPerPart - 1) / BlocksPerPart
}

// CombinedPartsSize returns the total on-disk size of all part files, given
// the actual size of the last one. Every part before it occupies exactly
// DiskBlocksPerPart blocks. The header stores this value; the arithmetic is
// format-mandated.
func CombinedPartsSize(partCount uint64, lastPartSize uint64) uint64 {
	return lastPartSize + (partCount-1)*BlockSize*DiskBlocksPerPart
}
