package encode

import (
	"bytes"
	"fmt"

	. "github.com/simplefs/ssfs/pkg/types"
)

const (
	BadMagicErr      ConstError = "bad magic"
	BadSectorSizeErr ConstError = "bad sector size"
)

const (
	superblockMagicStart = 0
	superblockMagicSize  = MagicSize
	superblockMagicEnd   = superblockMagicStart + superblockMagicSize

	superblockSectorCountStart = superblockMagicEnd
	superblockSectorCountSize  = 4
	superblockSectorCountEnd   = superblockSectorCountStart +
		superblockSectorCountSize

	superblockInodeSectorsStart = superblockSectorCountEnd
	superblockInodeSectorsSize  = 4
	superblockInodeSectorsEnd   = superblockInodeSectorsStart +
		superblockInodeSectorsSize

	superblockSectorSizeStart = superblockInodeSectorsEnd
	superblockSectorSizeSize  = 4
	superblockSectorSizeEnd   = superblockSectorSizeStart +
		superblockSectorSizeSize
)

// EncodeSuperblock renders the volume header into a full sector image.
// Bytes past the last field are zeroed.
func EncodeSuperblock(super *Superblock, p *[SectorSize]byte) {
	*p = [SectorSize]byte{}
	copy(p[superblockMagicStart:superblockMagicEnd], Magic[:])
	putU32(p[:], superblockSectorCountStart, uint32(super.SectorCount))
	putU32(p[:], superblockInodeSectorsStart, uint32(super.InodeSectors))
	putU32(p[:], superblockSectorSizeStart, uint32(super.SectorSize))
}

// DecodeSuperblock parses sector 0. The magic tag and the sector size
// are validated here; region arithmetic is validated by the caller. The
// output is not mutated unless decoding succeeds.
func DecodeSuperblock(super *Superblock, p *[SectorSize]byte) error {
	if !bytes.Equal(p[superblockMagicStart:superblockMagicEnd], Magic[:]) {
		return fmt.Errorf("decoding superblock: %w", BadMagicErr)
	}

	sectorSize := Byte(getU32(p[:], superblockSectorSizeStart))
	if sectorSize != SectorSize {
		return fmt.Errorf(
			"decoding superblock: sector size `%d`: %w",
			sectorSize,
			BadSectorSizeErr,
		)
	}

	super.SectorCount = Sector(getU32(p[:], superblockSectorCountStart))
	super.InodeSectors = Sector(getU32(p[:], superblockInodeSectorsStart))
	super.SectorSize = sectorSize
	return nil
}
