package encode

import (
	. "github.com/simplefs/ssfs/pkg/types"
)

// PutSectorPointer writes the `index`th 32-bit pointer of an indirect
// sector image.
func PutSectorPointer(p *[SectorSize]byte, index Sector, target Sector) {
	putSector(p[:], Byte(index)*SectorPointerSize, target)
}

// GetSectorPointer reads the `index`th 32-bit pointer of an indirect
// sector image.
func GetSectorPointer(p *[SectorSize]byte, index Sector) Sector {
	return getSector(p[:], Byte(index)*SectorPointerSize)
}
