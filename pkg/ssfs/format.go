package ssfs

import (
	"fmt"

	"github.com/simplefs/ssfs/pkg/encode"
	"github.com/simplefs/ssfs/pkg/math"
	. "github.com/simplefs/ssfs/pkg/types"
	"github.com/simplefs/ssfs/pkg/vdisk"
)

// Format installs a filesystem on the image at `path` with room for at
// least `inodes` inodes (clamped up to 1) and at least one data
// sector. The image past the superblock must be all zeros; Format
// refuses leftover data with ErrNotBlank rather than wiping it. The
// volume is left unmounted.
func (v *Volume) Format(path string, inodes int) error {
	if v.mounted {
		return fmt.Errorf("formatting `%s`: %w", path, ErrAlreadyMounted)
	}

	dev, err := vdisk.Open(path)
	if err != nil {
		return fmt.Errorf("formatting `%s`: %w", path, err)
	}

	if inodes <= 0 {
		inodes = 1
	}

	total := dev.SectorCount()
	inodeSectors := Sector(math.DivRoundUp(Ino(inodes), InodesPerSector))
	if total <= InodeStartSector+inodeSectors {
		_ = dev.Close()
		return fmt.Errorf(
			"formatting `%s`: `%d` sectors cannot hold `%d` inode sectors "+
				"and a data region: %w",
			path,
			total,
			inodeSectors,
			ErrCapacity,
		)
	}

	var buf [SectorSize]byte
	for s := InodeStartSector; s < total; s++ {
		if err := dev.ReadSector(s, &buf); err != nil {
			_ = dev.Close()
			return fmt.Errorf("formatting `%s`: %w", path, err)
		}
		if !sectorIsZero(&buf) {
			_ = dev.Close()
			return fmt.Errorf(
				"formatting `%s`: sector `%d` holds data: %w",
				path,
				s,
				ErrNotBlank,
			)
		}
	}

	super := Superblock{
		SectorCount:  total,
		InodeSectors: inodeSectors,
		SectorSize:   SectorSize,
	}
	encode.EncodeSuperblock(&super, &buf)
	if err := dev.WriteSector(SuperblockSector, &buf); err != nil {
		_ = dev.Close()
		return fmt.Errorf("formatting `%s`: %w", path, err)
	}

	var zero [SectorSize]byte
	for s := InodeStartSector; s < total; s++ {
		if err := dev.WriteSector(s, &zero); err != nil {
			_ = dev.Close()
			return fmt.Errorf("formatting `%s`: %w", path, err)
		}
	}

	if err := dev.Sync(); err != nil {
		_ = dev.Close()
		return fmt.Errorf("formatting `%s`: %w", path, err)
	}
	if err := dev.Close(); err != nil {
		return fmt.Errorf("formatting `%s`: %w", path, err)
	}
	return nil
}
