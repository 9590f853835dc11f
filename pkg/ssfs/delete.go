package ssfs

import (
	"fmt"

	"github.com/simplefs/ssfs/pkg/encode"
	. "github.com/simplefs/ssfs/pkg/types"
)

// Delete releases every sector referenced by inode `ino` (direct
// targets, then the indirect1 chain, then the indirect2 tree) and
// zeroes the inode record. Released sectors are zeroed on disk, which
// is also what marks them free for the next Format or allocation.
func (v *Volume) Delete(ino Ino) error {
	if err := v.requireMounted(); err != nil {
		return fmt.Errorf("deleting inode `%d`: %w", ino, err)
	}

	var inode Inode
	if err := v.readAllocatedInode(ino, &inode); err != nil {
		return fmt.Errorf("deleting inode `%d`: %w", ino, err)
	}

	for _, s := range inode.Direct {
		if s == SectorNil {
			continue
		}
		if err := v.releaseSector(s); err != nil {
			return fmt.Errorf("deleting inode `%d`: %w", ino, err)
		}
	}

	if inode.Indirect1 != SectorNil {
		if err := v.releaseIndirect(inode.Indirect1, levelIndirect1); err != nil {
			return fmt.Errorf("deleting inode `%d`: %w", ino, err)
		}
	}

	if inode.Indirect2 != SectorNil {
		if err := v.releaseIndirect(inode.Indirect2, levelIndirect2); err != nil {
			return fmt.Errorf("deleting inode `%d`: %w", ino, err)
		}
	}

	cleared := Inode{Ino: ino, Status: InodeStatusFree}
	if err := v.storeInode(&cleared); err != nil {
		return fmt.Errorf("deleting inode `%d`: %w", ino, err)
	}
	return nil
}

// releaseIndirect frees a pointer sector and everything below it.
// depth levelIndirect1 means the entries are data sectors; depth
// levelIndirect2 means the entries are indirect1-like intermediates.
func (v *Volume) releaseIndirect(s Sector, depth level) error {
	var buf [SectorSize]byte
	if err := v.dev.ReadSector(s, &buf); err != nil {
		return fmt.Errorf("releasing indirect sector `%d`: %w", s, err)
	}

	for i := Sector(0); i < PointersPerSector; i++ {
		target := encode.GetSectorPointer(&buf, i)
		if target == SectorNil {
			continue
		}
		if depth == levelIndirect2 {
			if err := v.releaseIndirect(target, levelIndirect1); err != nil {
				return fmt.Errorf(
					"releasing indirect sector `%d`: %w",
					s,
					err,
				)
			}
		} else {
			if err := v.releaseSector(target); err != nil {
				return fmt.Errorf(
					"releasing indirect sector `%d`: %w",
					s,
					err,
				)
			}
		}
	}

	return v.releaseSector(s)
}

// releaseSector zeroes `s` on disk and clears its free-map bit.
func (v *Volume) releaseSector(s Sector) error {
	if err := v.zeroSector(s); err != nil {
		return fmt.Errorf("releasing sector `%d`: %w", s, err)
	}
	v.free.Release(s)
	return nil
}
