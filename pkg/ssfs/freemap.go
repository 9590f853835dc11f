package ssfs

import (
	"fmt"

	"github.com/simplefs/ssfs/pkg/alloc"
	"github.com/simplefs/ssfs/pkg/encode"
	. "github.com/simplefs/ssfs/pkg/types"
)

// rebuildFreeMap derives the free-sector map from the inode table: a
// data sector is in use iff it is reachable from some allocated
// inode's pointer tree (counting the pointer sectors themselves). The
// map is not persisted anywhere; this rebuild is authoritative.
func (v *Volume) rebuildFreeMap() error {
	v.free = alloc.NewSectorTracker(v.super.SectorCount)

	count := v.super.InodeCount()
	var inode Inode
	for ino := Ino(0); ino < count; ino++ {
		if err := v.readInode(ino, &inode); err != nil {
			return fmt.Errorf("rebuilding free map: %w", err)
		}
		if !inode.Allocated() {
			continue
		}
		if err := v.walkInode(&inode, func(s Sector) error {
			if s < v.dataStart() || s >= v.super.SectorCount {
				return fmt.Errorf(
					"inode `%d` points at sector `%d` outside the data "+
						"region: %w",
					ino,
					s,
					ErrBadVolume,
				)
			}
			v.free.MarkUsed(s)
			return nil
		}); err != nil {
			return fmt.Errorf("rebuilding free map: %w", err)
		}
	}

	return nil
}

// walkInode calls visit for every sector owned by the inode: direct
// targets, the indirect sectors themselves, intermediates, and every
// data sector they point to. Nil pointers are skipped.
func (v *Volume) walkInode(inode *Inode, visit func(Sector) error) error {
	for _, s := range inode.Direct {
		if s == SectorNil {
			continue
		}
		if err := visit(s); err != nil {
			return err
		}
	}

	if inode.Indirect1 != SectorNil {
		if err := v.walkPointerSector(
			inode.Indirect1,
			levelIndirect1,
			visit,
		); err != nil {
			return err
		}
	}

	if inode.Indirect2 != SectorNil {
		if err := v.walkPointerSector(
			inode.Indirect2,
			levelIndirect2,
			visit,
		); err != nil {
			return err
		}
	}

	return nil
}

func (v *Volume) walkPointerSector(
	s Sector,
	depth level,
	visit func(Sector) error,
) error {
	if err := visit(s); err != nil {
		return err
	}

	var buf [SectorSize]byte
	if err := v.dev.ReadSector(s, &buf); err != nil {
		return fmt.Errorf("walking pointer sector `%d`: %w", s, err)
	}

	for i := Sector(0); i < PointersPerSector; i++ {
		target := encode.GetSectorPointer(&buf, i)
		if target == SectorNil {
			continue
		}
		if depth == levelIndirect2 {
			if err := v.walkPointerSector(
				target,
				levelIndirect1,
				visit,
			); err != nil {
				return err
			}
		} else {
			if err := visit(target); err != nil {
				return err
			}
		}
	}

	return nil
}

// Usage returns every sector owned by inode `ino`: its data sectors
// plus the pointer sectors carrying them.
func (v *Volume) Usage(ino Ino) ([]Sector, error) {
	if err := v.requireMounted(); err != nil {
		return nil, fmt.Errorf("listing sectors of inode `%d`: %w", ino, err)
	}

	var inode Inode
	if err := v.readAllocatedInode(ino, &inode); err != nil {
		return nil, fmt.Errorf("listing sectors of inode `%d`: %w", ino, err)
	}

	var sectors []Sector
	if err := v.walkInode(&inode, func(s Sector) error {
		sectors = append(sectors, s)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("listing sectors of inode `%d`: %w", ino, err)
	}
	return sectors, nil
}
