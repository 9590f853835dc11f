package ssfs

import (
	"fmt"

	"github.com/simplefs/ssfs/pkg/encode"
	"github.com/simplefs/ssfs/pkg/math"
	. "github.com/simplefs/ssfs/pkg/types"
)

// Write copies len(p) bytes into the file identified by `ino` starting
// at `offset`, allocating data and pointer sectors on demand, and
// returns the number of bytes written. A gap between the old size and
// `offset` reads back as zeros: missing blocks stay sparse and freshly
// allocated sectors start out zeroed. An allocation failure mid-write
// returns ErrCapacity and leaves the bytes already written in place.
func (v *Volume) Write(ino Ino, p []byte, offset Byte) (Byte, error) {
	if err := v.requireMounted(); err != nil {
		return 0, fmt.Errorf("writing inode `%d`: %w", ino, err)
	}
	if offset < 0 {
		return 0, fmt.Errorf(
			"writing inode `%d` at offset `%d`: %w",
			ino,
			offset,
			ErrNegativeOffset,
		)
	}

	var inode Inode
	if err := v.readAllocatedInode(ino, &inode); err != nil {
		return 0, fmt.Errorf("writing inode `%d`: %w", ino, err)
	}

	var done Byte
	var buf [SectorSize]byte
	for done < Byte(len(p)) {
		cur := offset + done
		block := Sector(cur / SectorSize)
		within := cur % SectorSize
		chunk := math.Min(SectorSize-within, Byte(len(p))-done)

		s, err := v.ensureSector(&inode, block)
		if err != nil {
			return done, fmt.Errorf(
				"writing inode `%d` at offset `%d`: %w",
				ino,
				cur,
				err,
			)
		}

		if chunk == SectorSize {
			copy(buf[:], p[done:done+chunk])
		} else {
			if err := v.dev.ReadSector(s, &buf); err != nil {
				return done, fmt.Errorf(
					"writing inode `%d` at offset `%d`: %w",
					ino,
					cur,
					err,
				)
			}
			copy(buf[within:within+chunk], p[done:done+chunk])
		}
		if err := v.dev.WriteSector(s, &buf); err != nil {
			return done, fmt.Errorf(
				"writing inode `%d` at offset `%d`: %w",
				ino,
				cur,
				err,
			)
		}

		done += chunk
	}

	inode.Size = math.Max(inode.Size, offset+done)
	if err := v.storeInode(&inode); err != nil {
		return done, fmt.Errorf("writing inode `%d`: %w", ino, err)
	}
	return done, nil
}

// ensureSector resolves a logical block to its data sector, allocating
// the sector and any missing pointer sectors above it. Each parent is
// persisted before descending so that every allocated sector is
// reachable from the inode at all times.
func (v *Volume) ensureSector(inode *Inode, block Sector) (Sector, error) {
	pos := positionForBlock(block)
	switch pos.level {
	case levelDirect:
		if s := inode.Direct[pos.direct]; s != SectorNil {
			return s, nil
		}
		s, err := v.allocSector()
		if err != nil {
			return SectorNil, fmt.Errorf(
				"allocating data sector for block `%d`: %w",
				block,
				err,
			)
		}
		inode.Direct[pos.direct] = s
		if err := v.storeInode(inode); err != nil {
			inode.Direct[pos.direct] = SectorNil
			v.free.Release(s)
			return SectorNil, err
		}
		return s, nil

	case levelIndirect1:
		if inode.Indirect1 == SectorNil {
			s, err := v.allocSector()
			if err != nil {
				return SectorNil, fmt.Errorf(
					"allocating %s sector: %w",
					pos.level,
					err,
				)
			}
			inode.Indirect1 = s
			if err := v.storeInode(inode); err != nil {
				inode.Indirect1 = SectorNil
				v.free.Release(s)
				return SectorNil, err
			}
		}
		return v.ensurePointer(inode.Indirect1, pos.inner)

	case levelIndirect2:
		if inode.Indirect2 == SectorNil {
			s, err := v.allocSector()
			if err != nil {
				return SectorNil, fmt.Errorf(
					"allocating %s sector: %w",
					pos.level,
					err,
				)
			}
			inode.Indirect2 = s
			if err := v.storeInode(inode); err != nil {
				inode.Indirect2 = SectorNil
				v.free.Release(s)
				return SectorNil, err
			}
		}
		mid, err := v.ensurePointer(inode.Indirect2, pos.outer)
		if err != nil {
			return SectorNil, fmt.Errorf(
				"resolving intermediate sector for block `%d`: %w",
				block,
				err,
			)
		}
		return v.ensurePointer(mid, pos.inner)

	case levelOutOfRange:
		return SectorNil, fmt.Errorf(
			"block `%d` is past the last addressable block `%d`: %w",
			block,
			MaxFileSectors-1,
			ErrCapacity,
		)

	default:
		panic(fmt.Sprintf("invalid level: %d", pos.level))
	}
}

// ensurePointer returns the target of entry `index` in pointer sector
// `parent`, allocating and installing a fresh target if the entry is
// nil. The parent is persisted before the target is returned.
func (v *Volume) ensurePointer(parent Sector, index Sector) (Sector, error) {
	var buf [SectorSize]byte
	if err := v.dev.ReadSector(parent, &buf); err != nil {
		return SectorNil, fmt.Errorf(
			"reading pointer sector `%d`: %w",
			parent,
			err,
		)
	}

	if s := encode.GetSectorPointer(&buf, index); s != SectorNil {
		return s, nil
	}

	s, err := v.allocSector()
	if err != nil {
		return SectorNil, fmt.Errorf(
			"allocating target for pointer `%d` of sector `%d`: %w",
			index,
			parent,
			err,
		)
	}
	encode.PutSectorPointer(&buf, index, s)
	if err := v.dev.WriteSector(parent, &buf); err != nil {
		v.free.Release(s)
		return SectorNil, fmt.Errorf(
			"installing pointer `%d` of sector `%d`: %w",
			index,
			parent,
			err,
		)
	}
	return s, nil
}

// allocSector hands out the first data-region sector that is both
// unmarked in the free map and zero on disk. The on-disk check guards
// against stale map state; on a consistent volume the two always
// agree. Allocated sectors are therefore zeroed already.
func (v *Volume) allocSector() (Sector, error) {
	var buf [SectorSize]byte
	for s := v.dataStart(); s < v.super.SectorCount; s++ {
		if v.free.InUse(s) {
			continue
		}
		if err := v.dev.ReadSector(s, &buf); err != nil {
			return SectorNil, fmt.Errorf(
				"allocating data sector: %w",
				err,
			)
		}
		if !sectorIsZero(&buf) {
			continue
		}
		v.free.MarkUsed(s)
		return s, nil
	}
	return SectorNil, fmt.Errorf(
		"allocating data sector: no free sector: %w",
		ErrCapacity,
	)
}
