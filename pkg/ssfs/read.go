package ssfs

import (
	"fmt"

	"github.com/simplefs/ssfs/pkg/encode"
	"github.com/simplefs/ssfs/pkg/math"
	. "github.com/simplefs/ssfs/pkg/types"
)

// Read copies up to len(p) bytes from the file identified by `ino`
// starting at `offset` and returns the number of bytes read. Reads at
// or past the file size return 0; logical blocks with no backing
// sector anywhere in the pointer chain read as zeros.
func (v *Volume) Read(ino Ino, p []byte, offset Byte) (Byte, error) {
	if err := v.requireMounted(); err != nil {
		return 0, fmt.Errorf("reading inode `%d`: %w", ino, err)
	}
	if offset < 0 {
		return 0, fmt.Errorf(
			"reading inode `%d` at offset `%d`: %w",
			ino,
			offset,
			ErrNegativeOffset,
		)
	}

	var inode Inode
	if err := v.readAllocatedInode(ino, &inode); err != nil {
		return 0, fmt.Errorf("reading inode `%d`: %w", ino, err)
	}

	if offset >= inode.Size {
		return 0, nil
	}

	toRead := math.Min(Byte(len(p)), inode.Size-offset)
	var done Byte
	var buf [SectorSize]byte
	for done < toRead {
		cur := offset + done
		block := Sector(cur / SectorSize)
		within := cur % SectorSize
		chunk := math.Min(SectorSize-within, toRead-done)

		s, err := v.lookupSector(&inode, block)
		if err != nil {
			return done, fmt.Errorf(
				"reading inode `%d` at offset `%d`: %w",
				ino,
				cur,
				err,
			)
		}

		out := p[done : done+chunk]
		if s == SectorNil {
			for i := range out {
				out[i] = 0
			}
		} else {
			if err := v.dev.ReadSector(s, &buf); err != nil {
				return done, fmt.Errorf(
					"reading inode `%d` at offset `%d`: %w",
					ino,
					cur,
					err,
				)
			}
			copy(out, buf[within:within+chunk])
		}

		done += chunk
	}

	return done, nil
}

// lookupSector resolves a logical block index to its data sector, or
// SectorNil when any pointer on the way down is absent.
func (v *Volume) lookupSector(inode *Inode, block Sector) (Sector, error) {
	pos := positionForBlock(block)
	switch pos.level {
	case levelDirect:
		return inode.Direct[pos.direct], nil
	case levelIndirect1:
		if inode.Indirect1 == SectorNil {
			return SectorNil, nil
		}
		return v.readPointer(inode.Indirect1, pos.inner)
	case levelIndirect2:
		if inode.Indirect2 == SectorNil {
			return SectorNil, nil
		}
		mid, err := v.readPointer(inode.Indirect2, pos.outer)
		if err != nil || mid == SectorNil {
			return SectorNil, err
		}
		return v.readPointer(mid, pos.inner)
	case levelOutOfRange:
		// size never exceeds the addressable range, so reads stop
		// before getting here; sparse semantics cover the defensive
		// path.
		return SectorNil, nil
	default:
		panic(fmt.Sprintf("invalid level: %d", pos.level))
	}
}

// readPointer loads one 32-bit entry of a pointer sector.
func (v *Volume) readPointer(s Sector, index Sector) (Sector, error) {
	var buf [SectorSize]byte
	if err := v.dev.ReadSector(s, &buf); err != nil {
		return SectorNil, fmt.Errorf(
			"reading pointer `%d` of sector `%d`: %w",
			index,
			s,
			err,
		)
	}
	return encode.GetSectorPointer(&buf, index), nil
}
