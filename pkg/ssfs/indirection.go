package ssfs

import (
	"fmt"

	. "github.com/simplefs/ssfs/pkg/types"
)

type level int

const (
	levelDirect level = iota
	levelIndirect1
	levelIndirect2
	levelOutOfRange
)

func (level level) String() string {
	switch level {
	case levelDirect:
		return "direct"
	case levelIndirect1:
		return "singly indirect"
	case levelIndirect2:
		return "doubly indirect"
	case levelOutOfRange:
		return "out of range"
	default:
		panic(fmt.Sprintf("invalid level: %d", level))
	}
}

// MaxFileSectors is the number of logical blocks a single inode can
// address: the direct slots, one sector of pointers, and one sector of
// pointers to pointer sectors.
const MaxFileSectors Sector = DirectSectorsPerInode +
	PointersPerSector +
	PointersPerSector*PointersPerSector

// MaxFileSize is the largest byte offset any write may reach.
const MaxFileSize Byte = Byte(MaxFileSectors) * SectorSize

// position names one slot in an inode's pointer tree.
//
// direct:    inode.Direct[direct]
// indirect1: entry inner of the inode's indirect1 sector
// indirect2: entry outer of indirect2 names an intermediate sector;
//            entry inner of that sector names the data sector
type position struct {
	level  level
	direct Sector
	outer  Sector
	inner  Sector
}

// positionForBlock translates a logical file-block index into its slot
// in the pointer tree.
func positionForBlock(block Sector) position {
	if block < DirectSectorsPerInode {
		return position{level: levelDirect, direct: block}
	}

	if block < DirectSectorsPerInode+PointersPerSector {
		return position{
			level: levelIndirect1,
			inner: block - DirectSectorsPerInode,
		}
	}

	if block < MaxFileSectors {
		base := block - (DirectSectorsPerInode + PointersPerSector)
		return position{
			level: levelIndirect2,
			outer: base / PointersPerSector,
			inner: base % PointersPerSector,
		}
	}

	return position{level: levelOutOfRange}
}
