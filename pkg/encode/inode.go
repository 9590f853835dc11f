package encode

import (
	"fmt"

	. "github.com/simplefs/ssfs/pkg/types"
)

const (
	BadInodeStatusErr ConstError = "bad inode status byte"
)

const (
	inodeStatusStart = 0
	inodeStatusSize  = 1
	inodeStatusEnd   = inodeStatusStart + inodeStatusSize

	inodeReservedStart = inodeStatusEnd
	inodeReservedSize  = 3
	inodeReservedEnd   = inodeReservedStart + inodeReservedSize

	inodeSizeStart = inodeReservedEnd
	inodeSizeSize  = 4
	inodeSizeEnd   = inodeSizeStart + inodeSizeSize

	inodeDirectStart = inodeSizeEnd
	inodeDirectSize  = Byte(DirectSectorsPerInode) * SectorPointerSize
	inodeDirectEnd   = inodeDirectStart + inodeDirectSize

	inodeIndirect1Start = inodeDirectEnd
	inodeIndirect1Size  = SectorPointerSize
	inodeIndirect1End   = inodeIndirect1Start + inodeIndirect1Size

	inodeIndirect2Start = inodeIndirect1End
	inodeIndirect2Size  = SectorPointerSize
	inodeIndirect2End   = inodeIndirect2Start + inodeIndirect2Size
)

// EncodeInode renders a 32-byte inode record. Reserved bytes are
// zeroed.
func EncodeInode(inode *Inode, p *[InodeSize]byte) {
	*p = [InodeSize]byte{}
	putU8(p[:], inodeStatusStart, inode.Status)
	putU32(p[:], inodeSizeStart, uint32(inode.Size))
	for i := Byte(0); i < Byte(DirectSectorsPerInode); i++ {
		putSector(p[:], inodeDirectStart+i*SectorPointerSize, inode.Direct[i])
	}
	putSector(p[:], inodeIndirect1Start, inode.Indirect1)
	putSector(p[:], inodeIndirect2Start, inode.Indirect2)
}

// DecodeInode parses a 32-byte inode record. The status byte is
// validated first; the output is not mutated unless decoding succeeds.
// The caller supplies the ino, which is not part of the record.
func DecodeInode(inode *Inode, ino Ino, p *[InodeSize]byte) error {
	status := getU8(p[:], inodeStatusStart)
	if status != InodeStatusFree && status != InodeStatusAllocated {
		return fmt.Errorf(
			"decoding inode `%d`: status `%d`: %w",
			ino,
			status,
			BadInodeStatusErr,
		)
	}

	inode.Ino = ino
	inode.Status = status
	inode.Size = Byte(getU32(p[:], inodeSizeStart))
	for i := Byte(0); i < Byte(DirectSectorsPerInode); i++ {
		inode.Direct[i] = getSector(
			p[:],
			inodeDirectStart+i*SectorPointerSize,
		)
	}
	inode.Indirect1 = getSector(p[:], inodeIndirect1Start)
	inode.Indirect2 = getSector(p[:], inodeIndirect2Start)
	return nil
}
