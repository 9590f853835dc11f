package types

// Sector is a zero-based sector number on the volume. On disk, sector
// pointers are 32-bit little-endian; SectorNil marks an absent pointer.
type Sector uint32

// Byte counts bytes: offsets, lengths, and file sizes. File sizes are
// stored on disk as 32 bits, which comfortably covers the maximum
// addressable file (~64 MiB).
type Byte int64

// Ino identifies an inode slot in the inode table, starting at 0.
type Ino uint32

const (
	SectorSize Byte = 1024

	InodeSize       Byte = 32
	InodesPerSector Ino  = Ino(SectorSize / InodeSize)

	SectorPointerSize Byte   = 4
	PointersPerSector Sector = Sector(SectorSize / SectorPointerSize)

	DirectSectorsPerInode Sector = 4

	SectorNil Sector = 0

	// SuperblockSector is where the volume header lives; the inode table
	// starts in the following sector.
	SuperblockSector Sector = 0
	InodeStartSector Sector = 1

	InodeStatusFree      uint8 = 0
	InodeStatusAllocated uint8 = 1
)

// MagicSize is the length of the tag at the start of the superblock.
const MagicSize = 16

// Magic identifies an SSFS volume. Any sector 0 that does not begin
// with these bytes is not one of ours.
var Magic = [MagicSize]byte{
	0xf0, 0x55, 0x4c, 0x49,
	0x45, 0x47, 0x45, 0x49,
	0x4e, 0x46, 0x4f, 0x30,
	0x39, 0x34, 0x30, 0x0f,
}

// Superblock is the decoded volume header from sector 0.
type Superblock struct {
	// SectorCount is the total number of sectors in the volume,
	// including the superblock and the inode table.
	SectorCount Sector

	// InodeSectors is the number of sectors occupied by the inode
	// table, which begins at InodeStartSector.
	InodeSectors Sector

	// SectorSize must equal SectorSize; it is stored so that a foreign
	// reader can reject volumes it cannot address.
	SectorSize Byte
}

// DataStart returns the first sector of the data region.
func (super *Superblock) DataStart() Sector {
	return InodeStartSector + super.InodeSectors
}

// InodeCount returns the number of inode slots in the table.
func (super *Superblock) InodeCount() Ino {
	return Ino(super.InodeSectors) * InodesPerSector
}

// Inode is the decoded 32-byte inode record.
type Inode struct {
	Ino       Ino
	Status    uint8
	Size      Byte
	Direct    [DirectSectorsPerInode]Sector
	Indirect1 Sector
	Indirect2 Sector
}

func (inode *Inode) Allocated() bool {
	return inode.Status == InodeStatusAllocated
}

type ConstError string

func (err ConstError) Error() string { return string(err) }
