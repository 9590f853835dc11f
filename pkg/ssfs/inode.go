package ssfs

import (
	"fmt"

	"github.com/simplefs/ssfs/pkg/encode"
	. "github.com/simplefs/ssfs/pkg/types"
)

// inodeLocation returns the sector holding inode `ino` and the record's
// byte offset within that sector.
func (v *Volume) inodeLocation(ino Ino) (Sector, Byte) {
	sector := InodeStartSector + Sector(ino/InodesPerSector)
	offset := Byte(ino%InodesPerSector) * InodeSize
	return sector, offset
}

// readInode loads inode `ino` by reading its enclosing sector and
// decoding the 32-byte record in place.
func (v *Volume) readInode(ino Ino, inode *Inode) error {
	if ino >= v.super.InodeCount() {
		return fmt.Errorf(
			"reading inode `%d`: table holds `%d` inodes: %w",
			ino,
			v.super.InodeCount(),
			ErrBadInode,
		)
	}

	sector, offset := v.inodeLocation(ino)
	var buf [SectorSize]byte
	if err := v.dev.ReadSector(sector, &buf); err != nil {
		return fmt.Errorf("reading inode `%d`: %w", ino, err)
	}

	if err := encode.DecodeInode(
		inode,
		ino,
		(*[InodeSize]byte)(buf[offset:]),
	); err != nil {
		return fmt.Errorf("reading inode `%d`: %s: %w", ino, err, ErrBadVolume)
	}
	return nil
}

// storeInode persists an inode record by read-modify-writing its
// enclosing sector.
func (v *Volume) storeInode(inode *Inode) error {
	sector, offset := v.inodeLocation(inode.Ino)
	var buf [SectorSize]byte
	if err := v.dev.ReadSector(sector, &buf); err != nil {
		return fmt.Errorf("storing inode `%d`: %w", inode.Ino, err)
	}
	encode.EncodeInode(inode, (*[InodeSize]byte)(buf[offset:]))
	if err := v.dev.WriteSector(sector, &buf); err != nil {
		return fmt.Errorf("storing inode `%d`: %w", inode.Ino, err)
	}
	return nil
}

// readAllocatedInode loads an inode that an operation expects to be
// allocated, failing with ErrBadInode otherwise.
func (v *Volume) readAllocatedInode(ino Ino, inode *Inode) error {
	if err := v.readInode(ino, inode); err != nil {
		return err
	}
	if !inode.Allocated() {
		return fmt.Errorf("inode `%d` is free: %w", ino, ErrBadInode)
	}
	return nil
}

// Create allocates the lowest-numbered free inode, persists it, and
// returns its number.
func (v *Volume) Create() (Ino, error) {
	if err := v.requireMounted(); err != nil {
		return 0, fmt.Errorf("creating inode: %w", err)
	}

	var buf [SectorSize]byte
	for sec := Sector(0); sec < v.super.InodeSectors; sec++ {
		if err := v.dev.ReadSector(InodeStartSector+sec, &buf); err != nil {
			return 0, fmt.Errorf("creating inode: %w", err)
		}

		for i := Ino(0); i < InodesPerSector; i++ {
			offset := Byte(i) * InodeSize
			if buf[offset] != InodeStatusFree {
				continue
			}

			ino := Ino(sec)*InodesPerSector + i
			inode := Inode{Ino: ino, Status: InodeStatusAllocated}
			encode.EncodeInode(&inode, (*[InodeSize]byte)(buf[offset:]))
			if err := v.dev.WriteSector(
				InodeStartSector+sec,
				&buf,
			); err != nil {
				return 0, fmt.Errorf("creating inode: %w", err)
			}
			return ino, nil
		}
	}

	return 0, fmt.Errorf("creating inode: %w", ErrOutOfInodes)
}

// Stat returns the size in bytes of the file identified by `ino`.
func (v *Volume) Stat(ino Ino) (Byte, error) {
	if err := v.requireMounted(); err != nil {
		return 0, fmt.Errorf("stating inode `%d`: %w", ino, err)
	}

	var inode Inode
	if err := v.readAllocatedInode(ino, &inode); err != nil {
		return 0, fmt.Errorf("stating inode `%d`: %w", ino, err)
	}
	return inode.Size, nil
}
