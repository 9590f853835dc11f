package encode

import (
	"errors"
	"testing"

	. "github.com/simplefs/ssfs/pkg/types"
)

func TestInodeEncodeDecode(t *testing.T) {
	wanted := Inode{
		Ino:       7,
		Status:    InodeStatusAllocated,
		Size:      5120,
		Direct:    [DirectSectorsPerInode]Sector{12, 13, 0, 15},
		Indirect1: 20,
		Indirect2: 21,
	}

	var buf [InodeSize]byte
	EncodeInode(&wanted, &buf)

	var found Inode
	if err := DecodeInode(&found, 7, &buf); err != nil {
		t.Fatalf("DecodeInode(): unexpected err: %v", err)
	}

	if found != wanted {
		t.Fatalf("DecodeInode(): wanted `%+v`; found `%+v`", wanted, found)
	}
}

func TestInodeEncodeLayout(t *testing.T) {
	inode := Inode{
		Ino:       0,
		Status:    InodeStatusAllocated,
		Size:      0x01020304,
		Direct:    [DirectSectorsPerInode]Sector{0x0a, 0x0b, 0x0c, 0x0d},
		Indirect1: 0x11,
		Indirect2: 0x22,
	}

	var buf [InodeSize]byte
	EncodeInode(&inode, &buf)

	wanted := [InodeSize]byte{
		0x01,                   // status
		0x00, 0x00, 0x00,       // reserved
		0x04, 0x03, 0x02, 0x01, // size, little-endian
		0x0a, 0x00, 0x00, 0x00,
		0x0b, 0x00, 0x00, 0x00,
		0x0c, 0x00, 0x00, 0x00,
		0x0d, 0x00, 0x00, 0x00,
		0x11, 0x00, 0x00, 0x00, // indirect1
		0x22, 0x00, 0x00, 0x00, // indirect2
	}
	if buf != wanted {
		t.Fatalf("EncodeInode(): wanted `% x`; found `% x`", wanted, buf)
	}
}

func TestInodeDecodeBadStatus(t *testing.T) {
	var buf [InodeSize]byte
	buf[inodeStatusStart] = 2

	var found Inode
	err := DecodeInode(&found, 0, &buf)
	if !errors.Is(err, BadInodeStatusErr) {
		t.Fatalf(
			"DecodeInode(): wanted `%v`; found `%v`",
			BadInodeStatusErr,
			err,
		)
	}
}

func TestSectorPointerRoundTrip(t *testing.T) {
	var buf [SectorSize]byte
	PutSectorPointer(&buf, 0, 42)
	PutSectorPointer(&buf, PointersPerSector-1, 0xdeadbeef)

	if found := GetSectorPointer(&buf, 0); found != 42 {
		t.Fatalf("GetSectorPointer(0): wanted `42`; found `%d`", found)
	}
	if found := GetSectorPointer(&buf, PointersPerSector-1); found != 0xdeadbeef {
		t.Fatalf(
			"GetSectorPointer(%d): wanted `0xdeadbeef`; found `%#x`",
			PointersPerSector-1,
			found,
		)
	}
	if found := GetSectorPointer(&buf, 1); found != SectorNil {
		t.Fatalf("GetSectorPointer(1): wanted nil pointer; found `%d`", found)
	}
}
