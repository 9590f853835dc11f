package vdisk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/simplefs/ssfs/pkg/types"
)

func tempImage(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.img")
}

func TestCreateOpenRoundTrip(t *testing.T) {
	path := tempImage(t)

	created, err := Create(path, 8)
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}
	if created.SectorCount() != 8 {
		t.Fatalf(
			"SectorCount(): wanted `8`; found `%d`",
			created.SectorCount(),
		)
	}

	var sector [SectorSize]byte
	for i := range sector {
		sector[i] = byte(i)
	}
	if err := created.WriteSector(3, &sector); err != nil {
		t.Fatalf("WriteSector(): unexpected err: %v", err)
	}
	if err := created.Close(); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}

	opened, err := Open(path)
	if err != nil {
		t.Fatalf("Open(): unexpected err: %v", err)
	}
	defer opened.Close()

	if opened.SectorCount() != 8 {
		t.Fatalf(
			"SectorCount(): wanted `8`; found `%d`",
			opened.SectorCount(),
		)
	}

	var found [SectorSize]byte
	if err := opened.ReadSector(3, &found); err != nil {
		t.Fatalf("ReadSector(): unexpected err: %v", err)
	}
	if found != sector {
		t.Fatal("ReadSector(): sector contents do not round-trip")
	}

	if err := opened.ReadSector(0, &found); err != nil {
		t.Fatalf("ReadSector(): unexpected err: %v", err)
	}
	for i, b := range found {
		if b != 0 {
			t.Fatalf("fresh sector byte `%d` is `%#x`; wanted zero", i, b)
		}
	}
}

func TestSectorOutOfRange(t *testing.T) {
	dev, err := Create(tempImage(t), 4)
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}
	defer dev.Close()

	var sector [SectorSize]byte
	if err := dev.ReadSector(4, &sector); !errors.Is(err, SectorOutOfRangeErr) {
		t.Fatalf(
			"ReadSector(4): wanted `%v`; found `%v`",
			SectorOutOfRangeErr,
			err,
		)
	}
	if err := dev.WriteSector(100, &sector); !errors.Is(err, SectorOutOfRangeErr) {
		t.Fatalf(
			"WriteSector(100): wanted `%v`; found `%v`",
			SectorOutOfRangeErr,
			err,
		)
	}
}

func TestOpenMissingImage(t *testing.T) {
	if _, err := Open(tempImage(t)); err == nil {
		t.Fatal("Open(): wanted an error for a missing image")
	}
}

func TestPartialTrailingSectorIgnored(t *testing.T) {
	path := tempImage(t)
	dev, err := Create(path, 4)
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}

	// grow the file by half a sector; the partial sector must not be
	// addressable
	if err := os.Truncate(
		path,
		4*int64(SectorSize)+int64(SectorSize)/2,
	); err != nil {
		t.Fatalf("truncating image: %v", err)
	}

	grown, err := Open(path)
	if err != nil {
		t.Fatalf("Open(): unexpected err: %v", err)
	}
	if grown.SectorCount() != 4 {
		t.Fatalf("SectorCount(): wanted `4`; found `%d`", grown.SectorCount())
	}
	if err := grown.Close(); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}
}

func TestUseAfterClose(t *testing.T) {
	dev, err := Create(tempImage(t), 4)
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}

	var sector [SectorSize]byte
	if err := dev.ReadSector(0, &sector); !errors.Is(err, DeviceClosedErr) {
		t.Fatalf(
			"ReadSector() after Close(): wanted `%v`; found `%v`",
			DeviceClosedErr,
			err,
		)
	}
	if err := dev.Close(); !errors.Is(err, DeviceClosedErr) {
		t.Fatalf(
			"second Close(): wanted `%v`; found `%v`",
			DeviceClosedErr,
			err,
		)
	}
}
