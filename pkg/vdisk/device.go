// Package vdisk adapts a regular host file into a fixed-sector block
// device. All persistent filesystem state flows through a Device; the
// filesystem layer never touches the file directly.
package vdisk

import (
	"fmt"
	"os"

	. "github.com/simplefs/ssfs/pkg/types"
)

const (
	SectorOutOfRangeErr ConstError = "sector out of range"
	DeviceClosedErr     ConstError = "device closed"
)

// Device is an open disk image. Sector indices are zero-based; indices
// at or past SectorCount are rejected. A file whose length is not a
// whole number of sectors exposes only the whole sectors.
type Device struct {
	file    *os.File
	sectors Sector
}

// Open opens an existing disk image read-write.
func Open(path string) (*Device, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening device `%s`: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("opening device `%s`: %w", path, err)
	}

	return &Device{
		file:    file,
		sectors: Sector(info.Size() / int64(SectorSize)),
	}, nil
}

// Create builds a zeroed disk image of `sectors` sectors, truncating
// any existing file at `path`.
func Create(path string, sectors Sector) (*Device, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating device `%s`: %w", path, err)
	}

	if err := file.Truncate(int64(sectors) * int64(SectorSize)); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf(
			"creating device `%s` with `%d` sectors: %w",
			path,
			sectors,
			err,
		)
	}

	return &Device{file: file, sectors: sectors}, nil
}

// SectorCount returns the number of addressable sectors.
func (d *Device) SectorCount() Sector { return d.sectors }

// ReadSector fills `p` with the contents of sector `s`.
func (d *Device) ReadSector(s Sector, p *[SectorSize]byte) error {
	if err := d.check(s); err != nil {
		return fmt.Errorf("reading sector `%d`: %w", s, err)
	}
	if _, err := d.file.ReadAt(p[:], int64(s)*int64(SectorSize)); err != nil {
		return fmt.Errorf("reading sector `%d`: %w", s, err)
	}
	return nil
}

// WriteSector writes `p` as the new contents of sector `s`.
func (d *Device) WriteSector(s Sector, p *[SectorSize]byte) error {
	if err := d.check(s); err != nil {
		return fmt.Errorf("writing sector `%d`: %w", s, err)
	}
	if _, err := d.file.WriteAt(p[:], int64(s)*int64(SectorSize)); err != nil {
		return fmt.Errorf("writing sector `%d`: %w", s, err)
	}
	return nil
}

// Sync flushes written sectors to stable storage.
func (d *Device) Sync() error {
	if d.file == nil {
		return fmt.Errorf("syncing device: %w", DeviceClosedErr)
	}
	if err := d.file.Sync(); err != nil {
		return fmt.Errorf("syncing device: %w", err)
	}
	return nil
}

// Close releases the underlying file. The Device must not be used
// afterwards.
func (d *Device) Close() error {
	if d.file == nil {
		return fmt.Errorf("closing device: %w", DeviceClosedErr)
	}
	file := d.file
	d.file = nil
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing device: %w", err)
	}
	return nil
}

func (d *Device) check(s Sector) error {
	if d.file == nil {
		return DeviceClosedErr
	}
	if s >= d.sectors {
		return fmt.Errorf(
			"device has `%d` sectors: %w",
			d.sectors,
			SectorOutOfRangeErr,
		)
	}
	return nil
}
