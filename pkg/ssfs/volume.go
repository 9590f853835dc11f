// Package ssfs implements a single-volume, inode-based filesystem
// stored inside a regular host file. A Volume value owns all mount
// state; the API is not safe for concurrent use and at most one
// volume can be mounted per Volume value at a time.
package ssfs

import (
	"fmt"

	"github.com/simplefs/ssfs/pkg/alloc"
	"github.com/simplefs/ssfs/pkg/encode"
	. "github.com/simplefs/ssfs/pkg/types"
	"github.com/simplefs/ssfs/pkg/vdisk"
)

// Volume is the mounted-volume context. The zero value is an unmounted
// volume ready for Format or Mount.
type Volume struct {
	dev     *vdisk.Device
	mounted bool
	super   Superblock
	free    alloc.SectorTracker
}

// Mounted reports whether the Volume currently has a mounted image.
func (v *Volume) Mounted() bool { return v.mounted }

// Superblock returns the decoded header of the mounted volume.
func (v *Volume) Superblock() (Superblock, error) {
	if err := v.requireMounted(); err != nil {
		return Superblock{}, fmt.Errorf("reading superblock: %w", err)
	}
	return v.super, nil
}

// Mount opens the image at `path`, validates its superblock, and
// rebuilds the in-memory free-sector map by walking every allocated
// inode's pointer tree. The device is closed again if any step fails.
func (v *Volume) Mount(path string) error {
	if v.mounted {
		return fmt.Errorf("mounting `%s`: %w", path, ErrAlreadyMounted)
	}

	dev, err := vdisk.Open(path)
	if err != nil {
		return fmt.Errorf("mounting `%s`: %w", path, err)
	}

	var buf [SectorSize]byte
	if err := dev.ReadSector(SuperblockSector, &buf); err != nil {
		_ = dev.Close()
		return fmt.Errorf("mounting `%s`: %w", path, err)
	}

	var super Superblock
	if err := encode.DecodeSuperblock(&super, &buf); err != nil {
		_ = dev.Close()
		return fmt.Errorf("mounting `%s`: %s: %w", path, err, ErrBadVolume)
	}

	if super.SectorCount <= InodeStartSector+super.InodeSectors {
		_ = dev.Close()
		return fmt.Errorf(
			"mounting `%s`: `%d` sectors leave no data region: %w",
			path,
			super.SectorCount,
			ErrBadVolume,
		)
	}

	if super.SectorCount > dev.SectorCount() {
		_ = dev.Close()
		return fmt.Errorf(
			"mounting `%s`: superblock claims `%d` sectors but the device "+
				"has `%d`: %w",
			path,
			super.SectorCount,
			dev.SectorCount(),
			ErrBadVolume,
		)
	}

	v.dev = dev
	v.super = super
	if err := v.rebuildFreeMap(); err != nil {
		_ = dev.Close()
		*v = Volume{}
		return fmt.Errorf("mounting `%s`: %w", path, err)
	}

	v.mounted = true
	return nil
}

// Unmount flushes the device, closes it, and clears the mount state.
func (v *Volume) Unmount() error {
	if !v.mounted {
		return fmt.Errorf("unmounting: %w", ErrNotMounted)
	}

	if err := v.dev.Sync(); err != nil {
		return fmt.Errorf("unmounting: %w", err)
	}

	dev := v.dev
	*v = Volume{}
	if err := dev.Close(); err != nil {
		return fmt.Errorf("unmounting: %w", err)
	}
	return nil
}

func (v *Volume) requireMounted() error {
	if !v.mounted {
		return ErrNotMounted
	}
	return nil
}

func (v *Volume) dataStart() Sector { return v.super.DataStart() }

// zeroSector overwrites sector `s` with zeros. Releasing a sector and
// zeroing it are the same operation on disk; there is no free list.
func (v *Volume) zeroSector(s Sector) error {
	var zero [SectorSize]byte
	return v.dev.WriteSector(s, &zero)
}

func sectorIsZero(p *[SectorSize]byte) bool {
	for _, b := range p {
		if b != 0 {
			return false
		}
	}
	return true
}
