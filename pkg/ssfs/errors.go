package ssfs

import (
	. "github.com/simplefs/ssfs/pkg/types"
)

// One exported constant per failure category. Callers classify with
// errors.Is; every error returned by the API wraps exactly one of
// these or an underlying device error.
const (
	// ErrAlreadyMounted: Mount or Format called on a mounted Volume.
	ErrAlreadyMounted ConstError = "volume already mounted"

	// ErrNotMounted: an operation that needs a mounted volume was
	// called on an unmounted one.
	ErrNotMounted ConstError = "volume not mounted"

	// ErrBadVolume: sector 0 is not a valid SSFS superblock, its
	// fields are inconsistent with the device, or the inode table holds
	// a record with a bad status byte or a pointer outside the data
	// region.
	ErrBadVolume ConstError = "bad volume"

	// ErrCapacity: the image is too small to format, the write reaches
	// past the last addressable block, or no free data sector remains.
	ErrCapacity ConstError = "out of capacity"

	// ErrNotBlank: Format found leftover data past the superblock.
	ErrNotBlank ConstError = "image not blank"

	// ErrBadInode: the inode number is out of range or names a free
	// inode.
	ErrBadInode ConstError = "bad inode"

	// ErrOutOfInodes: Create found no free slot in the inode table.
	ErrOutOfInodes ConstError = "out of inodes"

	// ErrNegativeOffset: a read or write was given an offset below
	// zero.
	ErrNegativeOffset ConstError = "negative offset"
)
