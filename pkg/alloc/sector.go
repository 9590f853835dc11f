package alloc

import (
	. "github.com/simplefs/ssfs/pkg/types"
)

// SectorTracker is the in-memory record of which sectors of a volume
// are owned by some inode's pointer tree. It is indexed by absolute
// sector number and carries no persistent form: mount rebuilds it by
// walking the inode table.
type SectorTracker struct {
	Bitmap
}

func NewSectorTracker(sectors Sector) SectorTracker {
	return SectorTracker{New(uint64(sectors))}
}

// MarkUsed idempotently records `s` as owned.
func (t SectorTracker) MarkUsed(s Sector) {
	t.Reserve(uint64(s))
}

// Release returns `s` to the free set. Zeroing the sector on disk is
// the caller's job.
func (t SectorTracker) Release(s Sector) {
	t.Free(uint64(s))
}

func (t SectorTracker) InUse(s Sector) bool {
	return t.IsSet(uint64(s))
}
