package ssfs

import (
	"testing"

	. "github.com/simplefs/ssfs/pkg/types"
)

func TestPositionForBlock(t *testing.T) {
	testCases := []struct {
		name   string
		block  Sector
		wanted position
	}{{
		name:   "first-direct",
		block:  0,
		wanted: position{level: levelDirect, direct: 0},
	}, {
		name:   "last-direct",
		block:  3,
		wanted: position{level: levelDirect, direct: 3},
	}, {
		name:   "first-indirect1",
		block:  4,
		wanted: position{level: levelIndirect1, inner: 0},
	}, {
		name:   "last-indirect1",
		block:  259,
		wanted: position{level: levelIndirect1, inner: 255},
	}, {
		name:   "first-indirect2",
		block:  260,
		wanted: position{level: levelIndirect2, outer: 0, inner: 0},
	}, {
		name:   "indirect2-row-boundary",
		block:  260 + 256,
		wanted: position{level: levelIndirect2, outer: 1, inner: 0},
	}, {
		name:   "indirect2-interior",
		block:  260 + 3*256 + 17,
		wanted: position{level: levelIndirect2, outer: 3, inner: 17},
	}, {
		name:   "last-addressable",
		block:  MaxFileSectors - 1,
		wanted: position{level: levelIndirect2, outer: 255, inner: 255},
	}, {
		name:   "first-out-of-range",
		block:  MaxFileSectors,
		wanted: position{level: levelOutOfRange},
	}}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			found := positionForBlock(testCase.block)
			if found != testCase.wanted {
				t.Fatalf(
					"positionForBlock(%d): wanted `%+v`; found `%+v`",
					testCase.block,
					testCase.wanted,
					found,
				)
			}
		})
	}
}

func TestMaxFileSectors(t *testing.T) {
	if wanted := Sector(65796); MaxFileSectors != wanted {
		t.Fatalf(
			"MaxFileSectors: wanted `%d`; found `%d`",
			wanted,
			MaxFileSectors,
		)
	}
	if wanted := Byte(65796) * SectorSize; MaxFileSize != wanted {
		t.Fatalf("MaxFileSize: wanted `%d`; found `%d`", wanted, MaxFileSize)
	}
}
