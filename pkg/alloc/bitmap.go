package alloc

import (
	"github.com/simplefs/ssfs/pkg/math"
)

const bitsPerByte = 8

// Bitmap is a bit-packed set of unsigned values, sized at construction.
type Bitmap struct {
	bytes []byte
	bits  uint64
}

func New(bits uint64) Bitmap {
	return Bitmap{
		bytes: make([]byte, math.DivRoundUp(bits, bitsPerByte)),
		bits:  bits,
	}
}

func (bm Bitmap) Len() uint64 { return bm.bits }

func (bm Bitmap) IsSet(value uint64) bool {
	return byteIsHigh(bm.bytes[value/bitsPerByte], uint8(value%bitsPerByte))
}

// Reserve sets the bit for `value`; reserving an already-set value is a
// no-op.
func (bm Bitmap) Reserve(value uint64) {
	b := &bm.bytes[value/bitsPerByte]
	*b = byteSetHigh(*b, uint8(value%bitsPerByte))
}

func (bm Bitmap) Free(value uint64) {
	b := &bm.bytes[value/bitsPerByte]
	*b = byteSetLow(*b, uint8(value%bitsPerByte))
}

// Equal reports whether two bitmaps mark exactly the same values.
func (bm Bitmap) Equal(other Bitmap) bool {
	if bm.bits != other.bits {
		return false
	}
	for i := range bm.bytes {
		if bm.bytes[i] != other.bytes[i] {
			return false
		}
	}
	return true
}

func byteIsHigh(byt byte, bit uint8) bool {
	return byt&(0b1000_0000>>bit) != 0
}

func byteSetHigh(byt byte, bit uint8) byte {
	return byt | (0b1000_0000 >> bit)
}

func byteSetLow(byt byte, bit uint8) byte {
	return byt & ^(0b1000_0000 >> bit)
}
