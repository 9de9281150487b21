package row

import "math/bits"

// NullMask has one bit per attribute position. It spans as many 64-bit
// words as the row width needs.
type NullMask struct {
	width int
	words []uint64
}

// NewNullMask returns an all-clear mask for width attributes.
func NewNullMask(width int) NullMask {
	return NullMask{width: width, words: make([]uint64, (width+63)/64)}
}

// MaskFromBits builds a mask whose low word is b. Bits at or past width are
// dropped.
func MaskFromBits(width int, b uint64) NullMask {
	m := NewNullMask(width)
	if len(m.words) == 0 {
		return m
	}
	if width < 64 {
		b &= (uint64(1) << uint(width)) - 1
	}
	m.words[0] = b
	return m
}

// Width returns the number of attribute positions.
func (m NullMask) Width() int {
	return m.width
}

// Set marks position i as NULL.
func (m NullMask) Set(i int) {
	if i < 0 || i >= m.width {
		return
	}
	m.words[i/64] |= 1 << uint(i%64)
}

// IsSet reports whether position i is NULL.
func (m NullMask) IsSet(i int) bool {
	if i < 0 || i >= m.width {
		return false
	}
	return m.words[i/64]&(1<<uint(i%64)) != 0
}

// Count returns the number of NULL positions.
func (m NullMask) Count() int {
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clone returns an independent copy.
func (m NullMask) Clone() NullMask {
	c := NullMask{width: m.width, words: make([]uint64, len(m.words))}
	copy(c.words, m.words)
	return c
}
