package rowgen

import "time"

// MakeBusinessKey renders id as 16 letters. The high and low 32 bits are
// each written as eight nibbles, least significant first, with nibble n
// printed as 'A'+n; id 1 is "AAAAAAAABAAAAAAA".
func MakeBusinessKey(id int64) string {
	var b [16]byte
	putNibbles(b[:8], uint32(uint64(id)>>32))
	putNibbles(b[8:], uint32(id))
	return string(b[:])
}

func putNibbles(dst []byte, v uint32) {
	for i := range dst {
		dst[i] = 'A' + byte(v&0xF)
		v >>= 4
	}
}

// julianEpoch is the julian day number of 1970-01-01.
const julianEpoch = 2440588

// JulianDay returns the julian day number of a proleptic gregorian date.
func JulianDay(year, month, day int) int64 {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Unix()/86400 + julianEpoch
}
