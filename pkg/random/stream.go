// Package random provides the seekable Lehmer streams that make chunked
// generation reproducible. Every generated column owns exactly one Stream;
// a Registry groups the streams of a generation task.
package random

import (
	"errors"
	"fmt"
)

const (
	// DefaultSeedBase is the seed offset shared by every column stream.
	DefaultSeedBase int64 = 19620718

	// Modulus is the Park-Miller modulus 2^31 - 1.
	Modulus int64 = 2147483647

	multiplier int64 = 16807
	quotient   int64 = 127773 // Modulus / multiplier
	remainder  int64 = 2836   // Modulus % multiplier

	// columnSpacing separates the subsequences of consecutive global columns.
	columnSpacing = Modulus / 799
)

var (
	// ErrInvalidSeedsPerRow is returned when a stream is declared with a
	// negative per-row draw budget.
	ErrInvalidSeedsPerRow = errors.New("seedsPerRow must be >= 0")

	// ErrInvalidSeed is returned when the derived initial seed falls outside
	// [1, Modulus-1].
	ErrInvalidSeed = errors.New("initial seed out of range")
)

// Stream is a single Lehmer generator bound to one logical column.
type Stream struct {
	seed        int64
	initialSeed int64
	seedsUsed   int
	seedsPerRow int
}

// NewStream creates the stream of a global column using DefaultSeedBase.
func NewStream(globalColumn, seedsPerRow int) (*Stream, error) {
	return NewStreamWithBase(globalColumn, DefaultSeedBase, seedsPerRow)
}

// NewStreamWithBase creates the stream of a global column with an explicit
// seed base. The initial seed is seedBase + globalColumn*floor(Modulus/799).
func NewStreamWithBase(globalColumn int, seedBase int64, seedsPerRow int) (*Stream, error) {
	if seedsPerRow < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSeedsPerRow, seedsPerRow)
	}
	initial := seedBase + int64(globalColumn)*columnSpacing
	if initial < 1 || initial >= Modulus {
		return nil, fmt.Errorf("%w: column %d with base %d gives %d", ErrInvalidSeed, globalColumn, seedBase, initial)
	}
	return &Stream{
		seed:        initial,
		initialSeed: initial,
		seedsPerRow: seedsPerRow,
	}, nil
}

// Next advances the stream and returns a value in [1, Modulus-1].
// Schrage's decomposition keeps every intermediate product below 2^31.
func (s *Stream) Next() int64 {
	next := multiplier*(s.seed%quotient) - remainder*(s.seed/quotient)
	if next < 0 {
		next += Modulus
	}
	s.seed = next
	s.seedsUsed++
	return next
}

// NextDouble returns Next()/Modulus, a value in (0, 1).
func (s *Stream) NextDouble() float64 {
	return float64(s.Next()) / float64(Modulus)
}

// SkipRows positions the stream where it would be after rows*seedsPerRow
// draws from the initial seed. It costs O(log n) multiplications and resets
// the per-row usage counter.
func (s *Stream) SkipRows(rows int64) {
	n := rows * int64(s.seedsPerRow)
	next := s.initialSeed
	mult := multiplier
	for n > 0 {
		if n%2 != 0 {
			next = (mult * next) % Modulus
		}
		n /= 2
		mult = (mult * mult) % Modulus
	}
	s.seed = next
	s.seedsUsed = 0
}

// SkipToRow positions the stream at the state preceding generation of the
// 1-indexed row. Rows below 1 are treated as row 1.
func (s *Stream) SkipToRow(row int64) {
	if row < 1 {
		row = 1
	}
	s.SkipRows(row - 1)
}

// ResetSeed rewinds the stream to its initial seed.
func (s *Stream) ResetSeed() {
	s.seed = s.initialSeed
	s.seedsUsed = 0
}

// ResetSeedsUsed clears the per-row draw counter.
func (s *Stream) ResetSeedsUsed() {
	s.seedsUsed = 0
}

func (s *Stream) Seed() int64 { return s.seed }
func (s *Stream) InitialSeed() int64 { return s.initialSeed }
func (s *Stream) SeedsUsed() int { return s.seedsUsed }
func (s *Stream) SeedsPerRow() int { return s.seedsPerRow }

// UniformInt draws an integer in [min, max] as
// (value mod span) + min.
func UniformInt(min, max int, s *Stream) int {
	result := int(s.Next())
	result %= max - min + 1
	return result + min
}

// UniformKey is UniformInt over 64-bit bounds.
func UniformKey(min, max int64, s *Stream) int64 {
	result := s.Next()
	result %= max - min + 1
	return result + min
}
