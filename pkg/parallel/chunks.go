// Package parallel splits a table's rows into contiguous chunks so that
// independent workers can each generate one chunk without coordination.
package parallel

import (
	"errors"
	"fmt"
)

// ErrInvalidChunk is returned for a chunk index outside [1, totalChunks],
// a non-positive chunk count or a negative row count.
var ErrInvalidChunk = errors.New("invalid chunk")

// ChunkBoundaries is the 1-indexed inclusive row range of a chunk. A chunk
// with FirstRow > LastRow is empty.
type ChunkBoundaries struct {
	FirstRow int64 `json:"first_row"`
	LastRow  int64 `json:"last_row"`
}

// Len returns the number of rows in the chunk.
func (b ChunkBoundaries) Len() int64 {
	if b.LastRow < b.FirstRow {
		return 0
	}
	return b.LastRow - b.FirstRow + 1
}

// Empty reports whether the chunk contains no rows.
func (b ChunkBoundaries) Empty() bool {
	return b.Len() == 0
}

func (b ChunkBoundaries) String() string {
	return fmt.Sprintf("[%d, %d]", b.FirstRow, b.LastRow)
}

// SplitWork returns the rows of chunk out of totalChunks for a table of
// rowCount rows. The first rowCount%totalChunks chunks receive one extra row.
// Only integer arithmetic is used so every platform agrees on the split.
func SplitWork(rowCount int64, totalChunks, chunk int) (ChunkBoundaries, error) {
	if rowCount < 0 {
		return ChunkBoundaries{}, fmt.Errorf("%w: row count %d is negative", ErrInvalidChunk, rowCount)
	}
	if totalChunks < 1 {
		return ChunkBoundaries{}, fmt.Errorf("%w: total chunks %d must be positive", ErrInvalidChunk, totalChunks)
	}
	if chunk < 1 || chunk > totalChunks {
		return ChunkBoundaries{}, fmt.Errorf("%w: chunk %d outside [1, %d]", ErrInvalidChunk, chunk, totalChunks)
	}

	p := int64(totalChunks)
	c := int64(chunk)
	base := rowCount / p
	extra := rowCount % p

	size := base
	if c <= extra {
		size++
	}
	first := 1 + (c-1)*base + min(c-1, extra)
	return ChunkBoundaries{FirstRow: first, LastRow: first + size - 1}, nil
}

// Plan returns the boundaries of every chunk in order.
func Plan(rowCount int64, totalChunks int) ([]ChunkBoundaries, error) {
	if totalChunks < 1 {
		return nil, fmt.Errorf("%w: total chunks %d must be positive", ErrInvalidChunk, totalChunks)
	}
	plan := make([]ChunkBoundaries, 0, totalChunks)
	for c := 1; c <= totalChunks; c++ {
		b, err := SplitWork(rowCount, totalChunks, c)
		if err != nil {
			return nil, err
		}
		plan = append(plan, b)
	}
	return plan, nil
}
