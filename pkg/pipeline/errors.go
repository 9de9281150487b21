package pipeline

import "fmt"

// ChunkError reports the failure of one generation task.
type ChunkError struct {
	Table string
	Chunk int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("generate %s chunk %d: %v", e.Table, e.Chunk, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
