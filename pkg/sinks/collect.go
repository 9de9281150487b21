package sinks

import (
	"context"
	"sync"

	"github.com/TFMV/dsgen/pkg/row"
)

// Collector keeps every row in memory.
type Collector struct {
	mu     sync.Mutex
	rows   []*row.Row
	closed bool
}

func (c *Collector) WriteRow(_ context.Context, r *row.Row) error {
	c.mu.Lock()
	c.rows = append(c.rows, r)
	c.mu.Unlock()
	return nil
}

func (c *Collector) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

// Rows returns the collected rows.
func (c *Collector) Rows() []*row.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*row.Row(nil), c.rows...)
}

// Closed reports whether Close was called.
func (c *Collector) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
