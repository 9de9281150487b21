package sinks

import (
	"context"
	"errors"

	"github.com/TFMV/dsgen/pkg/core"
	"github.com/TFMV/dsgen/pkg/row"
)

// Tee forwards every row to each of its sinks in order.
type Tee []core.RowSink

func (t Tee) WriteRow(ctx context.Context, r *row.Row) error {
	for _, s := range t {
		if err := s.WriteRow(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (t Tee) Close() error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
