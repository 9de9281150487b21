package sinks

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/zeebo/xxh3"

	"github.com/TFMV/dsgen/pkg/row"
)

// Checksum algorithms.
const (
	MD5  = "md5"
	XXH3 = "xxh3"
)

// ChecksumSink hashes the text rendering of the rows it receives.
type ChecksumSink struct {
	algorithm string
	h         hash.Hash
	dat       *DatSink
}

// NewChecksumSink returns a sink hashing with algorithm, md5 or xxh3.
func NewChecksumSink(algorithm string) (*ChecksumSink, error) {
	var h hash.Hash
	switch algorithm {
	case MD5, "":
		algorithm = MD5
		h = md5.New()
	case XXH3:
		h = xxh3.New()
	default:
		return nil, fmt.Errorf("unsupported checksum algorithm: %s", algorithm)
	}
	return &ChecksumSink{algorithm: algorithm, h: h, dat: NewDatSink(h)}, nil
}

func (s *ChecksumSink) WriteRow(ctx context.Context, r *row.Row) error {
	return s.dat.WriteRow(ctx, r)
}

// Close flushes pending text into the hash. Sum is valid afterwards.
func (s *ChecksumSink) Close() error {
	return s.dat.Close()
}

// Sum returns the hex digest of everything written so far.
func (s *ChecksumSink) Sum() string {
	_ = s.dat.w.Flush()
	return hex.EncodeToString(s.h.Sum(nil))
}

func (s *ChecksumSink) Algorithm() string { return s.algorithm }
func (s *ChecksumSink) Rows() int64 { return s.dat.Rows() }
