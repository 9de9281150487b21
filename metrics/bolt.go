package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.etcd.io/bbolt"
)

var runsBucket = []byte("runs")

// ErrRunNotFound is returned when a run id is not in the history.
var ErrRunNotFound = errors.New("run not found")

// BoltStore keeps the run history in a bbolt file, one JSON report per run
// id.
type BoltStore struct {
	db   *bbolt.DB
	path string
}

// NewBoltStore opens or creates the history at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}
	return &BoltStore{db: db, path: path}, nil
}

// Path returns the database file.
func (s *BoltStore) Path() string {
	return s.path
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Save(run RunReport) error {
	if run.Metadata.ID == "" {
		return errors.New("run report has no id")
	}
	encoded, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(runsBucket).Put([]byte(run.Metadata.ID), encoded)
	})
}

func (s *BoltStore) SaveWithContext(ctx context.Context, run RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Save(run)
}

// Get returns one run.
func (s *BoltStore) Get(id string) (RunReport, error) {
	var run RunReport
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(runsBucket).Get([]byte(id))
		if v == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return json.Unmarshal(v, &run)
	})
	return run, err
}

// List returns up to limit runs, newest first. A limit of 0 returns all.
func (s *BoltStore) List(limit int) ([]RunReport, error) {
	var runs []RunReport
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(_, v []byte) error {
			var run RunReport
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Metadata.StartTime.After(runs[j].Metadata.StartTime)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Delete removes a run.
func (s *BoltStore) Delete(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(runsBucket)
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return b.Delete([]byte(id))
	})
}
