// Package metrics records what a generation run produced: per-chunk row
// counts, durations and checksums, grouped into a RunReport that can be
// stored as JSON or in a bbolt run history.
package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// -----------------------------
// Run Types & Metadata
// -----------------------------

// RunMetadata captures the parameters of a run.
type RunMetadata struct {
	ID          string        `json:"id"`
	Command     string        `json:"command"`
	Version     string        `json:"version"`
	Scale       float64       `json:"scale"`
	Parallelism int           `json:"parallelism"`
	Chunk       int           `json:"chunk,omitempty"`
	Workers     int           `json:"workers"`
	Format      string        `json:"format"`
	OutputDir   string        `json:"output_dir,omitempty"`
	SeedBase    int64         `json:"seed_base"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Duration    time.Duration `json:"duration"`
}

// ChunkMetrics describes one generated chunk.
type ChunkMetrics struct {
	Table       string        `json:"table"`
	Chunk       int           `json:"chunk"`
	TotalChunks int           `json:"total_chunks"`
	FirstRow    int64         `json:"first_row"`
	LastRow     int64         `json:"last_row"`
	Rows        int64         `json:"rows"`
	Skipped     bool          `json:"skipped,omitempty"`
	Duration    time.Duration `json:"duration"`
	Checksum    string        `json:"checksum,omitempty"`
	Output      string        `json:"output,omitempty"`
}

// TableSummary totals the chunks of one table.
type TableSummary struct {
	Name   string `json:"name"`
	Rows   int64  `json:"rows"`
	Chunks int    `json:"chunks"`
}

// VerifyResult compares a single-chunk run of a table with the
// concatenation of its chunks.
type VerifyResult struct {
	Table           string `json:"table"`
	Parallelism     int    `json:"parallelism"`
	Algorithm       string `json:"algorithm"`
	SingleChecksum  string `json:"single_checksum"`
	ChunkedChecksum string `json:"chunked_checksum"`
	Rows            int64  `json:"rows"`
	Match           bool   `json:"match"`
}

// RunStatus holds the outcome of a run.
type RunStatus struct {
	Passed    bool      `json:"passed"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RunReport aggregates the results of a run.
type RunReport struct {
	Metadata      RunMetadata    `json:"metadata"`
	Chunks        []ChunkMetrics `json:"chunks"`
	Tables        []TableSummary `json:"tables"`
	Verifications []VerifyResult `json:"verifications,omitempty"`
	Status        RunStatus      `json:"status"`
}

// TotalRows sums the rows of every chunk.
func (r *RunReport) TotalRows() int64 {
	var n int64
	for _, c := range r.Chunks {
		n += c.Rows
	}
	return n
}

// -----------------------------
// Recording
// -----------------------------

// Recorder builds a RunReport. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	report RunReport
	now    func() time.Time
}

// NewRecorder starts a run with a fresh id.
func NewRecorder(meta RunMetadata) *Recorder {
	r := &Recorder{now: time.Now}
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	meta.StartTime = r.now()
	r.report.Metadata = meta
	return r
}

// ID returns the run id.
func (r *Recorder) ID() string {
	return r.report.Metadata.ID
}

// AddChunk records a finished chunk.
func (r *Recorder) AddChunk(c ChunkMetrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Chunks = append(r.report.Chunks, c)
}

// AddVerification records a verify result.
func (r *Recorder) AddVerification(v VerifyResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Verifications = append(r.report.Verifications, v)
}

// Finish closes the run and returns the report. Chunks are ordered by table
// of first appearance, then chunk. A non-nil err or a failed verification
// marks the run failed.
func (r *Recorder) Finish(err error) RunReport {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := r.report
	rep.Chunks = append([]ChunkMetrics(nil), r.report.Chunks...)
	rep.Verifications = append([]VerifyResult(nil), r.report.Verifications...)

	order := make(map[string]int)
	for _, c := range rep.Chunks {
		if _, ok := order[c.Table]; !ok {
			order[c.Table] = len(order)
		}
	}
	sortChunks(rep.Chunks, order)

	rep.Tables = make([]TableSummary, len(order))
	for _, c := range rep.Chunks {
		s := &rep.Tables[order[c.Table]]
		s.Name = c.Table
		s.Rows += c.Rows
		if !c.Skipped {
			s.Chunks++
		}
	}

	end := r.now()
	rep.Metadata.EndTime = end
	rep.Metadata.Duration = end.Sub(rep.Metadata.StartTime)
	rep.Status = RunStatus{Passed: true, Timestamp: end}
	if err != nil {
		rep.Status.Passed = false
		rep.Status.Message = err.Error()
	}
	for _, v := range rep.Verifications {
		if !v.Match {
			rep.Status.Passed = false
			rep.Status.Message = fmt.Sprintf("%s: chunked output differs from single-chunk output", v.Table)
			break
		}
	}
	return rep
}

func sortChunks(chunks []ChunkMetrics, order map[string]int) {
	sort.SliceStable(chunks, func(i, j int) bool {
		a, b := chunks[i], chunks[j]
		if order[a.Table] != order[b.Table] {
			return order[a.Table] < order[b.Table]
		}
		return a.Chunk < b.Chunk
	})
}

// -----------------------------
// Metrics Storage
// -----------------------------

// MetricsStore abstracts run report storage.
type MetricsStore interface {
	Save(run RunReport) error
	SaveWithContext(ctx context.Context, run RunReport) error
}

// JSONMetricsStore stores a report as a JSON file, or prints it when no
// path is set.
type JSONMetricsStore struct {
	FilePath string
}

func (j *JSONMetricsStore) Save(run RunReport) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	if j.FilePath != "" {
		return os.WriteFile(j.FilePath, data, 0644)
	}
	fmt.Println(string(data))
	return nil
}

func (j *JSONMetricsStore) SaveWithContext(ctx context.Context, run RunReport) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return j.Save(run)
	}
}

// MultiStore saves to every store in order.
type MultiStore []MetricsStore

func (m MultiStore) Save(run RunReport) error {
	return m.SaveWithContext(context.Background(), run)
}

func (m MultiStore) SaveWithContext(ctx context.Context, run RunReport) error {
	for _, s := range m {
		if err := s.SaveWithContext(ctx, run); err != nil {
			return err
		}
	}
	return nil
}
