package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}

func testRecorder() *Recorder {
	r := NewRecorder(RunMetadata{Command: "generate", Scale: 1, Parallelism: 2, Format: "dat"})
	r.now = fakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), time.Second)
	r.report.Metadata.StartTime = r.now()
	return r
}

func TestRecorder_Finish(t *testing.T) {
	r := testRecorder()
	_, err := uuid.Parse(r.ID())
	require.NoError(t, err)

	r.AddChunk(ChunkMetrics{Table: "promotion", Chunk: 2, TotalChunks: 2, FirstRow: 151, LastRow: 300, Rows: 150})
	r.AddChunk(ChunkMetrics{Table: "reason", Chunk: 1, TotalChunks: 2, FirstRow: 1, LastRow: 35, Rows: 35})
	r.AddChunk(ChunkMetrics{Table: "promotion", Chunk: 1, TotalChunks: 2, FirstRow: 1, LastRow: 150, Rows: 150})
	r.AddChunk(ChunkMetrics{Table: "reason", Chunk: 2, TotalChunks: 2, FirstRow: 36, LastRow: 35, Skipped: true})

	rep := r.Finish(nil)
	assert.True(t, rep.Status.Passed)
	assert.Equal(t, time.Second, rep.Metadata.Duration)
	assert.Equal(t, int64(335), rep.TotalRows())

	require.Len(t, rep.Chunks, 4)
	assert.Equal(t, 1, rep.Chunks[0].Chunk)
	assert.Equal(t, "promotion", rep.Chunks[1].Table)
	assert.Equal(t, "reason", rep.Chunks[2].Table)

	assert.Equal(t, []TableSummary{
		{Name: "promotion", Rows: 300, Chunks: 2},
		{Name: "reason", Rows: 35, Chunks: 1},
	}, rep.Tables)
}

func TestRecorder_FailedRuns(t *testing.T) {
	r := testRecorder()
	rep := r.Finish(errors.New("disk full"))
	assert.False(t, rep.Status.Passed)
	assert.Equal(t, "disk full", rep.Status.Message)

	r = testRecorder()
	r.AddVerification(VerifyResult{Table: "warehouse", Parallelism: 4, Match: false})
	rep = r.Finish(nil)
	assert.False(t, rep.Status.Passed)
	assert.Contains(t, rep.Status.Message, "warehouse")
}

func TestJSONMetricsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	store := &JSONMetricsStore{FilePath: path}

	r := testRecorder()
	r.AddChunk(ChunkMetrics{Table: "reason", Chunk: 1, TotalChunks: 1, Rows: 35, Checksum: "abc"})
	rep := r.Finish(nil)
	require.NoError(t, store.Save(rep))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var loaded RunReport
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, rep.Metadata.ID, loaded.Metadata.ID)
	assert.Equal(t, "abc", loaded.Chunks[0].Checksum)
}

// TestSaveWithContext ensures that context cancellation is respected when saving a report.
func TestSaveWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &JSONMetricsStore{FilePath: filepath.Join(t.TempDir(), "run.json")}
	assert.ErrorIs(t, store.SaveWithContext(ctx, RunReport{}), context.Canceled)
	assert.ErrorIs(t, MultiStore{store}.SaveWithContext(ctx, RunReport{}), context.Canceled)
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history", "runs.db")
	store, err := NewBoltStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		rep := RunReport{Metadata: RunMetadata{ID: uuid.NewString(), StartTime: base.Add(time.Duration(i) * time.Hour)}}
		require.NoError(t, store.Save(rep))
		ids = append(ids, rep.Metadata.ID)
	}

	runs, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].Metadata.ID)
	assert.Equal(t, ids[0], runs[2].Metadata.ID)

	runs, err = store.List(1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	got, err := store.Get(ids[1])
	require.NoError(t, err)
	assert.True(t, got.Metadata.StartTime.Equal(base.Add(time.Hour)))

	require.NoError(t, store.Delete(ids[1]))
	_, err = store.Get(ids[1])
	assert.ErrorIs(t, err, ErrRunNotFound)
	assert.ErrorIs(t, store.Delete(ids[1]), ErrRunNotFound)

	assert.Error(t, store.Save(RunReport{}))
	require.NoError(t, store.Close())

	// history survives reopening
	store, err = NewBoltStore(path)
	require.NoError(t, err)
	defer store.Close()
	runs, err = store.List(0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestBoltStore_SaveWithContext(t *testing.T) {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.SaveWithContext(ctx, RunReport{Metadata: RunMetadata{ID: "x"}}), context.Canceled)
}
