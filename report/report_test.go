package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/dsgen/metrics"
)

// createTestReport builds a two-chunk run of promotion with a verification.
func createTestReport() metrics.RunReport {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return metrics.RunReport{
		Metadata: metrics.RunMetadata{
			ID:          "3f1c2d4e-0000-4000-8000-000000000001",
			Command:     "generate",
			Version:     "0.1",
			Scale:       1,
			Parallelism: 2,
			Format:      "dat",
			SeedBase:    19620718,
			StartTime:   now,
			EndTime:     now.Add(time.Second),
			Duration:    time.Second,
		},
		Chunks: []metrics.ChunkMetrics{
			{Table: "promotion", Chunk: 1, TotalChunks: 2, FirstRow: 1, LastRow: 150, Rows: 150, Checksum: "aaaa"},
			{Table: "promotion", Chunk: 2, TotalChunks: 2, FirstRow: 151, LastRow: 300, Rows: 150, Checksum: "bbbb"},
			{Table: "reason", Chunk: 2, TotalChunks: 2, FirstRow: 36, LastRow: 35, Skipped: true},
		},
		Tables: []metrics.TableSummary{{Name: "promotion", Rows: 300, Chunks: 2}},
		Verifications: []metrics.VerifyResult{
			{Table: "promotion", Parallelism: 2, SingleChecksum: "cccc", ChunkedChecksum: "cccc", Match: true},
		},
		Status: metrics.RunStatus{Passed: true, Timestamp: now.Add(time.Second)},
	}
}

func TestJSONReportGenerator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, (&JSONReportGenerator{}).SaveReportToFile(createTestReport(), path))

	loaded, err := ReportFromFilePath(path)
	require.NoError(t, err)
	assert.Equal(t, createTestReport().Metadata.ID, loaded.Metadata.ID)
	assert.Equal(t, int64(300), loaded.TotalRows())
	assert.Len(t, loaded.Verifications, 1)
}

func TestHTMLReportGenerator(t *testing.T) {
	data, err := (&HTMLReportGenerator{}).GenerateRunReport(createTestReport())
	require.NoError(t, err)

	html := string(data)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>dsgen Run Report</title>",
		"Run 3f1c2d4e-0000-4000-8000-000000000001",
		"<td>1-150</td>",
		"<td>151-300</td>",
		"status-pass",
		"PASS",
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "<td>36-35</td>", "skipped chunks are not listed")
}

func TestHTMLReportGenerator_Failure(t *testing.T) {
	rep := createTestReport()
	rep.Verifications[0].Match = false
	rep.Status = metrics.RunStatus{Passed: false, Message: "promotion: chunked output differs"}

	data, err := (&HTMLReportGenerator{}).GenerateRunReport(rep)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FAIL")
	assert.Contains(t, string(data), "promotion: chunked output differs")
}

func TestSaveReports(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "report.json")
	htmlPath := filepath.Join(dir, "report.html")

	require.NoError(t, SaveReports(createTestReport(), jsonPath, htmlPath))
	for _, p := range []string{jsonPath, htmlPath} {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}

	only := filepath.Join(dir, "only.html")
	require.NoError(t, SaveReports(createTestReport(), "", only))
	_, err := os.Stat(only)
	assert.NoError(t, err)
}

func TestReportFromFilePath_Errors(t *testing.T) {
	_, err := ReportFromFilePath(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = ReportFromFilePath(bad)
	assert.Error(t, err)
}
