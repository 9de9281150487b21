package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TFMV/dsgen/api"
	"github.com/TFMV/dsgen/pkg/pipeline"
	"github.com/TFMV/dsgen/pkg/schema"
	"github.com/TFMV/dsgen/pkg/sinks"
)

func newGenerator() *pipeline.Generator {
	return pipeline.New(schema.Default(), schema.DefaultScaling(), pipeline.WithLogger(zap.NewNop()))
}

func newServer() *api.Server {
	return api.NewServer(newGenerator(), api.ServerOptions{Scale: 1})
}

func get(t *testing.T, s *api.Server, target string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp, err := s.GetApp().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealthEndpoint(t *testing.T) {
	resp, body := get(t, newServer(), "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

type versionResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Build   string `json:"build"`
	Time    string `json:"time"`
}

func TestVersionEndpoint(t *testing.T) {
	resp, body := get(t, newServer(), "/version")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var v versionResponse
	require.NoError(t, json.Unmarshal(body, &v))
	assert.Equal(t, "dsgen API", v.Service)
	assert.NotEmpty(t, v.Version)
	assert.NotEmpty(t, v.Build)
	assert.NotEmpty(t, v.Time)
}

func TestTablesEndpoint(t *testing.T) {
	resp, body := get(t, newServer(), "/tables?scale=10")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tables []struct {
		Name    string `json:"name"`
		Rows    int64  `json:"rows"`
		Columns []struct {
			Name string `json:"name"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(body, &tables))
	require.Len(t, tables, len(schema.Default().Tables()))

	rows := map[string]int64{}
	for _, tbl := range tables {
		rows[tbl.Name] = tbl.Rows
		assert.NotEmpty(t, tbl.Columns, tbl.Name)
	}
	assert.Equal(t, int64(500), rows[schema.Promotion])
	assert.Equal(t, int64(20), rows[schema.IncomeBand])
}

func TestPlanEndpoint(t *testing.T) {
	resp, body := get(t, newServer(), "/tables/promotion/plan?parallelism=10")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var plan struct {
		Rows   int64 `json:"rows"`
		Chunks []struct {
			Chunk    int   `json:"chunk"`
			FirstRow int64 `json:"first_row"`
			LastRow  int64 `json:"last_row"`
			Rows     int64 `json:"rows"`
		} `json:"chunks"`
	}
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.Equal(t, int64(300), plan.Rows)
	require.Len(t, plan.Chunks, 10)
	assert.Equal(t, 8, plan.Chunks[7].Chunk)
	assert.Equal(t, int64(211), plan.Chunks[7].FirstRow)
	assert.Equal(t, int64(240), plan.Chunks[7].LastRow)
	assert.Equal(t, int64(30), plan.Chunks[7].Rows)
}

func TestChunkEndpoint(t *testing.T) {
	var want bytes.Buffer
	sink := sinks.NewDatSink(&want)
	_, err := newGenerator().GenerateChunk(context.Background(), schema.Promotion, 1, 4, 2, sink)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	resp, body := get(t, newServer(), "/tables/promotion/chunks/2?parallelism=4")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "promotion_2_4.dat")
	assert.Equal(t, want.String(), string(body))
}

func TestChunkEndpoint_Errors(t *testing.T) {
	s := newServer()
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown table", "/tables/store_sales/chunks/1", http.StatusNotFound},
		{"chunk out of range", "/tables/reason/chunks/5?parallelism=4", http.StatusBadRequest},
		{"chunk not a number", "/tables/reason/chunks/x", http.StatusBadRequest},
		{"bad scale", "/tables/reason/chunks/1?scale=big", http.StatusBadRequest},
		{"bad parallelism", "/tables/reason/plan?parallelism=0", http.StatusBadRequest},
		{"huge plan parallelism", "/tables/reason/plan?parallelism=1099511627776", http.StatusBadRequest},
		{"huge checksum parallelism", "/tables/reason/checksum?parallelism=1000000000000", http.StatusBadRequest},
		{"huge chunk parallelism", "/tables/reason/chunks/1?parallelism=10001", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, s, tt.target)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, string(body), `"error"`)
		})
	}
}

func TestChecksumEndpoint_IndependentOfParallelism(t *testing.T) {
	s := newServer()
	sums := map[string]bool{}
	for _, p := range []string{"1", "7", "40"} {
		resp, body := get(t, s, "/tables/warehouse/checksum?parallelism="+p)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			Rows     int64  `json:"rows"`
			Checksum string `json:"checksum"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, int64(5), out.Rows)
		sums[out.Checksum] = true
	}
	assert.Len(t, sums, 1)

	resp, _ := get(t, s, "/tables/warehouse/checksum?algorithm=sha1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestParallelismCeiling(t *testing.T) {
	s := newServer()
	resp, body := get(t, s, fmt.Sprintf("/tables/reason/plan?parallelism=%d", api.MaxParallelism))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var plan struct {
		Chunks []json.RawMessage `json:"chunks"`
	}
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.Len(t, plan.Chunks, api.MaxParallelism)

	resp, body = get(t, s, fmt.Sprintf("/tables/reason/checksum?parallelism=%d", api.MaxParallelism+1))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "parallelism must be between 1 and 10000")
}

func TestGenerationStopsWithServerContext(t *testing.T) {
	s := newServer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.SetContext(ctx)

	resp, body := get(t, s, "/tables/promotion/checksum")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), context.Canceled.Error())

	resp, body = get(t, s, "/tables/promotion/chunks/1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
}
