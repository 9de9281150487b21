package main

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/TFMV/dsgen/config"
	"github.com/TFMV/dsgen/integrations"
	"github.com/TFMV/dsgen/pkg/core"
	"github.com/TFMV/dsgen/pkg/pipeline"
	"github.com/TFMV/dsgen/pkg/schema"
	"github.com/TFMV/dsgen/pkg/sinks"
	"github.com/TFMV/dsgen/pkg/writers"
)

// outputs opens the sink of every task of a generate run and remembers
// where each chunk went.
type outputs struct {
	cfg config.OutputConfig
	db  *integrations.Database

	mu        sync.Mutex
	targets   map[pipeline.Task]string
	checksums map[pipeline.Task]*sinks.ChecksumSink
}

func newOutputs(cfg config.OutputConfig) (*outputs, error) {
	o := &outputs{
		cfg:       cfg,
		targets:   make(map[pipeline.Task]string),
		checksums: make(map[pipeline.Task]*sinks.ChecksumSink),
	}

	// database targets share one instance across all chunks
	var err error
	switch cfg.Format {
	case "duckdb":
		o.db, err = integrations.NewDuckDB(
			integrations.WithPath(cfg.DuckDBPath),
			integrations.WithDriverPath(cfg.DuckDBDriver))
	case "postgres":
		o.db, err = integrations.NewPostgres(
			integrations.WithPath(cfg.PostgresURI),
			integrations.WithDriverPath(cfg.PostgresLib))
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Sink implements pipeline.SinkFactory. Every chunk is also rendered into
// a checksum of its .dat text, so runs in different formats can be compared.
func (o *outputs) Sink(t *schema.Table, task pipeline.Task, totalChunks int) (core.RowSink, error) {
	sum, err := sinks.NewChecksumSink(o.cfg.Checksum)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	o.checksums[task] = sum
	o.mu.Unlock()

	if o.cfg.Format == "checksum" {
		return sum, nil
	}
	primary, err := o.open(t, task, totalChunks)
	if err != nil {
		return nil, err
	}
	return sinks.Tee{primary, sum}, nil
}

func (o *outputs) open(t *schema.Table, task pipeline.Task, totalChunks int) (core.RowSink, error) {
	switch o.cfg.Format {
	case "dat":
		path := filepath.Join(o.cfg.Dir, sinks.FileName(t.Name, task.Chunk, totalChunks, "dat"))
		o.remember(task, path)
		return sinks.CreateDatFile(path)

	case "duckdb", "postgres":
		w, err := integrations.NewIngestWriter(o.db, t.Name)
		if err != nil {
			return nil, err
		}
		o.remember(task, fmt.Sprintf("%s:%s", o.cfg.Format, t.Name))
		return sinks.NewRecordSink(t, w, o.cfg.BatchSize, nil), nil

	default:
		path := filepath.Join(o.cfg.Dir, sinks.FileName(t.Name, task.Chunk, totalChunks, o.cfg.Format))
		w, err := writers.DefaultFactory.Create(core.WriterConfig{
			Type:      o.cfg.Format,
			Path:      path,
			Table:     t.Name,
			Schema:    t.ArrowSchema(),
			BatchSize: o.cfg.BatchSize,
		})
		if err != nil {
			return nil, err
		}
		o.remember(task, path)
		return sinks.NewRecordSink(t, w, o.cfg.BatchSize, nil), nil
	}
}

func (o *outputs) remember(task pipeline.Task, target string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.targets[task] = target
}

// describe returns the output and checksum recorded for a closed chunk.
func (o *outputs) describe(task pipeline.Task) (target, checksum string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.checksums[task]; ok {
		checksum = s.Sum()
	}
	return o.targets[task], checksum
}

func (o *outputs) Close() error {
	if o.db == nil {
		return nil
	}
	err := o.db.Close()
	o.db = nil
	return err
}
