// Package api serves chunk plans and generated chunks over HTTP.
package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/TFMV/dsgen/logger"
	"github.com/TFMV/dsgen/pkg/parallel"
	"github.com/TFMV/dsgen/pkg/pipeline"
	"github.com/TFMV/dsgen/pkg/schema"
	"github.com/TFMV/dsgen/pkg/sinks"
	"github.com/TFMV/dsgen/version"
)

// MaxParallelism bounds the parallelism query parameter.
const MaxParallelism = 10000

// ServerOptions configures a Server.
type ServerOptions struct {
	Port    string
	Prefork bool

	// Scale is used when a request has no scale parameter.
	Scale float64

	// AccessLog enables the per-request log middleware.
	AccessLog bool
}

// Server holds the Fiber app instance
type Server struct {
	app  *fiber.App
	gen  *pipeline.Generator
	opts ServerOptions
	log  *zap.Logger

	// ctx bounds generation started by handlers; Start replaces it.
	ctx context.Context
}

// NewServer builds the routes around gen.
func NewServer(gen *pipeline.Generator, opts ServerOptions) *Server {
	if opts.Port == "" {
		opts.Port = "8080"
	}
	app := fiber.New(fiber.Config{
		IdleTimeout:           10 * time.Second,
		ReadTimeout:           10 * time.Second,
		Prefork:               opts.Prefork,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New())
	}

	s := &Server{app: app, gen: gen, opts: opts, log: logger.GetLogger(), ctx: context.Background()}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/version", s.handleVersion)
	app.Get("/tables", s.handleTables)
	app.Get("/tables/:table/plan", s.handlePlan)
	app.Get("/tables/:table/chunks/:chunk", s.handleChunk)
	app.Get("/tables/:table/checksum", s.handleChecksum)

	return s
}

// GetApp exposes the Fiber app, mainly for app.Test.
func (s *Server) GetApp() *fiber.App {
	return s.app
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.ctx = ctx
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dsgen API listening", zap.String("port", s.opts.Port))
		errCh <- s.app.Listen(":" + s.opts.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down dsgen API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, schema.ErrUnknownTable):
		code = fiber.StatusNotFound
	case errors.Is(err, parallel.ErrInvalidChunk), errors.Is(err, schema.ErrInvalidScale):
		code = fiber.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) handleVersion(c *fiber.Ctx) error {
	info := version.Get()
	return c.JSON(fiber.Map{
		"service": "dsgen API",
		"version": info.Version,
		"build":   info.BuildDate,
		"go":      info.GoVersion,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

type columnInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	NotNull      bool   `json:"not_null"`
	GlobalNumber int    `json:"global_number"`
	SeedsPerRow  int    `json:"seeds_per_row"`
}

type tableInfo struct {
	Name    string       `json:"name"`
	Rows    int64        `json:"rows"`
	Small   bool         `json:"small"`
	Columns []columnInfo `json:"columns"`
}

func (s *Server) handleTables(c *fiber.Ctx) error {
	scale, err := s.scale(c)
	if err != nil {
		return err
	}
	var out []tableInfo
	for _, t := range s.gen.Schema().Tables() {
		n, err := s.gen.RowCount(t.Name, scale)
		if err != nil {
			return err
		}
		info := tableInfo{Name: t.Name, Rows: n, Small: t.Small}
		for _, col := range t.Columns {
			info.Columns = append(info.Columns, columnInfo{
				Name:         col.Name,
				Type:         col.Type.String(),
				NotNull:      col.NotNull,
				GlobalNumber: col.GlobalNumber,
				SeedsPerRow:  col.SeedsPerRow,
			})
		}
		out = append(out, info)
	}
	return c.JSON(out)
}

type planChunk struct {
	Chunk int `json:"chunk"`
	parallel.ChunkBoundaries
	Rows int64 `json:"rows"`
}

func (s *Server) handlePlan(c *fiber.Ctx) error {
	table := c.Params("table")
	scale, err := s.scale(c)
	if err != nil {
		return err
	}
	total, err := parallelism(c)
	if err != nil {
		return err
	}
	n, err := s.gen.RowCount(table, scale)
	if err != nil {
		return err
	}
	chunks := make([]planChunk, 0, total)
	for chunk := 1; chunk <= total; chunk++ {
		b, err := s.gen.ChunkRows(table, scale, total, chunk)
		if err != nil {
			return err
		}
		chunks = append(chunks, planChunk{Chunk: chunk, ChunkBoundaries: b, Rows: b.Len()})
	}
	return c.JSON(fiber.Map{
		"table":       table,
		"scale":       scale,
		"rows":        n,
		"parallelism": total,
		"chunks":      chunks,
	})
}

// handleChunk streams one chunk as .dat text.
func (s *Server) handleChunk(c *fiber.Ctx) error {
	table := c.Params("table")
	chunk, err := c.ParamsInt("chunk")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "chunk must be an integer")
	}
	scale, err := s.scale(c)
	if err != nil {
		return err
	}
	total, err := parallelism(c)
	if err != nil {
		return err
	}
	// reject bad requests before the status line is sent
	if _, err := s.gen.ChunkRows(table, scale, total, chunk); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", sinks.FileName(table, chunk, total, "dat")))
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		sink := sinks.NewDatSink(w)
		res, err := s.gen.GenerateChunk(s.ctx, table, scale, total, chunk, sink)
		if cerr := sink.Close(); err == nil {
			err = cerr
		}
		if err == nil {
			err = w.Flush()
		}
		if err != nil {
			s.log.Error("chunk stream failed",
				zap.String("table", table),
				zap.Int("chunk", chunk),
				zap.Error(err))
			return
		}
		s.log.Debug("chunk streamed",
			zap.String("table", table),
			zap.Int("chunk", chunk),
			zap.Int64("rows", res.RowCount))
	})
	return nil
}

func (s *Server) handleChecksum(c *fiber.Ctx) error {
	table := c.Params("table")
	scale, err := s.scale(c)
	if err != nil {
		return err
	}
	total, err := parallelism(c)
	if err != nil {
		return err
	}
	sink, err := sinks.NewChecksumSink(c.Query("algorithm", sinks.MD5))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	for chunk := 1; chunk <= total; chunk++ {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		if _, err := s.gen.GenerateChunk(s.ctx, table, scale, total, chunk, sink); err != nil {
			return err
		}
	}
	if err := sink.Close(); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"table":       table,
		"scale":       scale,
		"parallelism": total,
		"algorithm":   sink.Algorithm(),
		"rows":        sink.Rows(),
		"checksum":    sink.Sum(),
	})
}

func (s *Server) scale(c *fiber.Ctx) (float64, error) {
	raw := c.Query("scale")
	if raw == "" {
		return s.opts.Scale, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid scale %q", raw))
	}
	return v, nil
}

func parallelism(c *fiber.Ctx) (int, error) {
	p, err := queryInt(c, "parallelism", 1)
	if err != nil {
		return 0, err
	}
	if p < 1 || p > MaxParallelism {
		return 0, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("parallelism must be between 1 and %d, got %d", MaxParallelism, p))
	}
	return p, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid %s %q", key, raw))
	}
	return v, nil
}
