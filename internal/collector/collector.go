// Package collector runs the catalog pipeline: fetch, persist raw, transform, persist prepared.
package collector

import (
	"context"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/movie-collector/internal/fetcher"
	"github.com/sells-group/movie-collector/internal/persist"
	"github.com/sells-group/movie-collector/internal/table"
	"github.com/sells-group/movie-collector/internal/transform"
)

// Output table names.
const (
	RawName      = "imdb_raw"
	PreparedName = "imdb_prepared"
)

// Run modes recorded in the run log.
const (
	ModeDownload = "download"
	ModeCached   = "cached"
)

// Options configures a Collector. Nothing is read from the environment.
type Options struct {
	APIKey      string
	BaseURL     string
	FirstID     int
	LastID      int
	DownloadNew bool
	Format      persist.Format
	Progress    io.Writer
}

// RunResult summarizes a finished run.
type RunResult struct {
	RawRows      int `json:"raw_rows"`
	PreparedRows int `json:"prepared_rows"`
}

// RunLog records the lifecycle of each run.
type RunLog interface {
	StartRun(ctx context.Context, mode string) (string, error)
	CompleteRun(ctx context.Context, runID string, result RunResult) error
	FailRun(ctx context.Context, runID string, errMsg string) error
}

// Option configures optional Collector collaborators.
type Option func(*Collector)

// WithRunLog records each run in log.
func WithRunLog(log RunLog) Option {
	return func(c *Collector) {
		c.runLog = log
	}
}

// Collector orchestrates one pipeline run.
type Collector struct {
	opts      Options
	fetcher   fetcher.Fetcher
	persister *persist.Persister
	runLog    RunLog
}

// New creates a Collector.
func New(opts Options, f fetcher.Fetcher, p *persist.Persister, options ...Option) *Collector {
	c := &Collector{opts: opts, fetcher: f, persister: p}
	for _, o := range options {
		o(c)
	}
	return c
}

// Run executes the pipeline and returns the prepared table. In cached mode it
// only reads the persisted prepared table back. Any failing step ends the run;
// files written by earlier steps are left in place.
func (c *Collector) Run(ctx context.Context) (*table.Table, error) {
	mode := ModeCached
	if c.opts.DownloadNew {
		mode = ModeDownload
	}
	log := zap.L().With(zap.String("mode", mode))
	start := time.Now()

	runID := c.startRun(ctx, mode)

	var (
		prepared *table.Table
		result   RunResult
		err      error
	)
	if c.opts.DownloadNew {
		prepared, result, err = c.download(ctx)
	} else {
		prepared, err = c.persister.Read(ctx, PreparedName, persist.SubdirPrepared, c.writeOptions())
		if err == nil {
			result.PreparedRows = prepared.Len()
		}
	}

	if err != nil {
		c.failRun(ctx, runID, err)
		return nil, eris.Wrapf(err, "collector: %s run", mode)
	}

	c.completeRun(ctx, runID, result)
	log.Info("run complete",
		zap.Int("raw_rows", result.RawRows),
		zap.Int("prepared_rows", result.PreparedRows),
		zap.Duration("elapsed", time.Since(start)),
	)
	return prepared, nil
}

func (c *Collector) download(ctx context.Context) (*table.Table, RunResult, error) {
	var result RunResult

	raw, err := fetcher.FetchCatalog(ctx, c.fetcher, fetcher.CatalogOptions{
		BaseURL:  c.opts.BaseURL,
		APIKey:   c.opts.APIKey,
		FirstID:  c.opts.FirstID,
		LastID:   c.opts.LastID,
		Progress: c.opts.Progress,
	})
	if err != nil {
		return nil, result, err
	}
	result.RawRows = raw.Len()

	if err := c.persister.Write(raw, RawName, persist.SubdirRaw, c.writeOptions()); err != nil {
		return nil, result, err
	}

	prepared, err := Prepare(raw)
	if err != nil {
		return nil, result, err
	}
	result.PreparedRows = prepared.Len()

	if err := c.persister.Write(prepared, PreparedName, persist.SubdirPrepared, c.writeOptions()); err != nil {
		return nil, result, err
	}
	return prepared, result, nil
}

// Prepare applies Project, ExplodeGenres, and DeriveDatetime in order.
func Prepare(raw *table.Table) (*table.Table, error) {
	projected := transform.Project(raw)

	exploded, err := transform.ExplodeGenres(projected)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("genres exploded",
		zap.Int("rows_in", projected.Len()),
		zap.Int("rows_out", exploded.Len()),
	)

	return transform.DeriveDatetime(exploded)
}

func (c *Collector) writeOptions() persist.Options {
	return persist.Options{Index: false, Format: c.opts.Format}
}

func (c *Collector) startRun(ctx context.Context, mode string) string {
	if c.runLog == nil {
		return ""
	}
	id, err := c.runLog.StartRun(ctx, mode)
	if err != nil {
		zap.L().Warn("run log: start failed", zap.Error(err))
		return ""
	}
	return id
}

func (c *Collector) completeRun(ctx context.Context, runID string, result RunResult) {
	if c.runLog == nil || runID == "" {
		return
	}
	if err := c.runLog.CompleteRun(ctx, runID, result); err != nil {
		zap.L().Warn("run log: complete failed", zap.String("run_id", runID), zap.Error(err))
	}
}

func (c *Collector) failRun(ctx context.Context, runID string, runErr error) {
	if c.runLog == nil || runID == "" {
		return
	}
	if err := c.runLog.FailRun(ctx, runID, runErr.Error()); err != nil {
		zap.L().Warn("run log: fail failed", zap.String("run_id", runID), zap.Error(err))
	}
}
