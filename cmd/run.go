package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/movie-collector/internal/collector"
	"github.com/sells-group/movie-collector/internal/config"
	"github.com/sells-group/movie-collector/internal/fetcher"
	"github.com/sells-group/movie-collector/internal/persist"
	"github.com/sells-group/movie-collector/internal/store"
	"github.com/sells-group/movie-collector/internal/table"
)

var runCached bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the collector",
	Long: `Fetches every id in [tmdb.first_id, tmdb.last_id], writes raw/imdb_raw and
prepared/imdb_prepared under data.root. With --cached no requests are made and
the previously prepared table is read back instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, !runCached)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runCached, "cached", false, "read the persisted prepared table instead of downloading")
	rootCmd.AddCommand(runCmd)
}

// runPipeline wires the collector from cfg and runs it once.
func runPipeline(cmd *cobra.Command, downloadNew bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prepared, err := collect(ctx, cfg, downloadNew, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "prepared table: %d rows, %d columns\n", prepared.Len(), len(prepared.Columns()))
	return nil
}

// collect builds a collector from c and runs it. Progress goes to progress.
func collect(ctx context.Context, c *config.Config, downloadNew bool, progress io.Writer) (*table.Table, error) {
	if downloadNew {
		if err := c.RequireAPIKey(); err != nil {
			return nil, err
		}
	}

	format, err := persist.ParseFormat(c.Data.Format)
	if err != nil {
		return nil, err
	}

	var options []collector.Option
	st, err := openStore(ctx, c.Store.SQLitePath)
	if err != nil {
		zap.L().Warn("run history unavailable", zap.Error(err))
	} else {
		defer st.Close() //nolint:errcheck
		options = append(options, collector.WithRunLog(st))
	}

	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: c.TMDB.UserAgent,
		Timeout:   time.Duration(c.TMDB.TimeoutSecs) * time.Second,
	})

	col := collector.New(collector.Options{
		APIKey:      c.TMDB.APIKey,
		BaseURL:     c.TMDB.BaseURL,
		FirstID:     c.TMDB.FirstID,
		LastID:      c.TMDB.LastID,
		DownloadNew: downloadNew,
		Format:      format,
		Progress:    progress,
	}, f, persist.New(c.Data.Root), options...)

	prepared, err := col.Run(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "run")
	}
	return prepared, nil
}

// openStore opens and migrates the run history database.
func openStore(ctx context.Context, path string) (*store.SQLiteStore, error) {
	if path == "" {
		return nil, eris.New("store: no sqlite_path configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, eris.Wrap(err, "store: create directory")
	}
	st, err := store.NewSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}
