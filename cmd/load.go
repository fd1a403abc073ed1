package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/movie-collector/internal/collector"
	"github.com/sells-group/movie-collector/internal/db"
	"github.com/sells-group/movie-collector/internal/persist"
)

var (
	loadSchema string
	loadTable  string
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the prepared table into Postgres",
	Long:  "Replaces warehouse.schema.warehouse.table with the persisted prepared table using COPY.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		schema, name := cfg.Warehouse.Schema, cfg.Warehouse.Table
		if loadSchema != "" {
			schema = loadSchema
		}
		if loadTable != "" {
			name = loadTable
		}

		format, err := persist.ParseFormat(cfg.Data.Format)
		if err != nil {
			return err
		}
		prepared, err := persist.New(cfg.Data.Root).Read(ctx, collector.PreparedName, persist.SubdirPrepared,
			persist.Options{Format: format})
		if err != nil {
			return eris.Wrap(err, "load: read prepared table")
		}

		pool, err := warehousePool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		n, err := db.LoadTable(ctx, pool, schema, name, prepared)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d rows into %s.%s\n", n, schema, name)
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadSchema, "schema", "", "target schema (default warehouse.schema)")
	loadCmd.Flags().StringVar(&loadTable, "table", "", "target table (default warehouse.table)")
	rootCmd.AddCommand(loadCmd)
}

func warehousePool(ctx context.Context) (*pgxpool.Pool, error) {
	dsn := cfg.Warehouse.DatabaseURL
	if dsn == "" {
		return nil, eris.New("load: no database_url configured (set warehouse.database_url or DATABASE_URL)")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "load: create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "load: ping database")
	}
	return pool, nil
}
