package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/movie-collector/internal/collector"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_StartAndComplete(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	id, err := st.StartRun(ctx, collector.ModeDownload)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := st.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Equal(t, collector.ModeDownload, run.Mode)
	assert.Nil(t, run.CompletedAt)

	require.NoError(t, st.CompleteRun(ctx, id, collector.RunResult{RawRows: 1000, PreparedRows: 412}))

	run, err = st.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RunStatusComplete, run.Status)
	assert.Equal(t, 1000, run.RawRows)
	assert.Equal(t, 412, run.PreparedRows)
	require.NotNil(t, run.CompletedAt)
	assert.False(t, run.CompletedAt.Before(run.StartedAt))
	assert.Empty(t, run.Error)
}

func TestSQLite_FailRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	id, err := st.StartRun(ctx, collector.ModeCached)
	require.NoError(t, err)
	require.NoError(t, st.FailRun(ctx, id, "persist: file not found"))

	run, err := st.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Equal(t, "persist: file not found", run.Error)
	assert.NotNil(t, run.CompletedAt)
}

func TestSQLite_UnknownRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.GetRun(ctx, "nope")
	assert.True(t, eris.Is(err, ErrNotFound))

	err = st.CompleteRun(ctx, "nope", collector.RunResult{})
	assert.True(t, eris.Is(err, ErrNotFound))

	err = st.FailRun(ctx, "nope", "boom")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for range 3 {
		_, err := st.StartRun(ctx, collector.ModeDownload)
		require.NoError(t, err)
	}

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	runs, err = st.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestSQLite_ListRunsEmpty(t *testing.T) {
	st := newTestSQLiteStore(t)
	runs, err := st.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}
