package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/movie-collector/internal/collector"
	"github.com/sells-group/movie-collector/internal/store"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	done := now.Add(2 * time.Minute)
	runs := []store.Run{
		{
			ID:           "abc12345-6789-0000-0000-000000000000",
			Mode:         collector.ModeDownload,
			Status:       store.RunStatusComplete,
			RawRows:      1000,
			PreparedRows: 412,
			StartedAt:    now,
			CompletedAt:  &done,
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			Mode:      collector.ModeCached,
			Status:    store.RunStatusRunning,
			StartedAt: now.Add(-1 * time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "MODE")
	assert.Contains(t, output, "PREPARED")
	assert.Contains(t, output, "abc12345")
	assert.NotContains(t, output, "abc12345-6789")
	assert.Contains(t, output, "download")
	assert.Contains(t, output, "complete")
	assert.Contains(t, output, "412")
	assert.Contains(t, output, "2m0s")
	assert.Contains(t, output, "2025-06-15 10:30")
	assert.Contains(t, output, "cached")
	assert.Contains(t, output, "running")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
}
