package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordWritesMarkdownReport(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder(dir, zerolog.Nop())

	rec.Record("AAPL", "2024-03-15", "market_analyst_report", "# Market Report\n\nbody")

	data, err := os.ReadFile(filepath.Join(dir, "AAPL", "2024-03-15", "market_analyst_report.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Market Report\n\nbody", string(data))
}

func TestRecordFailureDoesNotPanic(t *testing.T) {
	// The results root is a regular file, so directory creation fails.
	blocked := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocked, nil, 0644))
	rec := NewRecorder(blocked, zerolog.Nop())

	assert.NotPanics(t, func() {
		rec.Record("AAPL", "2024-03-15", "report", "content")
	})
}
