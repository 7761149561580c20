package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, RunRecord{
		RunID: "run-1", Symbol: "AAPL", AsOf: "2024-03-15",
		Action: "BUY", Confidence: 0.72, Rationale: "strong earnings",
		DebateRounds: 1, RiskRounds: 1, CreatedAt: "2024-03-15T10:00:00Z",
	}))
	require.NoError(t, store.SaveRun(ctx, RunRecord{
		RunID: "run-2", Symbol: "MSFT", AsOf: "2024-03-16",
		Action: "HOLD", Confidence: 0.41, Rationale: "mixed signals",
		DebateRounds: 2, RiskRounds: 1, CreatedAt: "2024-03-16T10:00:00Z",
	}))

	records, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "run-2", records[0].RunID)
	assert.Equal(t, "MSFT", records[0].Symbol)
	assert.Equal(t, "HOLD", records[0].Action)
	assert.Equal(t, "run-1", records[1].RunID)
	assert.InDelta(t, 0.72, records[1].Confidence, 1e-9)
}

func TestRecentRunsHonorsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveRun(ctx, RunRecord{
			RunID: string(rune('a' + i)), Symbol: "AAPL", AsOf: "2024-03-15",
			Action: "HOLD", Confidence: 0.5, Rationale: "r",
		}))
	}

	records, err := store.RecentRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestDuplicateRunIDRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := RunRecord{RunID: "dup", Symbol: "AAPL", AsOf: "2024-03-15", Action: "BUY", Confidence: 0.6, Rationale: "r"}
	require.NoError(t, store.SaveRun(ctx, rec))
	assert.Error(t, store.SaveRun(ctx, rec))
}
