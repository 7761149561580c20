package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineState(t *testing.T) {
	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	state := NewPipelineState("AAPL", asOf)

	assert.NotEmpty(t, state.RunID)
	assert.Equal(t, "AAPL", state.Subject)
	assert.Equal(t, "2024-03-15", state.AsOf)
	assert.NotNil(t, state.AnalystReports)
	assert.Empty(t, state.DebateTranscript)
	assert.Nil(t, state.FinalDecision)
}

func TestTranscriptsAppendInOrder(t *testing.T) {
	state := NewPipelineState("AAPL", time.Now())

	state.AppendDebateTurn("bull_researcher", 1, "bull opens")
	state.AppendDebateTurn("bear_researcher", 1, "bear counters")
	state.AppendDebateTurn("bull_researcher", 2, "bull rebuts")

	require.Len(t, state.DebateTranscript, 3)
	assert.Equal(t, "bull opens", state.DebateTranscript[0].Text)
	assert.Equal(t, 2, state.DebateTranscript[2].Round)

	state.AppendRiskTurn("risky_analyst", 1, "push harder")
	require.Len(t, state.RiskTranscript, 1)
	assert.Equal(t, "risky_analyst", state.RiskTranscript[0].Role)
}

func TestLatestDebateTurnBy(t *testing.T) {
	state := NewPipelineState("AAPL", time.Now())
	assert.Equal(t, "", state.LatestDebateTurnBy("bear_researcher"))

	state.AppendDebateTurn("bull_researcher", 1, "bull one")
	state.AppendDebateTurn("bear_researcher", 1, "bear one")
	state.AppendDebateTurn("bull_researcher", 2, "bull two")
	state.AppendDebateTurn("bear_researcher", 2, "bear two")

	assert.Equal(t, "bear two", state.LatestDebateTurnBy("bear_researcher"))
	assert.Equal(t, "bull two", state.LatestDebateTurnBy("bull_researcher"))
}
