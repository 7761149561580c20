package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecouncil/internal/models"
)

func TestProcessExtractsExplicitProposal(t *testing.T) {
	sp := NewSignalProcessor()

	cases := []struct {
		name    string
		verdict string
		want    string
	}{
		{"plain marker", "After weighing both sides. FINAL TRANSACTION PROPOSAL: BUY", models.ActionBuy},
		{"bold marker", "Risk outweighs reward here. FINAL TRANSACTION PROPOSAL: **SELL**", models.ActionSell},
		{"lowercase marker", "No clear edge. final transaction proposal: hold", models.ActionHold},
		{"marker mid-text", "FINAL TRANSACTION PROPOSAL: **BUY**\nRationale follows below.", models.ActionBuy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := sp.Process("AAPL", tc.verdict, "2024-03-15")
			assert.Equal(t, tc.want, decision.Action)
		})
	}
}

func TestProcessMarkerWinsOverKeywords(t *testing.T) {
	sp := NewSignalProcessor()

	// Bearish vocabulary everywhere, but the explicit marker says BUY.
	verdict := "The bearish case is strong: overvalued, decline likely, many would sell. " +
		"Still, the growth catalysts dominate. FINAL TRANSACTION PROPOSAL: **BUY**"
	decision := sp.Process("NVDA", verdict, "2024-06-03")
	assert.Equal(t, models.ActionBuy, decision.Action)
}

func TestProcessKeywordFallback(t *testing.T) {
	sp := NewSignalProcessor()

	buy := sp.Process("AAPL", "The stock is undervalued with strong growth potential; I would purchase shares.", "2024-03-15")
	assert.Equal(t, models.ActionBuy, buy.Action)

	sell := sp.Process("AAPL", "Overvalued and overbought; expect a decline, divest now.", "2024-03-15")
	assert.Equal(t, models.ActionSell, sell.Action)

	hold := sp.Process("AAPL", "Best to wait and maintain a neutral stance for now.", "2024-03-15")
	assert.Equal(t, models.ActionHold, hold.Action)
}

func TestProcessAmbiguousDefaultsToHold(t *testing.T) {
	sp := NewSignalProcessor()

	decision := sp.Process("AAPL", "The committee reviewed the discussion at length.", "2024-03-15")
	assert.Equal(t, models.ActionHold, decision.Action)
}

func TestProcessPreservesVerdictAsRationale(t *testing.T) {
	sp := NewSignalProcessor()

	verdict := "  Detailed reasoning here. FINAL TRANSACTION PROPOSAL: **HOLD**  "
	decision := sp.Process("MSFT", verdict, "2024-01-15")
	require.NotNil(t, decision)
	assert.Equal(t, "Detailed reasoning here. FINAL TRANSACTION PROPOSAL: **HOLD**", decision.Rationale)
	assert.Equal(t, "MSFT", decision.Symbol)
	assert.Equal(t, "2024-01-15", decision.Timestamp)
}

func TestConfidenceBounds(t *testing.T) {
	sp := NewSignalProcessor()

	sparse := sp.Process("AAPL", "FINAL TRANSACTION PROPOSAL: BUY followed by a very long rationale "+
		"that repeats nothing actionable and mostly discusses macro conditions in general terms without "+
		"using any directional language at all whatsoever", "2024-03-15")
	assert.GreaterOrEqual(t, sparse.Confidence, 0.1)
	assert.LessOrEqual(t, sparse.Confidence, 1.0)

	dense := sp.Process("AAPL", "buy buy buy bullish long invest", "2024-03-15")
	assert.Equal(t, 1.0, dense.Confidence)

	empty := sp.Process("AAPL", "", "2024-03-15")
	assert.Equal(t, 0.5, empty.Confidence)
	assert.Equal(t, models.ActionHold, empty.Action)
}
