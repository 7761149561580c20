package graph_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecouncil/consts"
	"tradecouncil/internal/agents/analysts"
	"tradecouncil/internal/agents/managers"
	"tradecouncil/internal/agents/researchers"
	"tradecouncil/internal/agents/risk"
	"tradecouncil/internal/agents/trader"
	"tradecouncil/internal/config"
	"tradecouncil/internal/graph"
	"tradecouncil/internal/models"
	"tradecouncil/internal/storage"
)

// fakeChatModel returns scripted completions. The respond function receives
// the zero-based call index; concurrent callers see unique indexes.
type fakeChatModel struct {
	mu      sync.Mutex
	calls   int
	respond func(call int, input []*schema.Message) (string, error)
}

func (m *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	call := m.calls
	m.calls++
	m.mu.Unlock()

	text, err := m.respond(call, input)
	if err != nil {
		return nil, err
	}
	return schema.AssistantMessage(text, nil), nil
}

func (m *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func alwaysRespond(text string) *fakeChatModel {
	return &fakeChatModel{respond: func(int, []*schema.Message) (string, error) {
		return text, nil
	}}
}

// fakeToolkit returns canned data, with per-source failure switches.
type fakeToolkit struct {
	failMarket       bool
	failNews         bool
	failSentiment    bool
	failFundamentals bool
}

func (t *fakeToolkit) FetchMarketData(ctx context.Context, symbol string, asOf time.Time) (string, error) {
	if t.failMarket {
		return "", fmt.Errorf("%w: market feed offline", models.ErrDataUnavailable)
	}
	return "OHLCV data for " + symbol, nil
}

func (t *fakeToolkit) FetchNews(ctx context.Context, symbol string, asOf time.Time) (string, error) {
	if t.failNews {
		return "", fmt.Errorf("%w: news feed offline", models.ErrDataUnavailable)
	}
	return "headlines for " + symbol, nil
}

func (t *fakeToolkit) FetchSentiment(ctx context.Context, symbol string, asOf time.Time) (string, error) {
	if t.failSentiment {
		return "", fmt.Errorf("%w: sentiment feed offline", models.ErrDataUnavailable)
	}
	return "sentiment for " + symbol, nil
}

func (t *fakeToolkit) FetchFundamentals(ctx context.Context, symbol string, asOf time.Time) (string, error) {
	if t.failFundamentals {
		return "", fmt.Errorf("%w: fundamentals feed offline", models.ErrDataUnavailable)
	}
	return "financial metrics for " + symbol, nil
}

type fakeRetriever struct {
	result *models.RetrievalResult
	err    error
}

func (r *fakeRetriever) Retrieve(ctx context.Context, query string, topK int) (*models.RetrievalResult, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func newTestGraph(t *testing.T, cm model.BaseChatModel, tk *fakeToolkit, retr analysts.ContextRetriever, debateRounds, riskRounds int) *graph.TradingGraph {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{
		MaxDebateRounds: debateRounds,
		MaxRiskRounds:   riskRounds,
		RAGTopK:         5,
	}

	deps := graph.Deps{
		Analysts: []analysts.Analyst{
			analysts.NewMarketAnalyst(cm, tk, logger),
			analysts.NewSocialMediaAnalyst(cm, tk, logger),
			analysts.NewNewsAnalyst(cm, tk, logger),
			analysts.NewFundamentalsAnalyst(cm, tk, retr, cfg.RAGTopK, logger),
		},
		Bull:    researchers.NewBullResearcher(cm, logger),
		Bear:    researchers.NewBearResearcher(cm, logger),
		Manager: managers.NewResearchManager(cm, logger),
		Trader:  trader.NewTrader(cm, logger),
		RiskAnalysts: []*risk.Analyst{
			risk.NewRiskyAnalyst(cm, logger),
			risk.NewNeutralAnalyst(cm, logger),
			risk.NewSafeAnalyst(cm, logger),
		},
		Judge:    risk.NewJudge(cm, logger),
		Recorder: storage.NewRecorder(t.TempDir(), logger),
	}

	return graph.NewTradingGraph(deps, cfg, logger)
}

func TestPropagateProducesDecision(t *testing.T) {
	cm := alwaysRespond("Strong momentum across the board. FINAL TRANSACTION PROPOSAL: **BUY**")
	tg := newTestGraph(t, cm, &fakeToolkit{}, nil, 1, 1)

	state, decision, err := tg.Propagate(context.Background(), "NVDA", "2024-06-03")
	require.NoError(t, err)
	require.NotNil(t, state)
	require.NotNil(t, decision)

	assert.Len(t, state.AnalystReports, 4)
	for _, role := range []string{consts.MarketAnalyst, consts.SocialMediaAnalyst, consts.NewsAnalyst, consts.FundamentalsAnalyst} {
		assert.Contains(t, state.AnalystReports, role)
		assert.NotContains(t, state.AnalystReports[role], "[analysis unavailable")
	}

	assert.Equal(t, models.ActionBuy, decision.Action)
	assert.Equal(t, "NVDA", decision.Symbol)
	assert.Equal(t, "2024-06-03", decision.Timestamp)
	assert.GreaterOrEqual(t, decision.Confidence, 0.1)
	assert.LessOrEqual(t, decision.Confidence, 1.0)
	assert.Same(t, state.FinalDecision, decision)

	assert.NotEmpty(t, state.ResearchRecommendation)
	assert.NotEmpty(t, state.ProposedAction)
	assert.NotEmpty(t, state.RunID)
}

func TestSingleAnalystFailureDegradesToMarker(t *testing.T) {
	cm := alwaysRespond("Fundamentals look fine. FINAL TRANSACTION PROPOSAL: **HOLD**")
	tg := newTestGraph(t, cm, &fakeToolkit{failNews: true}, nil, 1, 1)

	state, decision, err := tg.Propagate(context.Background(), "AAPL", "2024-03-15")
	require.NoError(t, err)
	require.NotNil(t, decision)

	report := state.AnalystReports[consts.NewsAnalyst]
	assert.True(t, strings.HasPrefix(report, "[analysis unavailable:"), "got %q", report)
	assert.Contains(t, report, "news feed offline")

	assert.NotContains(t, state.AnalystReports[consts.MarketAnalyst], "[analysis unavailable")
	assert.NotContains(t, state.AnalystReports[consts.SocialMediaAnalyst], "[analysis unavailable")
	assert.NotContains(t, state.AnalystReports[consts.FundamentalsAnalyst], "[analysis unavailable")
}

func TestAllAnalystsFailedAbortsRun(t *testing.T) {
	cm := alwaysRespond("never reached")
	tk := &fakeToolkit{failMarket: true, failNews: true, failSentiment: true, failFundamentals: true}
	tg := newTestGraph(t, cm, tk, nil, 1, 1)

	state, decision, err := tg.Propagate(context.Background(), "AAPL", "2024-03-15")
	require.Error(t, err)
	assert.Nil(t, state)
	assert.Nil(t, decision)

	assert.ErrorIs(t, err, models.ErrAllAnalystsFailed)

	var stageErr *models.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, consts.StageAnalysts, stageErr.Stage)
}

func TestDebateAlternatesForExactRounds(t *testing.T) {
	cm := alwaysRespond("Argument text. FINAL TRANSACTION PROPOSAL: **BUY**")
	tg := newTestGraph(t, cm, &fakeToolkit{}, nil, 3, 2)

	state, _, err := tg.Propagate(context.Background(), "MSFT", "2024-01-15")
	require.NoError(t, err)

	require.Len(t, state.DebateTranscript, 6)
	assert.Equal(t, 3, state.DebateRounds)
	for i, entry := range state.DebateTranscript {
		wantRole := consts.BullResearcher
		if i%2 == 1 {
			wantRole = consts.BearResearcher
		}
		assert.Equal(t, wantRole, entry.Role, "turn %d", i)
		assert.Equal(t, i/2+1, entry.Round, "turn %d", i)
	}

	require.Len(t, state.RiskTranscript, 6)
	assert.Equal(t, 2, state.RiskRounds)
	cycle := []string{consts.RiskyAnalyst, consts.NeutralAnalyst, consts.SafeAnalyst}
	for i, entry := range state.RiskTranscript {
		assert.Equal(t, cycle[i%3], entry.Role, "turn %d", i)
		assert.Equal(t, i/3+1, entry.Round, "turn %d", i)
	}
}

func TestTwoDebateOneRiskScenario(t *testing.T) {
	cm := alwaysRespond("Momentum and valuation both favor entry. FINAL TRANSACTION PROPOSAL: **BUY**")
	tg := newTestGraph(t, cm, &fakeToolkit{}, nil, 2, 1)

	state, decision, err := tg.Propagate(context.Background(), "MSFT", "2024-05-10")
	require.NoError(t, err)

	assert.Len(t, state.DebateTranscript, 4)
	assert.Len(t, state.RiskTranscript, 3)
	assert.Contains(t, []string{models.ActionBuy, models.ActionSell, models.ActionHold}, decision.Action)
	assert.NotEmpty(t, decision.Rationale)
}

func TestZeroDebateRoundsGoesStraightToSynthesis(t *testing.T) {
	cm := alwaysRespond("Decide from reports alone. FINAL TRANSACTION PROPOSAL: **SELL**")
	tg := newTestGraph(t, cm, &fakeToolkit{}, nil, 0, 1)

	state, decision, err := tg.Propagate(context.Background(), "TSLA", "2024-02-01")
	require.NoError(t, err)

	assert.Empty(t, state.DebateTranscript)
	assert.Equal(t, 0, state.DebateRounds)
	assert.NotEmpty(t, state.ResearchRecommendation)
	assert.Equal(t, models.ActionSell, decision.Action)
}

func TestZeroRiskRoundsGoesStraightToJudge(t *testing.T) {
	cm := alwaysRespond("Proposal stands. FINAL TRANSACTION PROPOSAL: **HOLD**")
	tg := newTestGraph(t, cm, &fakeToolkit{}, nil, 1, 0)

	state, decision, err := tg.Propagate(context.Background(), "TSLA", "2024-02-01")
	require.NoError(t, err)

	assert.Empty(t, state.RiskTranscript)
	assert.Equal(t, 0, state.RiskRounds)
	assert.Equal(t, models.ActionHold, decision.Action)
}

func TestGenerationFailureIsFatal(t *testing.T) {
	cm := &fakeChatModel{respond: func(int, []*schema.Message) (string, error) {
		return "", errors.New("provider unreachable")
	}}
	tg := newTestGraph(t, cm, &fakeToolkit{}, nil, 1, 1)

	state, decision, err := tg.Propagate(context.Background(), "AAPL", "2024-03-15")
	require.Error(t, err)
	assert.Nil(t, state)
	assert.Nil(t, decision)
	assert.ErrorIs(t, err, models.ErrGenerationFailed)
}

func TestDebateFailureNamesStageAndRole(t *testing.T) {
	// Four analyst completions succeed, then the bull's opening turn fails.
	cm := &fakeChatModel{respond: func(call int, _ []*schema.Message) (string, error) {
		if call >= 4 {
			return "", errors.New("provider unreachable")
		}
		return "analyst report", nil
	}}
	tg := newTestGraph(t, cm, &fakeToolkit{}, nil, 2, 1)

	_, _, err := tg.Propagate(context.Background(), "AAPL", "2024-03-15")
	require.Error(t, err)

	var stageErr *models.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, consts.StageDebate, stageErr.Stage)
	assert.Equal(t, consts.BullResearcher, stageErr.Role)
	assert.Equal(t, 1, stageErr.Round)
	assert.ErrorIs(t, err, models.ErrGenerationFailed)
}

func TestCancelledContextStopsBetweenStages(t *testing.T) {
	cm := alwaysRespond("text. FINAL TRANSACTION PROPOSAL: **BUY**")
	tg := newTestGraph(t, cm, &fakeToolkit{}, nil, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, decision, err := tg.Propagate(ctx, "AAPL", "2024-03-15")
	require.Error(t, err)
	assert.Nil(t, state)
	assert.Nil(t, decision)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetrievalBundleRecordedInState(t *testing.T) {
	result := &models.RetrievalResult{
		Query:      "NVDA fundamental analysis financial statements filings earnings",
		Context:    "=== RELEVANT CONTEXT FROM KNOWLEDGE BASE ===\n...\n=== END OF CONTEXT ===\n",
		NumResults: 2,
		Documents: []models.RetrievedDocument{
			{Content: "doc one", Rank: 1, SimilarityScore: 0.81},
			{Content: "doc two", Rank: 2, SimilarityScore: 0.44},
		},
	}
	cm := alwaysRespond("text. FINAL TRANSACTION PROPOSAL: **BUY**")
	tg := newTestGraph(t, cm, &fakeToolkit{}, &fakeRetriever{result: result}, 1, 1)

	state, _, err := tg.Propagate(context.Background(), "NVDA", "2024-06-03")
	require.NoError(t, err)
	assert.Same(t, result, state.RAGContext)
}

func TestRetrievalFailureToleratedWithoutContext(t *testing.T) {
	retr := &fakeRetriever{err: fmt.Errorf("%w: embeddings offline", models.ErrEmbeddingUnavailable)}
	cm := alwaysRespond("text. FINAL TRANSACTION PROPOSAL: **HOLD**")
	tg := newTestGraph(t, cm, &fakeToolkit{}, retr, 1, 1)

	state, decision, err := tg.Propagate(context.Background(), "NVDA", "2024-06-03")
	require.NoError(t, err)
	require.NotNil(t, decision)
	assert.Nil(t, state.RAGContext)
	assert.NotContains(t, state.AnalystReports[consts.FundamentalsAnalyst], "[analysis unavailable")
}

func TestInvalidDateRejected(t *testing.T) {
	cm := alwaysRespond("never reached")
	tg := newTestGraph(t, cm, &fakeToolkit{}, nil, 1, 1)

	_, _, err := tg.Propagate(context.Background(), "AAPL", "03/15/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date format")
}
