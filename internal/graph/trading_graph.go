package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tradecouncil/consts"
	"tradecouncil/internal/agents/analysts"
	"tradecouncil/internal/agents/managers"
	"tradecouncil/internal/agents/researchers"
	"tradecouncil/internal/agents/risk"
	"tradecouncil/internal/agents/trader"
	"tradecouncil/internal/config"
	"tradecouncil/internal/models"
	"tradecouncil/internal/processing"
	"tradecouncil/internal/storage"
)

// TradingGraph owns one run's pipeline state and sequences the stages:
// concurrent analysts, bull/bear debate, trade proposal, cyclic risk triage,
// terminal judgment. It contains no reasoning of its own.
type TradingGraph struct {
	cfg *config.Config

	analysts     []analysts.Analyst
	bull         *researchers.BullResearcher
	bear         *researchers.BearResearcher
	manager      *managers.ResearchManager
	trader       *trader.Trader
	riskAnalysts []*risk.Analyst
	judge        *risk.Judge

	processor *processing.SignalProcessor
	recorder  *storage.Recorder
	log       zerolog.Logger
}

// Deps bundles the agent set. Constructed in one place so tests can swap in
// fakes for any role.
type Deps struct {
	Analysts     []analysts.Analyst
	Bull         *researchers.BullResearcher
	Bear         *researchers.BearResearcher
	Manager      *managers.ResearchManager
	Trader       *trader.Trader
	RiskAnalysts []*risk.Analyst // cyclic speaking order
	Judge        *risk.Judge
	Recorder     *storage.Recorder
}

func NewTradingGraph(deps Deps, cfg *config.Config, logger zerolog.Logger) *TradingGraph {
	return &TradingGraph{
		cfg:          cfg,
		analysts:     deps.Analysts,
		bull:         deps.Bull,
		bear:         deps.Bear,
		manager:      deps.Manager,
		trader:       deps.Trader,
		riskAnalysts: deps.RiskAnalysts,
		judge:        deps.Judge,
		processor:    processing.NewSignalProcessor(),
		recorder:     deps.Recorder,
		log:          logger.With().Str("component", "graph").Logger(),
	}
}

// Propagate runs the full pipeline for one symbol and date. It returns the
// complete state ledger and the terminal decision, or a StageError naming
// where the run failed. A partial decision is never returned.
func (g *TradingGraph) Propagate(ctx context.Context, symbol, date string) (*models.PipelineState, *models.Decision, error) {
	asOf, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid date format %q: %w", date, err)
	}

	state := models.NewPipelineState(symbol, asOf)
	g.log.Info().Str("run_id", state.RunID).Str("symbol", symbol).Str("as_of", state.AsOf).Msg("pipeline run started")

	if err := g.runAnalysts(ctx, state, asOf); err != nil {
		return nil, nil, err
	}
	if err := g.runDebate(ctx, state); err != nil {
		return nil, nil, err
	}
	if err := g.runTrading(ctx, state); err != nil {
		return nil, nil, err
	}
	if err := g.runRisk(ctx, state); err != nil {
		return nil, nil, err
	}

	g.log.Info().Str("run_id", state.RunID).Str("action", state.FinalDecision.Action).Msg("pipeline run complete")
	return state, state.FinalDecision, nil
}

type analystResult struct {
	name   string
	report string
	rag    *models.RetrievalResult
	err    error
}

// contextualAnalyst is satisfied by the fundamentals analyst, which also
// surfaces its retrieval bundle for the state ledger.
type contextualAnalyst interface {
	AnalyzeWithContext(ctx context.Context, subject string, asOf time.Time) (string, *models.RetrievalResult, error)
}

// runAnalysts fans the analysts out as concurrent tasks and joins before the
// debate begins. A single data-source failure degrades that analyst's report
// to an error marker; a generation failure anywhere is fatal.
func (g *TradingGraph) runAnalysts(ctx context.Context, state *models.PipelineState, asOf time.Time) error {
	results := make(chan analystResult, len(g.analysts))

	eg, egCtx := errgroup.WithContext(ctx)
	for _, a := range g.analysts {
		eg.Go(func() error {
			var (
				report string
				rag    *models.RetrievalResult
				err    error
			)
			if ca, ok := a.(contextualAnalyst); ok {
				report, rag, err = ca.AnalyzeWithContext(egCtx, state.Subject, asOf)
			} else {
				report, err = a.Analyze(egCtx, state.Subject, asOf)
			}

			if err != nil && errors.Is(err, models.ErrGenerationFailed) {
				return models.NewStageError(consts.StageAnalysts, 0, a.Name(), err)
			}
			results <- analystResult{name: a.Name(), report: report, rag: rag, err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	close(results)

	failed := 0
	for res := range results {
		if res.err != nil {
			failed++
			g.log.Warn().Err(res.err).Str("analyst", res.name).Msg("analyst degraded to error marker")
			state.AnalystReports[res.name] = fmt.Sprintf("[analysis unavailable: %v]", res.err)
			continue
		}
		state.AnalystReports[res.name] = res.report
		if res.rag != nil {
			state.RAGContext = res.rag
		}
		g.recorder.Record(state.Subject, state.AsOf, res.name+"_report", res.report)
	}

	if failed == len(g.analysts) {
		return models.NewStageError(consts.StageAnalysts, 0, "", models.ErrAllAnalystsFailed)
	}
	return nil
}

// runDebate alternates bull and bear for the configured number of rounds,
// then synthesizes the research recommendation. There is no agreement
// detection: the round cap is the only exit.
func (g *TradingGraph) runDebate(ctx context.Context, state *models.PipelineState) error {
	for round := 1; round <= g.cfg.MaxDebateRounds; round++ {
		if err := ctx.Err(); err != nil {
			return models.NewStageError(consts.StageDebate, round, consts.BullResearcher, err)
		}

		bullText, err := g.bull.Argue(ctx, state.Subject, state.AnalystReports, state.DebateTranscript,
			state.LatestDebateTurnBy(consts.BearResearcher))
		if err != nil {
			return models.NewStageError(consts.StageDebate, round, consts.BullResearcher, err)
		}
		state.AppendDebateTurn(consts.BullResearcher, round, bullText)

		bearText, err := g.bear.Argue(ctx, state.Subject, state.AnalystReports, state.DebateTranscript,
			state.LatestDebateTurnBy(consts.BullResearcher))
		if err != nil {
			return models.NewStageError(consts.StageDebate, round, consts.BearResearcher, err)
		}
		state.AppendDebateTurn(consts.BearResearcher, round, bearText)

		state.DebateRounds = round
	}

	recommendation, err := g.manager.Synthesize(ctx, state.Subject, state.AnalystReports, state.DebateTranscript)
	if err != nil {
		return models.NewStageError(consts.StageDebate, state.DebateRounds, consts.ResearchManager, err)
	}
	state.ResearchRecommendation = recommendation

	g.recorder.Record(state.Subject, state.AsOf, "research_recommendation", recommendation)
	return nil
}

// runTrading converts the recommendation into a proposed action. Fatal on
// failure: a trade proposal is never synthesized from nothing.
func (g *TradingGraph) runTrading(ctx context.Context, state *models.PipelineState) error {
	if err := ctx.Err(); err != nil {
		return models.NewStageError(consts.StageTrading, 0, consts.Trader, err)
	}

	proposal, err := g.trader.Propose(ctx, state.Subject, state.ResearchRecommendation, state.AnalystReports)
	if err != nil {
		return models.NewStageError(consts.StageTrading, 0, consts.Trader, err)
	}
	state.ProposedAction = proposal

	g.recorder.Record(state.Subject, state.AsOf, "trader_proposal", proposal)
	return nil
}

// runRisk cycles the three risk postures for the configured number of full
// rounds, then asks the judge for the terminal decision.
func (g *TradingGraph) runRisk(ctx context.Context, state *models.PipelineState) error {
	for round := 1; round <= g.cfg.MaxRiskRounds; round++ {
		for _, analyst := range g.riskAnalysts {
			if err := ctx.Err(); err != nil {
				return models.NewStageError(consts.StageRisk, round, analyst.Name(), err)
			}

			critique, err := analyst.Critique(ctx, state.Subject, state.ProposedAction, state.RiskTranscript)
			if err != nil {
				return models.NewStageError(consts.StageRisk, round, analyst.Name(), err)
			}
			state.AppendRiskTurn(analyst.Name(), round, critique)
		}
		state.RiskRounds = round
	}

	verdict, err := g.judge.Decide(ctx, state.Subject, state.ProposedAction, state.RiskTranscript)
	if err != nil {
		return models.NewStageError(consts.StageJudge, state.RiskRounds, consts.RiskJudge, err)
	}

	state.FinalDecision = g.processor.Process(state.Subject, verdict, state.AsOf)

	g.recorder.Record(state.Subject, state.AsOf, "final_decision", verdict)
	return nil
}
