package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradecouncil/internal/agents"
	"tradecouncil/internal/agents/analysts"
	"tradecouncil/internal/agents/managers"
	"tradecouncil/internal/agents/researchers"
	"tradecouncil/internal/agents/risk"
	"tradecouncil/internal/agents/trader"
	"tradecouncil/internal/config"
	"tradecouncil/internal/dataflows"
	"tradecouncil/internal/display"
	"tradecouncil/internal/graph"
	"tradecouncil/internal/models"
	"tradecouncil/internal/rag"
	"tradecouncil/internal/storage"
	"tradecouncil/internal/storage/sqlite"
)

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [SYMBOL]",
		Short: "Run the decision pipeline for a stock symbol",
		Long: `Run the full decision pipeline for a stock ticker symbol.
Example: tradecouncil analyze AAPL --date=2024-03-15`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := ""
			if len(args) > 0 {
				symbol = args[0]
			}
			date, _ := cmd.Flags().GetString("date")
			if n, _ := cmd.Flags().GetInt("debate-rounds"); cmd.Flags().Changed("debate-rounds") {
				cfg.MaxDebateRounds = n
			}
			if n, _ := cmd.Flags().GetInt("risk-rounds"); cmd.Flags().Changed("risk-rounds") {
				cfg.MaxRiskRounds = n
			}
			if n, _ := cmd.Flags().GetInt("top-k"); cmd.Flags().Changed("top-k") {
				cfg.RAGTopK = n
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), cfg, symbol, date)
		},
	}

	cmd.Flags().String("date", "", "Analysis date in YYYY-MM-DD format (today if not provided)")
	cmd.Flags().Int("debate-rounds", 0, "Number of bull/bear debate rounds")
	cmd.Flags().Int("risk-rounds", 0, "Number of risk discussion rounds")
	cmd.Flags().Int("top-k", 0, "Number of knowledge base documents to retrieve")

	return cmd
}

func runAnalyze(ctx context.Context, cfg *config.Config, symbol, date string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cfg)

	if symbol == "" {
		var err error
		symbol, err = promptForTicker()
		if err != nil {
			return err
		}
	}
	symbol = dataflows.NormalizeSymbol(symbol)
	if err := dataflows.ValidateSymbol(symbol); err != nil {
		return err
	}

	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	chatModel, err := agents.NewChatModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create chat model: %w", err)
	}

	retriever := buildRetriever(ctx, cfg, logger)
	toolkit := dataflows.NewLiveToolkit(cfg.FinnhubAPIKey)
	recorder := storage.NewRecorder(cfg.ResultsDir, logger)

	deps := graph.Deps{
		Analysts: []analysts.Analyst{
			analysts.NewMarketAnalyst(chatModel, toolkit, logger),
			analysts.NewSocialMediaAnalyst(chatModel, toolkit, logger),
			analysts.NewNewsAnalyst(chatModel, toolkit, logger),
			analysts.NewFundamentalsAnalyst(chatModel, toolkit, retriever, cfg.RAGTopK, logger),
		},
		Bull:    researchers.NewBullResearcher(chatModel, logger),
		Bear:    researchers.NewBearResearcher(chatModel, logger),
		Manager: managers.NewResearchManager(chatModel, logger),
		Trader:  trader.NewTrader(chatModel, logger),
		RiskAnalysts: []*risk.Analyst{
			risk.NewRiskyAnalyst(chatModel, logger),
			risk.NewNeutralAnalyst(chatModel, logger),
			risk.NewSafeAnalyst(chatModel, logger),
		},
		Judge:    risk.NewJudge(chatModel, logger),
		Recorder: recorder,
	}

	display.Info(fmt.Sprintf("Starting analysis for %s on %s", symbol, date))

	tradingGraph := graph.NewTradingGraph(deps, cfg, logger)
	state, decision, err := tradingGraph.Propagate(ctx, symbol, date)
	if err != nil {
		display.Error(err)
		return err
	}

	display.Reports(state)
	display.Decision(state, decision)

	if err := saveRun(ctx, cfg, state, logger); err != nil {
		logger.Warn().Err(err).Msg("failed to save run history")
	}
	return nil
}

// buildRetriever sets up the in-memory knowledge base. Any failure degrades
// to a nil retriever: the fundamentals analyst runs without context.
func buildRetriever(ctx context.Context, cfg *config.Config, logger zerolog.Logger) analysts.ContextRetriever {
	embedder, err := agents.NewEmbedder(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("embedder unavailable, knowledge retrieval disabled")
		return nil
	}
	store := rag.NewMemoryStore()
	if err := rag.Populate(ctx, store, embedder, rag.SeedCorpus()); err != nil {
		logger.Warn().Err(err).Msg("knowledge base population failed, retrieval disabled")
		return nil
	}
	return rag.NewRetriever(embedder, store, cfg.RAGOutDir, logger)
}

func saveRun(ctx context.Context, cfg *config.Config, state *models.PipelineState, logger zerolog.Logger) error {
	store, err := sqlite.Open(cfg.RunDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.SaveRun(ctx, sqlite.RunRecord{
		RunID:        state.RunID,
		Symbol:       state.Subject,
		AsOf:         state.AsOf,
		Action:       state.FinalDecision.Action,
		Confidence:   state.FinalDecision.Confidence,
		Rationale:    state.FinalDecision.Rationale,
		DebateRounds: state.DebateRounds,
		RiskRounds:   state.RiskRounds,
	})
}

func promptForTicker() (string, error) {
	var ticker string
	prompt := &survey.Input{
		Message: "Enter the stock ticker symbol (e.g., AAPL, MSFT, NVDA):",
		Help:    "The symbol the pipeline will analyze",
	}

	err := survey.AskOne(prompt, &ticker, survey.WithValidator(func(val interface{}) error {
		str, _ := val.(string)
		return dataflows.ValidateSymbol(dataflows.NormalizeSymbol(str))
	}))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ToUpper(ticker)), nil
}
