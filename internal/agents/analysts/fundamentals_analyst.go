package analysts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"tradecouncil/consts"
	"tradecouncil/internal/agents"
	"tradecouncil/internal/dataflows"
	"tradecouncil/internal/models"
	"tradecouncil/internal/utils"
)

// ContextRetriever is the slice of the knowledge retriever the fundamentals
// analyst depends on.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, topK int) (*models.RetrievalResult, error)
}

// FundamentalsAnalyst reasons over fetched financials, augmented with ranked
// knowledge-base context when the retriever can provide it.
type FundamentalsAnalyst struct {
	chatModel model.BaseChatModel
	toolkit   dataflows.Toolkit
	retriever ContextRetriever
	topK      int
	log       zerolog.Logger
}

func NewFundamentalsAnalyst(cm model.BaseChatModel, toolkit dataflows.Toolkit, retriever ContextRetriever, topK int, logger zerolog.Logger) *FundamentalsAnalyst {
	return &FundamentalsAnalyst{
		chatModel: cm,
		toolkit:   toolkit,
		retriever: retriever,
		topK:      topK,
		log:       logger.With().Str("agent", consts.FundamentalsAnalyst).Logger(),
	}
}

func (a *FundamentalsAnalyst) Name() string { return consts.FundamentalsAnalyst }

func (a *FundamentalsAnalyst) Analyze(ctx context.Context, subject string, asOf time.Time) (string, error) {
	report, _, err := a.AnalyzeWithContext(ctx, subject, asOf)
	return report, err
}

// AnalyzeWithContext also returns the retrieval bundle so the orchestrator
// can record it in the pipeline state.
func (a *FundamentalsAnalyst) AnalyzeWithContext(ctx context.Context, subject string, asOf time.Time) (string, *models.RetrievalResult, error) {
	data, err := a.toolkit.FetchFundamentals(ctx, subject, asOf)
	if err != nil {
		return "", nil, err
	}

	ragResult := a.retrieveContext(ctx, subject)

	systemPrompt, err := utils.LoadPrompt("analysts/fundamentals_analyst")
	if err != nil {
		return "", nil, err
	}
	if ragResult != nil && ragResult.Context != "" {
		systemPrompt = systemPrompt +
			"\n\nADDITIONAL CONTEXT FROM KNOWLEDGE BASE:\n" +
			"The following information has been retrieved from our knowledge base to provide additional context for your analysis. Use it to enhance your understanding of the company's fundamentals, but prioritize the real-time data when making your analysis. If there are discrepancies, note them in your report.\n\n" +
			ragResult.Context
	}

	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage("{system_message}"),
		schema.UserMessage("The company we want to look at is {ticker}. The current date is {current_date}.\n\n{data}"),
	)
	messages, err := tpl.Format(ctx, map[string]any{
		"system_message": systemPrompt,
		"ticker":         subject,
		"current_date":   asOf.Format("2006-01-02"),
		"data":           data,
	})
	if err != nil {
		return "", nil, err
	}

	report, err := agents.Generate(ctx, a.chatModel, messages)
	if err != nil {
		return "", nil, err
	}
	return report, ragResult, nil
}

// retrieveContext asks the knowledge base for supporting documents. Failure
// degrades to no context; it never fails the analyst.
func (a *FundamentalsAnalyst) retrieveContext(ctx context.Context, subject string) *models.RetrievalResult {
	if a.retriever == nil {
		return nil
	}

	query := fmt.Sprintf("%s fundamental analysis financial statements filings earnings", subject)
	result, err := a.retriever.Retrieve(ctx, query, a.topK)
	if err != nil {
		if errors.Is(err, models.ErrEmbeddingUnavailable) {
			a.log.Warn().Err(err).Msg("knowledge retrieval unavailable, proceeding without context")
		} else {
			a.log.Warn().Err(err).Msg("knowledge retrieval failed, proceeding without context")
		}
		return nil
	}
	return result
}
