package analysts

import (
	"context"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"tradecouncil/consts"
	"tradecouncil/internal/agents"
	"tradecouncil/internal/dataflows"
	"tradecouncil/internal/utils"
)

type MarketAnalyst struct {
	chatModel model.BaseChatModel
	toolkit   dataflows.Toolkit
	log       zerolog.Logger
}

func NewMarketAnalyst(cm model.BaseChatModel, toolkit dataflows.Toolkit, logger zerolog.Logger) *MarketAnalyst {
	return &MarketAnalyst{
		chatModel: cm,
		toolkit:   toolkit,
		log:       logger.With().Str("agent", consts.MarketAnalyst).Logger(),
	}
}

func (a *MarketAnalyst) Name() string { return consts.MarketAnalyst }

func (a *MarketAnalyst) Analyze(ctx context.Context, subject string, asOf time.Time) (string, error) {
	data, err := a.toolkit.FetchMarketData(ctx, subject, asOf)
	if err != nil {
		return "", err
	}

	systemPrompt, err := utils.LoadPrompt("analysts/market_analyst")
	if err != nil {
		return "", err
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
		return "", err
	}

	a.log.Debug().Str("symbol", subject).Msg("generating market report")
	return agents.Generate(ctx, a.chatModel, messages)
}
