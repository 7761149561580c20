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

type NewsAnalyst struct {
	chatModel model.BaseChatModel
	toolkit   dataflows.Toolkit
	log       zerolog.Logger
}

func NewNewsAnalyst(cm model.BaseChatModel, toolkit dataflows.Toolkit, logger zerolog.Logger) *NewsAnalyst {
	return &NewsAnalyst{
		chatModel: cm,
		toolkit:   toolkit,
		log:       logger.With().Str("agent", consts.NewsAnalyst).Logger(),
	}
}

func (a *NewsAnalyst) Name() string { return consts.NewsAnalyst }

func (a *NewsAnalyst) Analyze(ctx context.Context, subject string, asOf time.Time) (string, error) {
	data, err := a.toolkit.FetchNews(ctx, subject, asOf)
	if err != nil {
		return "", err
	}

	systemPrompt, err := utils.LoadPrompt("analysts/news_analyst")
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

	a.log.Debug().Str("symbol", subject).Msg("generating news report")
	return agents.Generate(ctx, a.chatModel, messages)
}
