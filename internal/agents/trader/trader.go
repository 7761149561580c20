package trader

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"tradecouncil/consts"
	"tradecouncil/internal/agents"
	"tradecouncil/internal/utils"
)

// Trader turns the research recommendation into a concrete trade proposal.
// There is no retry and no fallback: an un-reasoned proposal is unsafe, so
// a generation failure is fatal to the run.
type Trader struct {
	chatModel model.BaseChatModel
	log       zerolog.Logger
}

func NewTrader(cm model.BaseChatModel, logger zerolog.Logger) *Trader {
	return &Trader{
		chatModel: cm,
		log:       logger.With().Str("agent", consts.Trader).Logger(),
	}
}

func (t *Trader) Propose(ctx context.Context, subject, recommendation string, reports map[string]string) (string, error) {
	systemPrompt, err := utils.LoadPrompt("trader/trader")
	if err != nil {
		return "", err
	}

	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage("{system_message}"),
		schema.UserMessage("Company: {ticker}\n\nResearch team recommendation:\n{recommendation}\n\nAnalyst reports:\n{reports}\n\nPropose your trade."),
	)
	messages, err := tpl.Format(ctx, map[string]any{
		"system_message": systemPrompt,
		"ticker":         subject,
		"recommendation": recommendation,
		"reports":        agents.FormatReports(reports),
	})
	if err != nil {
		return "", err
	}

	t.log.Debug().Str("symbol", subject).Msg("proposing trade")
	return agents.Generate(ctx, t.chatModel, messages)
}
