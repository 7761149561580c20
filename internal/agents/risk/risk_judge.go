package risk

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"tradecouncil/consts"
	"tradecouncil/internal/agents"
	"tradecouncil/internal/models"
	"tradecouncil/internal/utils"
)

// Judge issues the terminal verdict after the risk discussion.
type Judge struct {
	chatModel model.BaseChatModel
	log       zerolog.Logger
}

func NewJudge(cm model.BaseChatModel, logger zerolog.Logger) *Judge {
	return &Judge{
		chatModel: cm,
		log:       logger.With().Str("agent", consts.RiskJudge).Logger(),
	}
}

func (j *Judge) Decide(ctx context.Context, subject, proposedAction string, transcript []models.TranscriptEntry) (string, error) {
	systemPrompt, err := utils.LoadPrompt("risk/risk_judge")
	if err != nil {
		return "", err
	}

	history := agents.FormatTranscript(transcript)
	if history == "" {
		history = "(no risk discussion took place; judge the proposal directly)"
	}

	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage("{system_message}"),
		schema.UserMessage("Company: {ticker}\n\nTrader's proposed action:\n{trader_decision}\n\nRisk discussion transcript:\n{history}\n\nIssue your final decision."),
	)
	messages, err := tpl.Format(ctx, map[string]any{
		"system_message":  systemPrompt,
		"ticker":          subject,
		"trader_decision": proposedAction,
		"history":         history,
	})
	if err != nil {
		return "", err
	}

	j.log.Debug().Str("symbol", subject).Int("risk_turns", len(transcript)).Msg("judging proposed action")
	return agents.Generate(ctx, j.chatModel, messages)
}
