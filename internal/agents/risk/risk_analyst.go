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

// Analyst is one risk-posture voice in the triage discussion. Unlike the
// two-party debate, every turn sees the full prior transcript across roles.
type Analyst struct {
	role       string
	promptName string
	chatModel  model.BaseChatModel
	log        zerolog.Logger
}

func NewRiskyAnalyst(cm model.BaseChatModel, logger zerolog.Logger) *Analyst {
	return newAnalyst(consts.RiskyAnalyst, "risk/risky_debate", cm, logger)
}

func NewNeutralAnalyst(cm model.BaseChatModel, logger zerolog.Logger) *Analyst {
	return newAnalyst(consts.NeutralAnalyst, "risk/neutral_debate", cm, logger)
}

func NewSafeAnalyst(cm model.BaseChatModel, logger zerolog.Logger) *Analyst {
	return newAnalyst(consts.SafeAnalyst, "risk/safe_debate", cm, logger)
}

func newAnalyst(role, promptName string, cm model.BaseChatModel, logger zerolog.Logger) *Analyst {
	return &Analyst{
		role:       role,
		promptName: promptName,
		chatModel:  cm,
		log:        logger.With().Str("agent", role).Logger(),
	}
}

func (a *Analyst) Name() string { return a.role }

// Critique produces one posture turn on the proposed action.
func (a *Analyst) Critique(ctx context.Context, subject, proposedAction string, transcript []models.TranscriptEntry) (string, error) {
	systemPrompt, err := utils.LoadPrompt(a.promptName)
	if err != nil {
		return "", err
	}

	history := agents.FormatTranscript(transcript)
	if history == "" {
		history = "(discussion has not started)"
	}

	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage("{system_message}"),
		schema.UserMessage("Company: {ticker}\n\nTrader's proposed action:\n{trader_decision}\n\nRisk discussion so far:\n{history}"),
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

	return agents.Generate(ctx, a.chatModel, messages)
}
