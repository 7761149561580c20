package managers

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

// ResearchManager distills the bull/bear debate into a single research
// recommendation for the trader.
type ResearchManager struct {
	chatModel model.BaseChatModel
	log       zerolog.Logger
}

func NewResearchManager(cm model.BaseChatModel, logger zerolog.Logger) *ResearchManager {
	return &ResearchManager{
		chatModel: cm,
		log:       logger.With().Str("agent", consts.ResearchManager).Logger(),
	}
}

func (m *ResearchManager) Synthesize(ctx context.Context, subject string, reports map[string]string, transcript []models.TranscriptEntry) (string, error) {
	systemPrompt, err := utils.LoadPrompt("managers/research_manager")
	if err != nil {
		return "", err
	}

	history := agents.FormatTranscript(transcript)
	if history == "" {
		history = "(no debate took place; decide from the analyst reports alone)"
	}

	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage("{system_message}"),
		schema.UserMessage("Company: {ticker}\n\nAnalyst reports:\n{reports}\n\nDebate transcript:\n{history}\n\nMake your final investment recommendation."),
	)
	messages, err := tpl.Format(ctx, map[string]any{
		"system_message": systemPrompt,
		"ticker":         subject,
		"reports":        agents.FormatReports(reports),
		"history":        history,
	})
	if err != nil {
		return "", err
	}

	m.log.Debug().Str("symbol", subject).Int("debate_turns", len(transcript)).Msg("synthesizing research recommendation")
	return agents.Generate(ctx, m.chatModel, messages)
}
