package researchers

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

type BullResearcher struct {
	chatModel model.BaseChatModel
	log       zerolog.Logger
}

func NewBullResearcher(cm model.BaseChatModel, logger zerolog.Logger) *BullResearcher {
	return &BullResearcher{
		chatModel: cm,
		log:       logger.With().Str("agent", consts.BullResearcher).Logger(),
	}
}

func (r *BullResearcher) Name() string { return consts.BullResearcher }

// Argue produces one bull turn, conditioned on all analyst reports and the
// bear's most recent entry (empty on the opening turn).
func (r *BullResearcher) Argue(ctx context.Context, subject string, reports map[string]string, transcript []models.TranscriptEntry, opposing string) (string, error) {
	systemPrompt, err := utils.LoadPrompt("researchers/bull_researcher")
	if err != nil {
		return "", err
	}

	if opposing == "" {
		opposing = "(no argument yet; you open the debate)"
	}
	history := agents.FormatTranscript(transcript)
	if history == "" {
		history = "(debate has not started)"
	}

	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage("{system_message}"),
		schema.UserMessage("Company: {ticker}\n\nAnalyst reports:\n{reports}\n\nDebate history:\n{history}\n\nLast bear argument to counter:\n{current_response}"),
	)
	messages, err := tpl.Format(ctx, map[string]any{
		"system_message":   systemPrompt,
		"ticker":           subject,
		"reports":          agents.FormatReports(reports),
		"history":          history,
		"current_response": opposing,
	})
	if err != nil {
		return "", err
	}

	return agents.Generate(ctx, r.chatModel, messages)
}
