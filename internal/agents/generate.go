package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"tradecouncil/consts"
	"tradecouncil/internal/models"
)

// Generate runs one reasoning call. Any provider failure or empty completion
// maps to ErrGenerationFailed; an agent turn cannot be silently skipped.
func Generate(ctx context.Context, cm model.BaseChatModel, messages []*schema.Message) (string, error) {
	msg, err := cm.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrGenerationFailed, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", models.ErrGenerationFailed)
	}
	return strings.TrimSpace(msg.Content), nil
}

// RoleLabel is the display name used when transcript entries are rendered
// into prompts and reports.
func RoleLabel(role string) string {
	switch role {
	case consts.MarketAnalyst:
		return "Market Analyst"
	case consts.NewsAnalyst:
		return "News Analyst"
	case consts.SocialMediaAnalyst:
		return "Social Media Analyst"
	case consts.FundamentalsAnalyst:
		return "Fundamentals Analyst"
	case consts.BullResearcher:
		return "Bull Analyst"
	case consts.BearResearcher:
		return "Bear Analyst"
	case consts.ResearchManager:
		return "Research Manager"
	case consts.Trader:
		return "Trader"
	case consts.RiskyAnalyst:
		return "Risky Analyst"
	case consts.NeutralAnalyst:
		return "Neutral Analyst"
	case consts.SafeAnalyst:
		return "Safe Analyst"
	case consts.RiskJudge:
		return "Risk Judge"
	default:
		return role
	}
}

// FormatReports renders the analyst report map in a stable order.
func FormatReports(reports map[string]string) string {
	order := []string{
		consts.MarketAnalyst,
		consts.SocialMediaAnalyst,
		consts.NewsAnalyst,
		consts.FundamentalsAnalyst,
	}

	var b strings.Builder
	for _, name := range order {
		report, ok := reports[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s Report\n\n%s\n\n", RoleLabel(name), report)
	}
	return strings.TrimSpace(b.String())
}

// FormatTranscript renders debate or risk transcript entries as labeled
// turns, oldest first.
func FormatTranscript(entries []models.TranscriptEntry) string {
	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "%s: %s\n\n", RoleLabel(entry.Role), entry.Text)
	}
	return strings.TrimSpace(b.String())
}
