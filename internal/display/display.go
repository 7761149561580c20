package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tradecouncil/consts"
	"tradecouncil/internal/agents"
	"tradecouncil/internal/models"
	"tradecouncil/internal/storage/sqlite"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(80)

	buyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	sellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	holdStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))
)

func actionStyle(action string) lipgloss.Style {
	switch action {
	case models.ActionBuy:
		return buyStyle
	case models.ActionSell:
		return sellStyle
	default:
		return holdStyle
	}
}

// Decision renders the terminal decision panel for one completed run.
func Decision(state *models.PipelineState, decision *models.Decision) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("Decision for %s (%s)", decision.Symbol, decision.Timestamp)))

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Action:     %s\n", actionStyle(decision.Action).Render(decision.Action)))
	b.WriteString(fmt.Sprintf("Confidence: %.2f\n", decision.Confidence))
	b.WriteString(fmt.Sprintf("Run ID:     %s\n", state.RunID))
	b.WriteString(fmt.Sprintf("Debate:     %d round(s), %d turn(s)\n", state.DebateRounds, len(state.DebateTranscript)))
	b.WriteString(fmt.Sprintf("Risk:       %d round(s), %d turn(s)\n", state.RiskRounds, len(state.RiskTranscript)))
	if state.RAGContext != nil {
		b.WriteString(fmt.Sprintf("Knowledge:  %d document(s) retrieved", state.RAGContext.NumResults))
		if state.RAGContext.AuditPath != "" {
			b.WriteString(fmt.Sprintf(" (audit: %s)", state.RAGContext.AuditPath))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nRationale:\n")
	b.WriteString(truncate(decision.Rationale, 1200))
	fmt.Println(panelStyle.Render(b.String()))
}

// Reports summarizes each analyst report with its first line.
func Reports(state *models.PipelineState) {
	var b strings.Builder
	b.WriteString("Analyst Reports\n\n")
	for _, role := range []string{consts.MarketAnalyst, consts.SocialMediaAnalyst, consts.NewsAnalyst, consts.FundamentalsAnalyst} {
		report, ok := state.AnalystReports[role]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("%s\n", agents.RoleLabel(role)))
		b.WriteString(dimStyle.Render("  "+firstLine(report, 70)) + "\n")
	}
	fmt.Println(panelStyle.Render(strings.TrimRight(b.String(), "\n")))
}

// History renders recent run records as a plain table.
func History(records []sqlite.RunRecord) {
	if len(records) == 0 {
		fmt.Println(dimStyle.Render("No recorded runs yet."))
		return
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-10s %-12s %-6s %-6s %-20s\n", "SYMBOL", "AS OF", "ACTION", "CONF", "CREATED"))
	b.WriteString(strings.Repeat("-", 58) + "\n")
	for _, rec := range records {
		b.WriteString(fmt.Sprintf("%-10s %-12s %-6s %-6.2f %-20s\n",
			rec.Symbol, rec.AsOf, rec.Action, rec.Confidence, rec.CreatedAt))
	}
	fmt.Println(panelStyle.Render(strings.TrimRight(b.String(), "\n")))
}

func Error(err error) {
	fmt.Println(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
}

func Info(message string) {
	fmt.Println(infoStyle.Render(message))
}

func firstLine(s string, maxLen int) string {
	line := s
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		line = s[:idx]
	}
	return truncate(strings.TrimSpace(line), maxLen)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
