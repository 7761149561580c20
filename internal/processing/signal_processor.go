package processing

import (
	"regexp"
	"strings"

	"tradecouncil/internal/models"
)

// SignalProcessor extracts an actionable decision from the judge's verdict
// text. The explicit FINAL TRANSACTION PROPOSAL marker wins; keyword scoring
// is the fallback for verdicts that omit it.
type SignalProcessor struct {
	proposalPattern *regexp.Regexp
	buyPatterns     []*regexp.Regexp
	sellPatterns    []*regexp.Regexp
	holdPatterns    []*regexp.Regexp
}

func NewSignalProcessor() *SignalProcessor {
	return &SignalProcessor{
		proposalPattern: regexp.MustCompile(`(?i)FINAL TRANSACTION PROPOSAL:\s*\**\s*(BUY|SELL|HOLD)`),
		buyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(buy|purchase|long|bullish|upward|invest)\b`),
			regexp.MustCompile(`(?i)\b(strong buy|recommended buy|buy recommendation)\b`),
			regexp.MustCompile(`(?i)\b(undervalued|oversold|growth potential|opportunity)\b`),
		},
		sellPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(sell|short|bearish|downward|divest)\b`),
			regexp.MustCompile(`(?i)\b(strong sell|sell recommendation|avoid)\b`),
			regexp.MustCompile(`(?i)\b(overvalued|overbought|decline)\b`),
		},
		holdPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(hold|maintain|neutral|wait|sideways)\b`),
			regexp.MustCompile(`(?i)\b(no action|stay put|keep position)\b`),
		},
	}
}

// Process turns the judge's verdict into a structured decision. The verdict
// text itself becomes the rationale so the caller never loses the reasoning.
func (sp *SignalProcessor) Process(symbol, verdict, asOf string) *models.Decision {
	action := sp.extractAction(verdict)

	return &models.Decision{
		Symbol:     symbol,
		Action:     action,
		Confidence: sp.calculateConfidence(verdict, action),
		Rationale:  strings.TrimSpace(verdict),
		Timestamp:  asOf,
	}
}

func (sp *SignalProcessor) extractAction(text string) string {
	if m := sp.proposalPattern.FindStringSubmatch(text); len(m) > 1 {
		return strings.ToUpper(m[1])
	}

	lower := strings.ToLower(text)
	buyScore := countMatches(sp.buyPatterns, lower)
	sellScore := countMatches(sp.sellPatterns, lower)
	holdScore := countMatches(sp.holdPatterns, lower)

	if buyScore > sellScore && buyScore > holdScore {
		return models.ActionBuy
	}
	if sellScore > buyScore && sellScore > holdScore {
		return models.ActionSell
	}
	return models.ActionHold
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	total := 0
	for _, pattern := range patterns {
		total += len(pattern.FindAllString(text, -1))
	}
	return total
}

// calculateConfidence scores how unambiguous the verdict is: the share of
// words matching the chosen action's vocabulary, clamped to [0.1, 1.0].
func (sp *SignalProcessor) calculateConfidence(text, action string) float64 {
	lower := strings.ToLower(text)
	totalWords := len(strings.Fields(lower))
	if totalWords == 0 {
		return 0.5
	}

	var relevant []*regexp.Regexp
	switch action {
	case models.ActionBuy:
		relevant = sp.buyPatterns
	case models.ActionSell:
		relevant = sp.sellPatterns
	case models.ActionHold:
		relevant = sp.holdPatterns
	}

	confidence := float64(countMatches(relevant, lower)) / float64(totalWords) * 10
	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0.1 {
		confidence = 0.1
	}
	return confidence
}
