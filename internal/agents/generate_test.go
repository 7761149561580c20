package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecouncil/consts"
	"tradecouncil/internal/models"
)

type stubChatModel struct {
	content string
	err     error
}

func (m stubChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.content, nil), nil
}

func (m stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestGenerateTrimsContent(t *testing.T) {
	out, err := Generate(context.Background(), stubChatModel{content: "  report text \n"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "report text", out)
}

func TestGenerateWrapsProviderError(t *testing.T) {
	_, err := Generate(context.Background(), stubChatModel{err: errors.New("timeout")}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrGenerationFailed)
}

func TestGenerateRejectsEmptyCompletion(t *testing.T) {
	_, err := Generate(context.Background(), stubChatModel{content: "   "}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrGenerationFailed)
}

func TestFormatReportsStableOrder(t *testing.T) {
	reports := map[string]string{
		consts.FundamentalsAnalyst: "fundamentals body",
		consts.MarketAnalyst:       "market body",
		consts.NewsAnalyst:         "news body",
		consts.SocialMediaAnalyst:  "social body",
	}

	out := FormatReports(reports)
	market := "## Market Analyst Report"
	social := "## Social Media Analyst Report"
	news := "## News Analyst Report"
	fundamentals := "## Fundamentals Analyst Report"

	require.Contains(t, out, market)
	assert.Less(t, strings.Index(out, market), strings.Index(out, social))
	assert.Less(t, strings.Index(out, social), strings.Index(out, news))
	assert.Less(t, strings.Index(out, news), strings.Index(out, fundamentals))
}

func TestFormatReportsSkipsMissing(t *testing.T) {
	out := FormatReports(map[string]string{consts.NewsAnalyst: "only news"})
	assert.Contains(t, out, "## News Analyst Report")
	assert.NotContains(t, out, "Market Analyst")
}

func TestFormatTranscript(t *testing.T) {
	entries := []models.TranscriptEntry{
		{Role: consts.BullResearcher, Round: 1, Text: "opening argument"},
		{Role: consts.BearResearcher, Round: 1, Text: "counter argument"},
	}

	out := FormatTranscript(entries)
	assert.Equal(t, "Bull Analyst: opening argument\n\nBear Analyst: counter argument", out)
	assert.Empty(t, FormatTranscript(nil))
}
