package dataflows

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"tradecouncil/internal/models"
)

// LiveToolkit fetches real data: Yahoo Finance for market data, Finnhub for
// news, insider sentiment and financials, with a Google News scraping
// fallback when no Finnhub key is configured.
type LiveToolkit struct {
	yahoo   *YahooFinanceClient
	finnhub *FinnhubClient
	scraper *NewsScraperClient
}

func NewLiveToolkit(finnhubAPIKey string) *LiveToolkit {
	return &LiveToolkit{
		yahoo:   NewYahooFinanceClient(),
		finnhub: NewFinnhubClient(finnhubAPIKey),
		scraper: NewNewsScraperClient(),
	}
}

func (t *LiveToolkit) FetchMarketData(ctx context.Context, symbol string, asOf time.Time) (string, error) {
	quote, err := t.yahoo.GetQuote(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}

	bars, err := t.yahoo.GetHistoricalData(ctx, symbol, asOf.AddDate(0, -1, 0), asOf)
	if err != nil {
		// The quote alone is still a usable report.
		bars = nil
	}

	return FormatMarketReport(NormalizeSymbol(symbol), asOf, quote, bars), nil
}

func (t *LiveToolkit) FetchNews(ctx context.Context, symbol string, asOf time.Time) (string, error) {
	from := asOf.AddDate(0, 0, -7)

	var articles []*NewsArticle
	var err error
	if t.finnhub.Configured() {
		articles, err = t.finnhub.GetCompanyNews(ctx, symbol, from, asOf)
	} else {
		articles, err = t.scraper.GetGoogleNews(ctx, NormalizeSymbol(symbol)+" stock", from, asOf, 20)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}
	if len(articles) == 0 {
		return "", fmt.Errorf("%w: no news found for %s", models.ErrDataUnavailable, symbol)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "News for %s (%s to %s):\n\n", NormalizeSymbol(symbol),
		from.Format("2006-01-02"), asOf.Format("2006-01-02"))
	for _, article := range articles {
		fmt.Fprintf(&b, "- %s (%s)\n", article.Title, article.Source)
		if article.Content != "" {
			fmt.Fprintf(&b, "  %s\n", article.Content)
		}
	}
	return b.String(), nil
}

func (t *LiveToolkit) FetchSentiment(ctx context.Context, symbol string, asOf time.Time) (string, error) {
	sentiments, err := t.finnhub.GetInsiderSentiment(ctx, symbol, asOf.AddDate(0, -3, 0), asOf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}
	if len(sentiments) == 0 {
		return "", fmt.Errorf("%w: no sentiment data for %s", models.ErrDataUnavailable, symbol)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Insider sentiment for %s (monthly share purchase ratio, -100 to 100):\n\n", NormalizeSymbol(symbol))
	for _, s := range sentiments {
		fmt.Fprintf(&b, "- %04d-%02d: net change %d shares, MSPR %.2f\n", s.Year, s.Month, s.Change, s.MSPR)
	}
	return b.String(), nil
}

func (t *LiveToolkit) FetchFundamentals(ctx context.Context, symbol string, asOf time.Time) (string, error) {
	metrics, err := t.finnhub.GetBasicFinancials(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}
	if len(metrics) == 0 {
		return "", fmt.Errorf("%w: no financial metrics for %s", models.ErrDataUnavailable, symbol)
	}

	keys := make([]string, 0, len(metrics))
	for key := range metrics {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "Financial metrics for %s as of %s:\n\n", NormalizeSymbol(symbol), asOf.Format("2006-01-02"))
	for _, key := range keys {
		fmt.Fprintf(&b, "- %s: %.4g\n", key, metrics[key])
	}
	return b.String(), nil
}
