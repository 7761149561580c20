package dataflows

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Toolkit is the data-fetch surface the analysts reason over. Each method
// returns a plain-text report section; failures wrap
// models.ErrDataUnavailable so the caller can degrade instead of aborting.
type Toolkit interface {
	FetchMarketData(ctx context.Context, symbol string, asOf time.Time) (string, error)
	FetchNews(ctx context.Context, symbol string, asOf time.Time) (string, error)
	FetchSentiment(ctx context.Context, symbol string, asOf time.Time) (string, error)
	FetchFundamentals(ctx context.Context, symbol string, asOf time.Time) (string, error)
}

// MarketData is one quote snapshot.
type MarketData struct {
	Symbol    string          `json:"symbol"`
	Date      time.Time       `json:"date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
	MarketCap decimal.Decimal `json:"market_cap"`
	PERatio   decimal.Decimal `json:"pe_ratio"`
}

// NewsArticle is one normalized news item, whichever source produced it.
type NewsArticle struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}
