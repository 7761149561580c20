package dataflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"
)

// YahooFinanceClient handles Yahoo Finance data operations.
type YahooFinanceClient struct {
	retry *RetryConfig
}

func NewYahooFinanceClient() *YahooFinanceClient {
	return &YahooFinanceClient{retry: DefaultRetryConfig()}
}

// GetQuote gets current quote data for a symbol.
func (yf *YahooFinanceClient) GetQuote(ctx context.Context, symbol string) (*MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var result *MarketData
	err := WithRetry(ctx, yf.retry, func() error {
		q, err := equity.Get(symbol)
		if err != nil {
			return fmt.Errorf("failed to get quote for %s: %w", symbol, err)
		}

		result = &MarketData{
			Symbol:    symbol,
			Date:      time.Now(),
			Open:      decimal.NewFromFloat(q.RegularMarketOpen),
			High:      decimal.NewFromFloat(q.RegularMarketDayHigh),
			Low:       decimal.NewFromFloat(q.RegularMarketDayLow),
			Close:     decimal.NewFromFloat(q.RegularMarketPrice),
			Volume:    int64(q.RegularMarketVolume),
			MarketCap: decimal.NewFromInt(q.MarketCap),
			PERatio:   decimal.NewFromFloat(q.TrailingPE),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetHistoricalData gets daily bars for a symbol over [start, end].
func (yf *YahooFinanceClient) GetHistoricalData(ctx context.Context, symbol string, start, end time.Time) ([]*MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var result []*MarketData
	err := WithRetry(ctx, yf.retry, func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)
		result = make([]*MarketData, 0)
		for iter.Next() {
			bar := iter.Bar()
			result = append(result, &MarketData{
				Symbol: symbol,
				Date:   time.Unix(int64(bar.Timestamp), 0),
				Open:   bar.Open,
				High:   bar.High,
				Low:    bar.Low,
				Close:  bar.Close,
				Volume: int64(bar.Volume),
			})
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to get historical data for %s: %w", symbol, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FormatMarketReport renders a quote plus trailing bars as the text block
// the market analyst reasons over.
func FormatMarketReport(symbol string, asOf time.Time, q *MarketData, bars []*MarketData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Market data for %s as of %s\n\n", symbol, asOf.Format("2006-01-02"))
	if q != nil {
		fmt.Fprintf(&b, "Latest quote: open %s, high %s, low %s, close %s, volume %d\n",
			q.Open, q.High, q.Low, q.Close, q.Volume)
		if !q.MarketCap.IsZero() {
			fmt.Fprintf(&b, "Market cap: %s\n", q.MarketCap)
		}
		if !q.PERatio.IsZero() {
			fmt.Fprintf(&b, "Trailing P/E: %s\n", q.PERatio)
		}
	}
	if len(bars) > 0 {
		fmt.Fprintf(&b, "\nDaily closes (last %d sessions):\n", len(bars))
		for _, bar := range bars {
			fmt.Fprintf(&b, "  %s  close %s  volume %d\n", bar.Date.Format("2006-01-02"), bar.Close, bar.Volume)
		}
	}
	return b.String()
}
