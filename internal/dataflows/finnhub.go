package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// FinnhubClient handles Finnhub API operations.
type FinnhubClient struct {
	client *resty.Client
	retry  *RetryConfig
	apiKey string
}

func NewFinnhubClient(apiKey string) *FinnhubClient {
	client := resty.New()
	client.SetBaseURL("https://finnhub.io/api/v1")
	client.SetTimeout(30 * time.Second)

	return &FinnhubClient{
		client: client,
		retry:  DefaultRetryConfig(),
		apiKey: apiKey,
	}
}

// Configured reports whether an API key is present.
func (fc *FinnhubClient) Configured() bool { return fc.apiKey != "" }

type finnhubNews struct {
	Category string `json:"category"`
	DateTime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// GetCompanyNews gets news articles for a specific company.
func (fc *FinnhubClient) GetCompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]*NewsArticle, error) {
	if fc.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key not configured")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var result []*NewsArticle
	err := WithRetry(ctx, fc.retry, func() error {
		resp, err := fc.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"symbol": symbol,
				"from":   from.Format("2006-01-02"),
				"to":     to.Format("2006-01-02"),
				"token":  fc.apiKey,
			}).
			Get("/company-news")
		if err != nil {
			return fmt.Errorf("failed to fetch news for %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}

		var items []finnhubNews
		if err := json.Unmarshal(resp.Body(), &items); err != nil {
			return fmt.Errorf("failed to parse news response: %w", err)
		}

		result = make([]*NewsArticle, 0, len(items))
		for _, item := range items {
			result = append(result, &NewsArticle{
				Title:       item.Headline,
				Content:     item.Summary,
				URL:         item.URL,
				Source:      item.Source,
				PublishedAt: time.Unix(item.DateTime, 0),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// InsiderSentiment is monthly aggregated insider trading sentiment.
type InsiderSentiment struct {
	Symbol string  `json:"symbol"`
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Change int64   `json:"change"`
	MSPR   float64 `json:"mspr"`
}

// GetInsiderSentiment gets insider sentiment data for a company.
func (fc *FinnhubClient) GetInsiderSentiment(ctx context.Context, symbol string, from, to time.Time) ([]*InsiderSentiment, error) {
	if fc.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key not configured")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var result []*InsiderSentiment
	err := WithRetry(ctx, fc.retry, func() error {
		resp, err := fc.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"symbol": symbol,
				"from":   from.Format("2006-01-02"),
				"to":     to.Format("2006-01-02"),
				"token":  fc.apiKey,
			}).
			Get("/stock/insider-sentiment")
		if err != nil {
			return fmt.Errorf("failed to fetch insider sentiment for %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}

		var apiResponse struct {
			Data []InsiderSentiment `json:"data"`
		}
		if err := json.Unmarshal(resp.Body(), &apiResponse); err != nil {
			return fmt.Errorf("failed to parse insider sentiment response: %w", err)
		}

		result = make([]*InsiderSentiment, 0, len(apiResponse.Data))
		for i := range apiResponse.Data {
			result = append(result, &apiResponse.Data[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetBasicFinancials gets headline financial metrics for a company.
func (fc *FinnhubClient) GetBasicFinancials(ctx context.Context, symbol string) (map[string]float64, error) {
	if fc.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key not configured")
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var result map[string]float64
	err := WithRetry(ctx, fc.retry, func() error {
		resp, err := fc.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"symbol": symbol,
				"metric": "all",
				"token":  fc.apiKey,
			}).
			Get("/stock/metric")
		if err != nil {
			return fmt.Errorf("failed to fetch financials for %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String())
		}

		var apiResponse struct {
			Metric map[string]json.Number `json:"metric"`
		}
		if err := json.Unmarshal(resp.Body(), &apiResponse); err != nil {
			return fmt.Errorf("failed to parse financials response: %w", err)
		}

		result = make(map[string]float64, len(apiResponse.Metric))
		for key, num := range apiResponse.Metric {
			if f, err := num.Float64(); err == nil {
				result[key] = f
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
