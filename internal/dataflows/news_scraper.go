package dataflows

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// NewsScraperClient scrapes Google News. Used as the news source when no
// Finnhub key is configured.
type NewsScraperClient struct {
	client *resty.Client
	retry  *RetryConfig
}

func NewNewsScraperClient() *NewsScraperClient {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; tradecouncil/1.0)")

	return &NewsScraperClient{
		client: client,
		retry:  DefaultRetryConfig(),
	}
}

// GetGoogleNews scrapes Google News search results for the query.
func (ns *NewsScraperClient) GetGoogleNews(ctx context.Context, query string, from, to time.Time, maxResults int) ([]*NewsArticle, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	googleURL := buildGoogleNewsURL(query, from, to)

	var result []*NewsArticle
	err := WithRetry(ctx, ns.retry, func() error {
		resp, err := ns.client.R().SetContext(ctx).Get(googleURL)
		if err != nil {
			return fmt.Errorf("failed to fetch Google News: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("HTTP error %d when fetching Google News", resp.StatusCode())
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
		if err != nil {
			return fmt.Errorf("failed to parse HTML: %w", err)
		}

		result = parseGoogleNewsHTML(doc)
		if len(result) > maxResults {
			result = result[:maxResults]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func buildGoogleNewsURL(query string, from, to time.Time) string {
	q := query
	if !from.IsZero() && !to.IsZero() {
		q += fmt.Sprintf(" after:%s before:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	return fmt.Sprintf("https://news.google.com/search?q=%s&hl=en&gl=US&ceid=US:en", url.QueryEscape(q))
}

// parseGoogleNewsHTML extracts articles from the result page. Google's
// markup shifts periodically; unparseable entries are skipped.
func parseGoogleNewsHTML(doc *goquery.Document) []*NewsArticle {
	var articles []*NewsArticle

	doc.Find("article").Each(func(i int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("h3").Text())
		if title == "" {
			title = strings.TrimSpace(s.Find("h4").Text())
		}
		if title == "" {
			return
		}

		href, exists := s.Find("a").First().Attr("href")
		if !exists {
			return
		}

		source := strings.TrimSpace(s.Find("div[data-n-tid]").Text())
		if source == "" {
			source = "Google News"
		}

		articles = append(articles, &NewsArticle{
			Title:  title,
			URL:    cleanGoogleNewsURL(href),
			Source: source,
		})
	})

	return articles
}

// cleanGoogleNewsURL unwraps the Google News redirect wrapper.
func cleanGoogleNewsURL(googleURL string) string {
	if strings.Contains(googleURL, "url=") {
		parts := strings.Split(googleURL, "url=")
		if len(parts) > 1 {
			if decoded, err := url.QueryUnescape(parts[1]); err == nil {
				return decoded
			}
		}
	}
	if strings.HasPrefix(googleURL, "./") {
		return "https://news.google.com/" + strings.TrimPrefix(googleURL, "./")
	}
	return googleURL
}
