// Package news fetches recent company news from Finnhub, tags each item with
// a sentiment label, and records the scored items in the side index.
//
// Failure is silent to the caller: any problem yields an empty list, logged
// but never raised, so the news stage can only degrade the response, not
// break it.
package news

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"

	"github.com/tickerlens/tickerlens/config"
	"github.com/tickerlens/tickerlens/internal/common"
	"github.com/tickerlens/tickerlens/internal/sentiment"
)

// lookbackWindow is how far back company news is requested.
const lookbackWindow = 7 * 24 * time.Hour

// Item is one enriched news result.
type Item struct {
	Title     string          `json:"title"`
	URL       string          `json:"url"`
	Summary   string          `json:"summary"`
	Sentiment sentiment.Label `json:"sentiment"`
}

// Params tunes one fetch. Zero values fall back to the configured defaults.
type Params struct {
	Limit    int
	Language string
}

// IndexWriter receives scored items for the append-only side index.
type IndexWriter interface {
	Put(title, url, summary string, label sentiment.Label) error
}

// Client handles Finnhub news operations.
type Client struct {
	client   *resty.Client
	apiKey   string
	limit    int
	language string
	index    IndexWriter
	logger   arbor.ILogger
}

// NewClient creates a news enrichment client. index may be nil, in which case
// items are not recorded.
func NewClient(cfg *config.Config, index IndexWriter) *Client {
	client := resty.New()
	client.SetBaseURL("https://finnhub.io/api/v1")
	client.SetTimeout(30 * time.Second)

	return &Client{
		client:   client,
		apiKey:   cfg.FinnhubAPIKey,
		limit:    cfg.NewsLimit,
		language: cfg.NewsLanguage,
		index:    index,
		logger:   common.GetLogger(),
	}
}

type finnhubNews struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// Fetch returns up to params.Limit sentiment-tagged news items for symbol.
// Every failure path logs and returns an empty list.
func (c *Client) Fetch(ctx context.Context, symbol string, params Params) []Item {
	if symbol == "" {
		return nil
	}
	if c.apiKey == "" {
		c.logger.Warn().Str("symbol", symbol).Msg("Finnhub API key not configured")
		return nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = c.limit
	}
	language := params.Language
	if language == "" {
		language = c.language
	}

	now := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"from":   now.Add(-lookbackWindow).Format("2006-01-02"),
			"to":     now.Format("2006-01-02"),
			"token":  c.apiKey,
		}).
		Get("/company-news")
	if err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to fetch news")
		return nil
	}
	if resp.StatusCode() != 200 {
		c.logger.Warn().
			Int("status", resp.StatusCode()).
			Str("symbol", symbol).
			Msg("News service returned non-200")
		return nil
	}

	var raw []finnhubNews
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to parse news response")
		return nil
	}

	// The backing service has no language filter; the preference is carried
	// on the request and recorded so a multi-source setup can honor it.
	c.logger.Debug().
		Str("symbol", symbol).
		Str("language", language).
		Int("results", len(raw)).
		Msg("Fetched company news")

	items := make([]Item, 0, limit)
	for _, article := range raw {
		if len(items) >= limit {
			break
		}
		if article.Headline == "" {
			continue
		}

		item := Item{
			Title:     article.Headline,
			URL:       article.URL,
			Summary:   article.Summary,
			Sentiment: sentiment.Classify(article.Summary),
		}
		items = append(items, item)

		c.record(item)
	}

	return items
}

// record writes one item into the side index. Best-effort: a failed write
// logs and moves on.
func (c *Client) record(item Item) {
	if c.index == nil {
		return
	}
	if err := c.index.Put(item.Title, item.URL, item.Summary, item.Sentiment); err != nil {
		c.logger.Debug().Err(err).Str("title", item.Title).Msg("Sentiment index write failed")
	}
}
