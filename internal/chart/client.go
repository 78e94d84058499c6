// Package chart wraps the chart-image rendering service.
package chart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"

	"github.com/tickerlens/tickerlens/config"
	"github.com/tickerlens/tickerlens/internal/common"
)

// ErrChartUnavailable covers every way the render service can fail: the
// orchestrator only needs to know the chart cannot be had, not why.
var ErrChartUnavailable = errors.New("chart unavailable")

// Artifact is a rendered chart for one symbol. Ephemeral; it lives only for
// the duration of a request.
type Artifact struct {
	Symbol   string `json:"symbol"`
	ImageURL string `json:"image_url"`
}

// Client handles chart rendering operations.
type Client struct {
	client   *resty.Client
	apiKey   string
	interval string
	logger   arbor.ILogger
}

// NewClient creates a new chart renderer client.
func NewClient(cfg *config.Config) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.ChartBaseURL)
	client.SetTimeout(30 * time.Second)

	return &Client{
		client:   client,
		apiKey:   cfg.ChartAPIKey,
		interval: cfg.ChartInterval,
		logger:   common.GetLogger(),
	}
}

// Render requests a chart image for symbol at the configured interval. No
// retries here; retry policy belongs to the orchestrator.
func (c *Client) Render(ctx context.Context, symbol string) (*Artifact, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":   symbol,
			"interval": c.interval,
			"apikey":   c.apiKey,
		}).
		Get("/chart")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChartUnavailable, err)
	}
	if resp.StatusCode() != 200 {
		c.logger.Warn().
			Int("status", resp.StatusCode()).
			Str("symbol", symbol).
			Msg("Chart service returned non-200")
		return nil, fmt.Errorf("%w: status %d", ErrChartUnavailable, resp.StatusCode())
	}

	var payload struct {
		ChartURL string `json:"chart_url"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrChartUnavailable, err)
	}
	if payload.ChartURL == "" {
		return nil, fmt.Errorf("%w: empty chart_url in response", ErrChartUnavailable)
	}

	return &Artifact{Symbol: symbol, ImageURL: payload.ChartURL}, nil
}
