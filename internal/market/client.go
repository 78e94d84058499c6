// Package market fetches daily historical price series from Alpha Vantage and
// condenses them into the textual digest fed to the analysis model.
//
// Absence of data is a valid state here, not an error: every failure path
// logs and returns an empty series so callers never need a second code path.
package market

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/ternarybob/arbor"

	"github.com/tickerlens/tickerlens/config"
	"github.com/tickerlens/tickerlens/internal/common"
)

// Size selects how much of the daily series Alpha Vantage returns.
type Size string

const (
	SizeCompact Size = "compact" // last ~100 data points
	SizeFull    Size = "full"    // full-length history
)

// Point is one day of the historical series.
type Point struct {
	Date   time.Time       `json:"date"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// Client handles Alpha Vantage API operations.
type Client struct {
	client *resty.Client
	cache  *cacheManager
	apiKey string
	logger arbor.ILogger
}

// NewClient creates a new market data client.
func NewClient(cfg *config.Config) *Client {
	cacheDir := filepath.Join(cfg.DataDir, "cache", "alphavantage")
	cache := newCacheManager(cacheDir, 15*time.Minute, cfg.CacheEnabled)

	client := resty.New()
	client.SetBaseURL("https://www.alphavantage.co")
	client.SetTimeout(30 * time.Second)

	return &Client{
		client: client,
		cache:  cache,
		apiKey: cfg.AlphaVantageAPIKey,
		logger: common.GetLogger(),
	}
}

// Daily returns the daily close/volume series for symbol, newest ordering not
// guaranteed. Any failure (missing key, transport, bad payload) yields an
// empty slice.
func (c *Client) Daily(ctx context.Context, symbol string, size Size) []Point {
	if symbol == "" {
		return nil
	}
	if c.apiKey == "" {
		c.logger.Warn().Str("symbol", symbol).Msg("Alpha Vantage API key not configured")
		return nil
	}
	if size != SizeFull {
		size = SizeCompact
	}

	cacheKey := map[string]string{"symbol": symbol, "size": string(size)}
	var cached []Point
	if c.cache.get("daily", cacheKey, &cached) {
		return cached
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   "TIME_SERIES_DAILY",
			"symbol":     symbol,
			"outputsize": string(size),
			"apikey":     c.apiKey,
		}).
		Get("/query")
	if err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to fetch historical data")
		return nil
	}
	if resp.StatusCode() != 200 {
		c.logger.Warn().
			Int("status", resp.StatusCode()).
			Str("symbol", symbol).
			Msg("Alpha Vantage returned non-200")
		return nil
	}

	var payload struct {
		TimeSeries map[string]map[string]string `json:"Time Series (Daily)"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to parse historical data response")
		return nil
	}
	if len(payload.TimeSeries) == 0 {
		c.logger.Warn().Str("symbol", symbol).Msg("No time series data found")
		return nil
	}

	points := make([]Point, 0, len(payload.TimeSeries))
	for date, values := range payload.TimeSeries {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.logger.Debug().Str("date", date).Msg("Skipping unparsable series date")
			continue
		}
		closePrice, err := decimal.NewFromString(values["4. close"])
		if err != nil {
			c.logger.Debug().Str("date", date).Msg("Skipping point with bad close price")
			continue
		}
		volume, err := strconv.ParseInt(values["5. volume"], 10, 64)
		if err != nil {
			c.logger.Debug().Str("date", date).Msg("Skipping point with bad volume")
			continue
		}
		points = append(points, Point{Date: day, Close: closePrice, Volume: volume})
	}

	c.cache.set("daily", cacheKey, points)

	return points
}

// SortDescending orders points newest first, in place.
func SortDescending(points []Point) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.After(points[j].Date)
	})
}
