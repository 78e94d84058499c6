// Package vision extracts text from rendered chart images through the
// OCR.space API and shapes it into a prompt fragment for the analysis engine.
//
// Extraction failure is non-fatal by contract: callers proceed to analysis
// with a degraded fragment instead of aborting.
package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"

	"github.com/tickerlens/tickerlens/config"
	"github.com/tickerlens/tickerlens/internal/common"
)

// ErrOCRFailed marks a failed extraction. The analysis engine treats it as
// missing context, never as a reason to stop.
var ErrOCRFailed = errors.New("ocr extraction failed")

// Client handles OCR.space API operations.
type Client struct {
	client *resty.Client
	apiKey string
	logger arbor.ILogger
}

// NewClient creates a new text extraction client.
func NewClient(cfg *config.Config) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.OCRBaseURL)
	client.SetTimeout(30 * time.Second)

	return &Client{
		client: client,
		apiKey: cfg.OCRAPIKey,
		logger: common.GetLogger(),
	}
}

type ocrResponse struct {
	OCRExitCode   int `json:"OCRExitCode"`
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
}

// Extract runs OCR on the chart image at imageURL and returns an
// analysis-ready prompt fragment. An image with no detectable text is a valid
// result, not an error.
func (c *Client) Extract(ctx context.Context, imageURL string) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":            c.apiKey,
			"url":               imageURL,
			"language":          "eng",
			"isOverlayRequired": "false",
			"filetype":          "PNG",
			"detectOrientation": "true",
			"OCREngine":         "2",
			"scale":             "true",
		}).
		Get("/parse/imageurl")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("%w: status %d", ErrOCRFailed, resp.StatusCode())
	}

	var result ocrResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrOCRFailed, err)
	}
	if result.OCRExitCode != 1 {
		return "", fmt.Errorf("%w: exit code %d", ErrOCRFailed, result.OCRExitCode)
	}

	var lines []string
	for _, page := range result.ParsedResults {
		for _, line := range strings.Split(page.ParsedText, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
	}

	return Fragment(lines), nil
}

// Fragment builds the fixed report template around the detected text lines.
func Fragment(lines []string) string {
	var b strings.Builder
	b.WriteString("Stock Chart Analysis Results:\n")
	b.WriteString("\nText detected in chart:\n")

	if len(lines) == 0 {
		b.WriteString("- No text was detected in the chart image.\n")
	} else {
		for _, line := range lines {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	return fmt.Sprintf(`Based on the following elements detected in the stock chart:

%s
Please analyze:
1. Current price trend and momentum
2. Key support and resistance levels
3. Notable patterns or formations
4. Trading volume analysis if visible
5. Overall market sentiment based on indicators
6. Potential trading opportunities and risks
`, b.String())
}
