// Package analysis composes the completion prompt and owns the timeout and
// fallback policy for the language-model stage.
package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/ternarybob/arbor"

	"github.com/tickerlens/tickerlens/config"
	"github.com/tickerlens/tickerlens/internal/common"
	"github.com/tickerlens/tickerlens/internal/llm"
	"github.com/tickerlens/tickerlens/internal/market"
)

// OutcomeKind tags the result of one analysis attempt. Callers branch on the
// kind instead of inspecting errors.
type OutcomeKind int

const (
	// OutcomeReady carries a generated analysis text.
	OutcomeReady OutcomeKind = iota
	// OutcomeNoData means no historical series could be had; the model was
	// never called.
	OutcomeNoData
	// OutcomeTimeout means the completion call exceeded the engine budget.
	// The in-flight call is abandoned, not retried.
	OutcomeTimeout
	// OutcomeFailed covers transport/parse errors and empty generations.
	OutcomeFailed
)

// Outcome is the typed result of Analyze.
type Outcome struct {
	Kind OutcomeKind
	Text string
}

// SeriesFetcher is the slice of the market data client the engine uses.
type SeriesFetcher interface {
	Daily(ctx context.Context, symbol string, size market.Size) []market.Point
}

// Request describes one analysis job. Points may be pre-supplied by the
// caller; when empty the engine fetches a compact series itself.
type Request struct {
	Symbol       string
	ChartContext string
	Points       []market.Point
}

// Engine drives the completion stage.
type Engine struct {
	model   llm.Completer
	series  SeriesFetcher
	timeout time.Duration
	logger  arbor.ILogger
}

// NewEngine creates an analysis engine from config.
func NewEngine(model llm.Completer, series SeriesFetcher, cfg *config.Config) *Engine {
	return &Engine{
		model:   model,
		series:  series,
		timeout: cfg.AnalysisTimeout,
		logger:  common.GetLogger(),
	}
}

// Analyze produces a technical analysis for the request. It never returns an
// error: every failure mode maps to an outcome kind the orchestrator can
// pattern-match on. The completion call runs under the engine's timeout and
// is not retried here.
func (e *Engine) Analyze(ctx context.Context, req Request) Outcome {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return Outcome{Kind: OutcomeFailed}
	}

	points := req.Points
	if len(points) == 0 {
		points = e.series.Daily(ctx, symbol, market.SizeCompact)
	}
	if len(points) == 0 {
		e.logger.Warn().Str("symbol", symbol).Msg("No historical data, skipping model call")
		return Outcome{Kind: OutcomeNoData}
	}

	prompt := buildPrompt(symbol, market.Digest(points), req.ChartContext)

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	msg, err := e.model.Generate(callCtx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			e.logger.Warn().Str("symbol", symbol).Msg("Analysis timed out")
			return Outcome{Kind: OutcomeTimeout}
		}
		e.logger.Warn().Err(err).Str("symbol", symbol).Msg("Analysis failed")
		return Outcome{Kind: OutcomeFailed}
	}

	text := strings.TrimSpace(msg.Content)
	if text == "" {
		e.logger.Warn().Str("symbol", symbol).Msg("Model returned empty analysis")
		return Outcome{Kind: OutcomeFailed}
	}

	if runes := []rune(text); len(runes) > maxAnalysisChars {
		text = string(runes[:maxAnalysisChars])
	}

	return Outcome{Kind: OutcomeReady, Text: text}
}
