// Package pipeline drives the end-to-end request sequence: chart render, text
// extraction, model analysis, news enrichment, delivery. Each stage has its
// own failure contract; nothing propagates past this package. The user always
// receives readable text, never a raw error.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/tickerlens/tickerlens/internal/analysis"
	"github.com/tickerlens/tickerlens/internal/chart"
	"github.com/tickerlens/tickerlens/internal/common"
	"github.com/tickerlens/tickerlens/internal/market"
	"github.com/tickerlens/tickerlens/internal/news"
)

// Sender delivers outbound messages. Implemented by the telegram client; a
// stdout sender backs the CLI.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error
}

// Renderer is the chart stage dependency.
type Renderer interface {
	Render(ctx context.Context, symbol string) (*chart.Artifact, error)
}

// Extractor is the OCR stage dependency.
type Extractor interface {
	Extract(ctx context.Context, imageURL string) (string, error)
}

// Analyzer is the completion stage dependency.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) analysis.Outcome
}

// NewsFetcher is the enrichment stage dependency.
type NewsFetcher interface {
	Fetch(ctx context.Context, symbol string, params news.Params) []news.Item
}

// Request is one normalized inbound command.
type Request struct {
	ChatID int64
	Symbol string
}

// Orchestrator coordinates the stages for one request at a time. It is
// stateless between requests and safe for concurrent Run calls.
type Orchestrator struct {
	charts Renderer
	ocr    Extractor
	series analysis.SeriesFetcher
	engine Analyzer
	news   NewsFetcher
	sender Sender
	logger arbor.ILogger
}

// New wires an orchestrator from its stage dependencies.
func New(charts Renderer, ocr Extractor, series analysis.SeriesFetcher, engine Analyzer, newsClient NewsFetcher, sender Sender) *Orchestrator {
	return &Orchestrator{
		charts: charts,
		ocr:    ocr,
		series: series,
		engine: engine,
		news:   newsClient,
		sender: sender,
		logger: common.GetLogger(),
	}
}

// Run executes the full pipeline for req and returns the aggregate outcome.
// It never returns an error; per-stage failures are folded into the outcome
// and into what the user sees.
func (o *Orchestrator) Run(ctx context.Context, req Request) *Outcome {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	out := &Outcome{Symbol: symbol}
	out.transition(StateReceived)

	o.sendText(ctx, req.ChatID, out, fmt.Sprintf("Fetching chart for %s...", symbol))

	out.transition(StateChartRequested)
	artifact, err := o.renderChart(ctx, symbol)
	if err != nil {
		out.transition(StateChartFailed)
		o.logger.Warn().Err(err).Str("symbol", symbol).Msg("Chart stage failed, stopping pipeline")
		o.sendText(ctx, req.ChatID, out,
			fmt.Sprintf("Sorry, I couldn't fetch a chart for %s. Please check the symbol and try again.", symbol))
		return out
	}
	out.transition(StateChartReady)
	out.ChartOK = true

	// Chart delivery must never wait on downstream stages.
	o.sendPhoto(ctx, req.ChatID, out, artifact.ImageURL, fmt.Sprintf("%s chart", symbol))

	fragment, points := o.gatherAnalysisInputs(ctx, symbol, artifact.ImageURL)

	out.transition(StateAnalysisRequested)
	result := o.analyze(ctx, analysis.Request{Symbol: symbol, ChartContext: fragment, Points: points})
	switch result.Kind {
	case analysis.OutcomeReady:
		out.transition(StateAnalysisReady)
		out.AnalysisOK = true
		o.sendText(ctx, req.ChatID, out, result.Text)
	case analysis.OutcomeTimeout:
		out.transition(StateAnalysisTimedOut)
		o.sendText(ctx, req.ChatID, out,
			fmt.Sprintf("The analysis for %s is taking longer than expected. Here is the chart in the meantime.", symbol))
	case analysis.OutcomeNoData:
		out.transition(StateAnalysisFailed)
		o.sendText(ctx, req.ChatID, out,
			fmt.Sprintf("I couldn't fetch historical data for %s, so no analysis is available. Please check if the symbol is correct.", symbol))
	default:
		out.transition(StateAnalysisFailed)
		o.sendText(ctx, req.ChatID, out,
			fmt.Sprintf("Sorry, the analysis for %s failed. Here is the chart anyway.", symbol))
	}

	// News runs regardless of the analysis outcome.
	out.transition(StateNewsRequested)
	o.sendText(ctx, req.ChatID, out, "Fetching news...")

	items := o.fetchNews(ctx, symbol)
	if len(items) == 0 {
		out.transition(StateNewsEmpty)
		o.sendText(ctx, req.ChatID, out, fmt.Sprintf("No recent news found for %s.", symbol))
	} else {
		out.transition(StateNewsReady)
		out.NewsOK = true
		for _, item := range items {
			o.sendText(ctx, req.ChatID, out, FormatNewsItem(item))
		}
	}

	out.transition(StateCompleted)
	return out
}

// FormatNewsItem renders one news item for delivery: glyph, linked title,
// sentiment label.
func FormatNewsItem(item news.Item) string {
	return fmt.Sprintf("%s [%s](%s) — %s", item.Sentiment.Glyph(), item.Title, item.URL, item.Sentiment)
}

// renderChart runs the chart stage with one retry; a panic inside the client
// becomes a stage failure.
func (o *Orchestrator) renderChart(ctx context.Context, symbol string) (artifact *chart.Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			artifact, err = nil, fmt.Errorf("chart stage panicked: %v", r)
		}
	}()

	artifact, err = o.charts.Render(ctx, symbol)
	if err != nil {
		artifact, err = o.charts.Render(ctx, symbol)
	}
	return artifact, err
}

// gatherAnalysisInputs issues the OCR extraction and the historical fetch
// concurrently and joins both before the prompt is composed. Either side
// failing degrades the analysis input; neither aborts the run.
func (o *Orchestrator) gatherAnalysisInputs(ctx context.Context, symbol, imageURL string) (string, []market.Point) {
	var (
		wg       sync.WaitGroup
		fragment string
		points   []market.Point
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				o.logger.Warn().Str("symbol", symbol).Msgf("OCR stage panicked: %v", r)
			}
		}()
		text, err := o.ocr.Extract(ctx, imageURL)
		if err != nil {
			o.logger.Warn().Err(err).Str("symbol", symbol).Msg("OCR failed, analysis proceeds without chart context")
			return
		}
		fragment = text
	}()
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				o.logger.Warn().Str("symbol", symbol).Msgf("Market data stage panicked: %v", r)
			}
		}()
		points = o.series.Daily(ctx, symbol, market.SizeCompact)
	}()
	wg.Wait()

	return fragment, points
}

func (o *Orchestrator) analyze(ctx context.Context, req analysis.Request) (result analysis.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn().Str("symbol", req.Symbol).Msgf("Analysis stage panicked: %v", r)
			result = analysis.Outcome{Kind: analysis.OutcomeFailed}
		}
	}()
	return o.engine.Analyze(ctx, req)
}

func (o *Orchestrator) fetchNews(ctx context.Context, symbol string) (items []news.Item) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn().Str("symbol", symbol).Msgf("News stage panicked: %v", r)
			items = nil
		}
	}()
	return o.news.Fetch(ctx, symbol, news.Params{})
}

// sendText delivers a text message, recording it on the outcome. Delivery
// errors are logged and swallowed; there is no higher authority to report to.
func (o *Orchestrator) sendText(ctx context.Context, chatID int64, out *Outcome, text string) {
	out.Sent = append(out.Sent, Message{Kind: MessageText, Text: text})
	if err := o.sender.SendText(ctx, chatID, text); err != nil {
		o.logger.Warn().Err(err).Str("chat_id", strconv.FormatInt(chatID, 10)).Msg("Failed to deliver text message")
	}
}

func (o *Orchestrator) sendPhoto(ctx context.Context, chatID int64, out *Outcome, photoURL, caption string) {
	out.Sent = append(out.Sent, Message{Kind: MessagePhoto, PhotoURL: photoURL, Text: caption})
	if err := o.sender.SendPhoto(ctx, chatID, photoURL, caption); err != nil {
		o.logger.Warn().Err(err).Str("chat_id", strconv.FormatInt(chatID, 10)).Msg("Failed to deliver photo")
	}
}
