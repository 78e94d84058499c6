package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tickerlens/tickerlens/config"
	"github.com/tickerlens/tickerlens/internal/analysis"
	"github.com/tickerlens/tickerlens/internal/chart"
	"github.com/tickerlens/tickerlens/internal/market"
	"github.com/tickerlens/tickerlens/internal/news"
	"github.com/tickerlens/tickerlens/internal/pipeline"
)

type stubRenderer struct{ calls atomic.Int32 }

func (s *stubRenderer) Render(ctx context.Context, symbol string) (*chart.Artifact, error) {
	s.calls.Add(1)
	return &chart.Artifact{Symbol: symbol, ImageURL: "https://charts.example.com/c.png"}, nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(ctx context.Context, imageURL string) (string, error) {
	return "", nil
}

type stubSeries struct{}

func (stubSeries) Daily(ctx context.Context, symbol string, size market.Size) []market.Point {
	return nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, req analysis.Request) analysis.Outcome {
	return analysis.Outcome{Kind: analysis.OutcomeNoData}
}

type stubNews struct{}

func (stubNews) Fetch(ctx context.Context, symbol string, params news.Params) []news.Item {
	return nil
}

// signalSender closes done once the chart photo goes out, which happens
// strictly after the render call.
type signalSender struct {
	done   chan struct{}
	photos atomic.Int32
}

func (s *signalSender) SendText(ctx context.Context, chatID int64, text string) error {
	return nil
}

func (s *signalSender) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error {
	if s.photos.Add(1) == 1 {
		close(s.done)
	}
	return nil
}

func newTestServer() (*Server, *stubRenderer, *signalSender) {
	renderer := &stubRenderer{}
	sender := &signalSender{done: make(chan struct{})}
	orch := pipeline.New(renderer, stubExtractor{}, stubSeries{}, stubAnalyzer{}, stubNews{}, sender)
	return New(&config.Config{ListenAddr: ":0"}, orch), renderer, sender
}

func postWebhook(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleWebhook(rec, req)
	return rec
}

func TestWebhookDispatchesPipeline(t *testing.T) {
	s, renderer, sender := newTestServer()

	rec := postWebhook(t, s, `{"update_id":1,"message":{"chat":{"id":7},"text":"/stock aapl"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"status":"success"}` {
		t.Fatalf("body = %q", got)
	}

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline never started")
	}
	if renderer.calls.Load() == 0 {
		t.Error("renderer not invoked for dispatched update")
	}
}

func TestWebhookAlwaysAnswersSuccess(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"update_id":`},
		{"no message", `{"update_id":2}`},
		{"command without symbol", `{"update_id":3,"message":{"chat":{"id":7},"text":"/start"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, renderer, _ := newTestServer()
			rec := postWebhook(t, s, tc.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := rec.Body.String(); got != `{"status":"success"}` {
				t.Fatalf("body = %q", got)
			}
			if renderer.calls.Load() != 0 {
				t.Error("pipeline dispatched for unusable update")
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("body = %q", rec.Body.String())
	}
}
