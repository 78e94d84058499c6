// Package server exposes the Telegram webhook endpoint and hands normalized
// updates to the pipeline.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/tickerlens/tickerlens/config"
	"github.com/tickerlens/tickerlens/internal/common"
	"github.com/tickerlens/tickerlens/internal/pipeline"
	"github.com/tickerlens/tickerlens/internal/telegram"
)

// Server receives webhook updates and runs the pipeline per request.
type Server struct {
	httpServer *http.Server
	orch       *pipeline.Orchestrator
	logger     arbor.ILogger
}

// New builds the webhook server around an orchestrator.
func New(cfg *config.Config, orch *pipeline.Orchestrator) *Server {
	s := &Server{
		orch:   orch,
		logger: common.GetLogger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// handleWebhook always answers success: Telegram retries failed deliveries,
// and a malformed or unusable update will not get better on the second try.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	defer s.respondOK(w)

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to decode webhook update")
		return
	}

	inbound, ok := telegram.Normalize(&update)
	if !ok {
		return
	}

	symbol := telegram.ExtractSymbol(inbound.Text)
	if symbol == "" {
		return
	}

	// One request, one task. The webhook must return immediately; the
	// pipeline runs on its own clock.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		out := s.orch.Run(ctx, pipeline.Request{ChatID: inbound.ChatID, Symbol: symbol})
		s.logger.Info().
			Str("symbol", out.Symbol).
			Str("state", string(out.Terminal())).
			Bool("chart_ok", out.ChartOK).
			Bool("analysis_ok", out.AnalysisOK).
			Bool("news_ok", out.NewsOK).
			Msg("Pipeline run finished")
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) respondOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"success"}`))
}

// ListenAndServe blocks until the server exits.
func (s *Server) ListenAndServe() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("Webhook server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
