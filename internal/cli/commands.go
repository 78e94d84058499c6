// Package cli defines the tickerlens command tree: a webhook server for
// Telegram and a one-shot analyze mode for the terminal.
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickerlens/tickerlens/config"
	"github.com/tickerlens/tickerlens/internal/analysis"
	"github.com/tickerlens/tickerlens/internal/chart"
	"github.com/tickerlens/tickerlens/internal/common"
	"github.com/tickerlens/tickerlens/internal/llm"
	"github.com/tickerlens/tickerlens/internal/market"
	"github.com/tickerlens/tickerlens/internal/news"
	"github.com/tickerlens/tickerlens/internal/pipeline"
	"github.com/tickerlens/tickerlens/internal/sentiment/index"
	"github.com/tickerlens/tickerlens/internal/server"
	"github.com/tickerlens/tickerlens/internal/telegram"
	"github.com/tickerlens/tickerlens/internal/vision"
)

// version is overridden at build time via -ldflags.
var version = "0.1.0"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "tickerlens",
		Short: "TickerLens - chart, analysis and news delivery for stock symbols",
		Long: `TickerLens turns a stock symbol into a chart image, an AI market analysis
and a sentiment-tagged news digest, delivered over Telegram or to the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(newServeCmd(cfg))
	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newServeCmd creates the serve command: the Telegram webhook server.
func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ValidateForServe(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			orch, cleanup, err := buildOrchestrator(ctx, cfg, telegram.NewClient(cfg))
			if err != nil {
				return err
			}
			defer cleanup()

			srv := server.New(cfg, orch)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			logger := common.GetLogger()
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info().Msg("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}

// newAnalyzeCmd creates the analyze command: one pipeline run printed to the
// terminal instead of a chat.
func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze SYMBOL",
		Short: "Run one analysis for a stock symbol and print the result",
		Long: `Run the full pipeline for a single ticker symbol and print every message
it would have sent to a chat.
Example: tickerlens analyze AAPL`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol := strings.ToUpper(strings.TrimSpace(args[0]))
			if symbol == "" {
				return fmt.Errorf("symbol must not be empty")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			orch, cleanup, err := buildOrchestrator(ctx, cfg, consoleSender{})
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Println(titleStyle.Render(fmt.Sprintf("TickerLens · %s", symbol)))

			out := orch.Run(ctx, pipeline.Request{Symbol: symbol})
			if out.Terminal() != pipeline.StateCompleted {
				fmt.Println(errorStyle.Render(fmt.Sprintf("Run ended in state %s", out.Terminal())))
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tickerlens %s\n", version)
		},
	}
}

// buildOrchestrator wires every pipeline stage from config. The returned
// cleanup closes the sentiment index and must run after the last pipeline run.
func buildOrchestrator(ctx context.Context, cfg *config.Config, sender pipeline.Sender) (*pipeline.Orchestrator, func(), error) {
	logger := common.GetLogger()

	store, err := index.Open(cfg.IndexDir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sentiment index: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close sentiment index")
		}
	}

	model, err := llm.NewDeepSeek(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to build model client: %w", err)
	}

	marketClient := market.NewClient(cfg)
	engine := analysis.NewEngine(model, marketClient, cfg)

	orch := pipeline.New(
		chart.NewClient(cfg),
		vision.NewClient(cfg),
		marketClient,
		engine,
		news.NewClient(cfg, store),
		sender,
	)
	return orch, cleanup, nil
}
