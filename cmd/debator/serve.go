package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goat-debate/backend/internal/config"
	"github.com/goat-debate/backend/internal/content"
	"github.com/goat-debate/backend/internal/debate"
	"github.com/goat-debate/backend/internal/gemini"
	"github.com/goat-debate/backend/internal/imagegen"
	"github.com/goat-debate/backend/internal/pollinations"
	"github.com/goat-debate/backend/internal/scoring"
	"github.com/goat-debate/backend/internal/server"
	"github.com/goat-debate/backend/internal/session"
	"github.com/goat-debate/backend/internal/speech"
)

const shutdownGrace = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the debate API server",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides DEBATOR_ADDR)")
	cmd.Flags().String("static-dir", "", "Directory for generated audio files (overrides DEBATOR_STATIC_DIR)")
	cmd.Flags().String("env-file", ".env", "Path to .env file")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if dir, _ := cmd.Flags().GetString("static-dir"); dir != "" {
		cfg.StaticDir = dir
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	if cfg.GoogleAPIKey == "" {
		logger.Warn("GOOGLE_API_KEY not set, primary text provider disabled")
	}
	if cfg.YarnGPTAPIKey == "" {
		logger.Warn("YARNGPT_API_KEY not set, speech audio disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	geminiClient := gemini.NewClient(cfg.GoogleAPIKey)
	provider := content.NewProvider(geminiClient, pollinations.NewClient(), logger)

	var tts speech.TTS
	if cfg.YarnGPTAPIKey != "" {
		tts = speech.NewYarnGPTClient(cfg.YarnGPTAPIKey)
	}
	store, err := speech.NewDirStore(cfg.StaticDir, "/static")
	if err != nil {
		return err
	}
	synth := speech.NewSynthesizer(tts, store, logger)

	sessions := session.NewStore(nil, nil, cfg.ScoreCap)
	scorer := scoring.NewEngine(provider, cfg.ScoreCap, logger)
	orch := debate.NewOrchestrator(sessions, provider, synth, scorer, cfg.TimeLimit, cfg.HistoryWindow, logger)
	portraits := imagegen.NewGenerator(geminiClient)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(orch, portraits, cfg.StaticDir, logger).Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
