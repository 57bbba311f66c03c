package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/quorumlab/quorum/internal/api/routes"
	"github.com/quorumlab/quorum/internal/config"
	"github.com/quorumlab/quorum/internal/debate"
	"github.com/quorumlab/quorum/internal/gate"
	"github.com/quorumlab/quorum/internal/llm"
	"github.com/quorumlab/quorum/internal/llm/google"
	"github.com/quorumlab/quorum/internal/llm/ollama"
	"github.com/quorumlab/quorum/internal/llm/openai"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := newLogger(cfg.Environment)

	// Register LLM providers
	llmManager := llm.NewManager()
	llmManager.RegisterProvider(google.NewClient(cfg.GoogleAPIKey))
	llmManager.RegisterProvider(ollama.NewClient(cfg.OllamaHost))
	llmManager.RegisterProvider(openai.NewClient(cfg.OpenAIAPIKey))
	logger.Info().Int("providers", len(llmManager.ListProviders())).
		Str("active", cfg.Debate.Provider).Msg("LLM providers registered")

	// Debate engine and admission gate
	engine := debate.NewEngine(llmManager, cfg.Debate, logger)
	admission := gate.New()

	// Setup routes
	app := routes.Setup(&routes.Dependencies{
		Config: cfg,
		Engine: engine,
		Gate:   admission,
		Logger: logger,
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info().Msg("gracefully shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("error during shutdown")
		}
	}()

	// Start server
	addr := cfg.Host + ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("environment", cfg.Environment).Msg("starting quorum server")

	if err := app.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}

func newLogger(environment string) zerolog.Logger {
	if environment == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
