package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/quorumlab/quorum/internal/debate"
)

type Config struct {
	// Server
	Port        string
	Host        string
	Environment string

	// Request limits
	BodyLimit          int
	MaxPRDChars        int
	RateLimitPerMinute int
	LLMRateLimitPerMin int

	// CORS
	CORSAllowedOrigins string

	// Providers
	Provider     string
	GoogleAPIKey string
	OpenAIAPIKey string
	OllamaHost   string

	// Debate policy
	Debate debate.Config
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	d := debate.DefaultConfig()
	d.Provider = getEnv("LLM_PROVIDER", d.Provider)
	d.TurnModel = getEnv("TURN_MODEL", d.TurnModel)
	d.EvalModel = getEnv("EVAL_MODEL", d.EvalModel)
	d.SynthesisModel = getEnv("SYNTHESIS_MODEL", d.SynthesisModel)
	d.SelectModel = getEnv("SELECT_MODEL", d.SelectModel)
	d.MaxTurnWords = getIntEnv("MAX_TURN_WORDS", d.MaxTurnWords)
	d.MaxRounds = getIntEnv("MAX_ROUNDS", d.MaxRounds)
	d.MaxTotalTurns = getIntEnv("MAX_TOTAL_TURNS", d.MaxTotalTurns)
	d.MinRoundsBeforeStop = getIntEnv("MIN_ROUNDS_BEFORE_STOP", d.MinRoundsBeforeStop)
	d.TurnTimeout = getDurationEnv("TURN_TIMEOUT", d.TurnTimeout)
	d.EvalTimeout = getDurationEnv("EVAL_TIMEOUT", d.EvalTimeout)
	d.SynthesisTimeout = getDurationEnv("SYNTHESIS_TIMEOUT", d.SynthesisTimeout)
	d.SelectTimeout = getDurationEnv("SELECT_TIMEOUT", d.SelectTimeout)
	d.SessionBudget = getDurationEnv("SESSION_BUDGET", d.SessionBudget)
	d.TurnPacing = getDurationEnv("TURN_PACING", d.TurnPacing)
	d.EvalPacing = getDurationEnv("EVAL_PACING", d.EvalPacing)

	cfg := &Config{
		// Server defaults
		Port:        getEnv("PORT", "8080"),
		Host:        getEnv("HOST", "0.0.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Request limits
		BodyLimit:          getIntEnv("BODY_LIMIT", 200*1024), // 200KB
		MaxPRDChars:        getIntEnv("MAX_PRD_CHARS", 8000),
		RateLimitPerMinute: getIntEnv("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
		LLMRateLimitPerMin: getIntEnv("LLM_RATE_LIMIT_REQUESTS_PER_MINUTE", 10),

		// CORS
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		// Providers
		Provider:     d.Provider,
		GoogleAPIKey: getEnv("GOOGLE_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OllamaHost:   getEnv("OLLAMA_HOST", "http://localhost:11434"),

		Debate: d,
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
