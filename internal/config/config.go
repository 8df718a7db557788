// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// GoogleAPIKey enables the primary Gemini text/image provider. Empty is
	// valid: text generation falls through to the free fallback provider.
	GoogleAPIKey string
	// YarnGPTAPIKey enables speech synthesis. Empty disables audio.
	YarnGPTAPIKey string

	Addr          string
	StaticDir     string
	TimeLimit     time.Duration
	HistoryWindow int
	ScoreCap      int
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	addr := os.Getenv("DEBATOR_ADDR")
	if addr == "" {
		addr = ":8000"
	}
	staticDir := os.Getenv("DEBATOR_STATIC_DIR")
	if staticDir == "" {
		staticDir = "static"
	}

	timeLimitSecs, err := envInt("DEBATOR_TIME_LIMIT", 300)
	if err != nil {
		return nil, err
	}
	historyWindow, err := envInt("DEBATOR_HISTORY_WINDOW", 5)
	if err != nil {
		return nil, err
	}
	scoreCap, err := envInt("DEBATOR_SCORE_CAP", 20)
	if err != nil {
		return nil, err
	}

	if timeLimitSecs < 1 {
		return nil, fmt.Errorf("config: DEBATOR_TIME_LIMIT must be >= 1, got %d", timeLimitSecs)
	}
	if historyWindow < 1 {
		return nil, fmt.Errorf("config: DEBATOR_HISTORY_WINDOW must be >= 1, got %d", historyWindow)
	}
	if scoreCap < 1 {
		return nil, fmt.Errorf("config: DEBATOR_SCORE_CAP must be >= 1, got %d", scoreCap)
	}

	return &Config{
		GoogleAPIKey:  os.Getenv("GOOGLE_API_KEY"),
		YarnGPTAPIKey: os.Getenv("YARNGPT_API_KEY"),
		Addr:          addr,
		StaticDir:     staticDir,
		TimeLimit:     time.Duration(timeLimitSecs) * time.Second,
		HistoryWindow: historyWindow,
		ScoreCap:      scoreCap,
	}, nil
}

// LoadDotEnv loads variables from a .env file; existing environment
// variables win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: loading .env: %w", err)
	}
	return nil
}

func envInt(key string, defaultVal int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s value %q: %w", key, s, err)
	}
	return v, nil
}
