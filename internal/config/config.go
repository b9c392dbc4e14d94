package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	APIAddr string `env:"API_ADDR" envDefault:":8080"`
	Debug   bool   `env:"DEBUG" envDefault:"false"`

	ResultCap       int     `env:"RESULT_CAP" envDefault:"10"`
	HistoryWindow   int     `env:"HISTORY_WINDOW" envDefault:"10"`
	TranscriptLimit int     `env:"TRANSCRIPT_LIMIT" envDefault:"30"`
	ChatMaxTokens   int     `env:"CHAT_MAX_TOKENS" envDefault:"400"`
	ChatTemperature float64 `env:"CHAT_TEMPERATURE" envDefault:"0.7"`
	SummaryModel    string  `env:"SUMMARY_MODEL" envDefault:"llama-3.3-70b-versatile"`
	ChatModel       string  `env:"CHAT_MODEL" envDefault:"llama-3.3-70b-versatile"`
	SummaryWorkers  int     `env:"SUMMARY_WORKERS" envDefault:"1"`

	LLMProviders   string `env:"LLM_PROVIDERS" envDefault:"groq"`
	SearchProvider string `env:"SEARCH_PROVIDER" envDefault:"arxiv"`
	ArxivBaseURL   string `env:"ARXIV_BASE_URL" envDefault:"https://export.arxiv.org/api/query"`

	// Empty disables the completion-call audit log.
	PostgresURL string `env:"POSTGRES_URL"`

	TemporalEnabled   bool   `env:"TEMPORAL_ENABLED" envDefault:"false"`
	TemporalAddress   string `env:"TEMPORAL_ADDRESS" envDefault:"localhost:7233"`
	TemporalTaskQueue string `env:"TEMPORAL_TASK_QUEUE" envDefault:"frontier"`
}

func Load() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "FRONTIER_"})
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration with every default applied and no environment lookups.
func Default() Config {
	return Config{
		APIAddr:           ":8080",
		ResultCap:         10,
		HistoryWindow:     10,
		TranscriptLimit:   30,
		ChatMaxTokens:     400,
		ChatTemperature:   0.7,
		SummaryModel:      "llama-3.3-70b-versatile",
		ChatModel:         "llama-3.3-70b-versatile",
		SummaryWorkers:    1,
		LLMProviders:      "groq",
		SearchProvider:    "arxiv",
		ArxivBaseURL:      "https://export.arxiv.org/api/query",
		TemporalAddress:   "localhost:7233",
		TemporalTaskQueue: "frontier",
	}
}

func (c Config) Validate() error {
	switch {
	case c.ResultCap <= 0:
		return fmt.Errorf("result cap must be positive, got %d", c.ResultCap)
	case c.HistoryWindow < 0:
		return fmt.Errorf("history window must not be negative, got %d", c.HistoryWindow)
	case c.TranscriptLimit <= 0:
		return fmt.Errorf("transcript limit must be positive, got %d", c.TranscriptLimit)
	case c.ChatMaxTokens <= 0:
		return fmt.Errorf("chat max tokens must be positive, got %d", c.ChatMaxTokens)
	case c.SummaryWorkers <= 0:
		return fmt.Errorf("summary workers must be positive, got %d", c.SummaryWorkers)
	}
	return nil
}
