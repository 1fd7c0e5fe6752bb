package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"newsmap/internal/ollama"
)

// DefaultTopics is the fixed taxonomy used for country digests. It can be
// overridden with NEWS_TOPICS (comma-separated); "miscellaneous" is the
// bucket for labels the matcher cannot place.
var DefaultTopics = []string{
	"conflict and protests",
	"climate",
	"health",
	"infrastructure",
	"crime",
	"culture and tourism",
	"miscellaneous",
}

type Config struct {
	// Model backend settings
	ModelEndpoint string
	EventModel    string // main extractor model
	FilterModel   string // lightweight pre-filter model
	SummaryModel  string // digest / summarization model

	EventTimeout  time.Duration // generous, the big model is slow
	FilterTimeout time.Duration // short, the gate must stay cheap

	EnablePreFilter bool

	// Topic aggregation settings
	Topics    []string
	BatchSize int

	// Chunking
	MaxChunkChars int

	// File layout
	InputDir           string
	OutputDir          string
	NewspapersPath     string
	FeedsPath          string
	ProcessedCachePath string
	CacheTTLHours      int

	// Scraper settings
	ScrapeMaxArticles int

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values mirror a local Ollama setup
		ModelEndpoint:      ollama.DefaultEndpoint,
		EventModel:         "mistral",
		FilterModel:        "gemma:1b",
		SummaryModel:       "mistral",
		EventTimeout:       60 * time.Second,
		FilterTimeout:      30 * time.Second,
		EnablePreFilter:    true,
		Topics:             DefaultTopics,
		BatchSize:          15,
		MaxChunkChars:      2000,
		InputDir:           "data/articles",
		OutputDir:          "data/processed",
		NewspapersPath:     "configs/newspapers.yaml",
		FeedsPath:          "configs/feeds.yaml",
		ProcessedCachePath: "data/processed_articles.json",
		CacheTTLHours:      72,
		ScrapeMaxArticles:  30,
	}

	if v := os.Getenv("MODEL_ENDPOINT"); v != "" {
		cfg.ModelEndpoint = v
	}
	if v := os.Getenv("EVENT_MODEL"); v != "" {
		cfg.EventModel = v
	}
	if v := os.Getenv("FILTER_MODEL"); v != "" {
		cfg.FilterModel = v
	}
	if v := os.Getenv("SUMMARY_MODEL"); v != "" {
		cfg.SummaryModel = v
	}
	if v := os.Getenv("ENABLE_PRE_FILTER"); v != "" {
		cfg.EnablePreFilter = v == "true"
	}
	if v := os.Getenv("NEWS_TOPICS"); v != "" {
		topics := strings.Split(v, ",")
		for i := range topics {
			topics[i] = strings.TrimSpace(topics[i])
		}
		cfg.Topics = topics
	}

	cfg.InputDir = getEnvOrDefault("INPUT_DIR", cfg.InputDir)
	cfg.OutputDir = getEnvOrDefault("OUTPUT_DIR", cfg.OutputDir)
	cfg.NewspapersPath = getEnvOrDefault("NEWSPAPERS_CONFIG", cfg.NewspapersPath)
	cfg.FeedsPath = getEnvOrDefault("FEEDS_CONFIG", cfg.FeedsPath)
	cfg.ProcessedCachePath = getEnvOrDefault("PROCESSED_CACHE_PATH", cfg.ProcessedCachePath)

	cfg.BatchSize = getEnvIntOrDefault("TOPIC_BATCH_SIZE", cfg.BatchSize)
	cfg.MaxChunkChars = getEnvIntOrDefault("MAX_CHUNK_CHARS", cfg.MaxChunkChars)
	cfg.CacheTTLHours = getEnvIntOrDefault("CACHE_TTL_HOURS", cfg.CacheTTLHours)
	cfg.ScrapeMaxArticles = getEnvIntOrDefault("SCRAPE_MAX_ARTICLES", cfg.ScrapeMaxArticles)

	if v := os.Getenv("EVENT_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.EventTimeout = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("FILTER_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.FilterTimeout = time.Duration(val) * time.Second
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.ModelEndpoint == "" {
		return fmt.Errorf("MODEL_ENDPOINT is required")
	}
	if c.EventModel == "" || c.SummaryModel == "" {
		return fmt.Errorf("EVENT_MODEL and SUMMARY_MODEL are required")
	}
	if c.EnablePreFilter && c.FilterModel == "" {
		return fmt.Errorf("FILTER_MODEL is required when the pre-filter is enabled")
	}
	if len(c.Topics) == 0 {
		return fmt.Errorf("at least one topic is required")
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("TOPIC_BATCH_SIZE must be positive")
	}
	if c.EnablePreFilter && c.FilterTimeout >= c.EventTimeout {
		return fmt.Errorf("filter timeout must be shorter than the event timeout")
	}
	return nil
}
