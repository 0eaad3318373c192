package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug bool `envconfig:"DEBUG" default:"false"`

	// Acquisition
	StrategyTimeout time.Duration `envconfig:"STRATEGY_TIMEOUT" default:"20s"`
	YtdlpPath       string        `envconfig:"YTDLP_PATH" default:"yt-dlp"`

	// Chunking
	TargetWords  int `envconfig:"CHUNK_TARGET_WORDS" default:"250"`
	OverlapWords int `envconfig:"CHUNK_OVERLAP_WORDS" default:"40"`
	MaxChunks    int `envconfig:"MAX_CHUNKS" default:"16"`

	// Retrieval
	DesiredChunks     int `envconfig:"RETRIEVAL_DESIRED_CHUNKS" default:"8"`
	MinTierResults    int `envconfig:"RETRIEVAL_MIN_TIER_RESULTS" default:"4"`
	ContextCharBudget int `envconfig:"RETRIEVAL_CONTEXT_CHAR_BUDGET" default:"12000"`

	// Cache
	ArtifactTTL time.Duration `envconfig:"CACHE_ARTIFACT_TTL" default:"720h"`
	StatusTTL   time.Duration `envconfig:"CACHE_STATUS_TTL" default:"1h"`

	// Groq LLM (OpenAI-compatible endpoint) for transcript summaries
	GroqAPIKey  string `envconfig:"GROQ_API_KEY"`
	GroqModel   string `envconfig:"GROQ_MODEL" default:"llama-3.1-8b-instant"`
	GroqBaseURL string `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`

	SentryDSN string `envconfig:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("BRAIN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasGroq() bool {
	return c.GroqAPIKey != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}
