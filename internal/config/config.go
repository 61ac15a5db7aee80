package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	DatabaseURL string `env:"DATABASE_URL,required"`
	AIAPIKey    string `env:"AI_API_KEY,required"`
	AIBaseURL   string `env:"AI_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`

	// AI behavior
	DefaultModel string `env:"AI_DEFAULT_MODEL" envDefault:"claude-3-5-sonnet"`
	// When true, AI failures surface as errors to the caller instead of
	// being replaced with FallbackText.
	PropagateAIErrors bool   `env:"AI_PROPAGATE_ERRORS" envDefault:"false"`
	FallbackText      string `env:"AI_FALLBACK_TEXT" envDefault:"Sorry, I'm having trouble connecting to the AI service. Please try again."`

	// Server
	Port int `env:"PORT" envDefault:"8080"`

	// CORS
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3001"`

	// Telegram ops alerts
	AlertToken  string `env:"ALERT_BOT_TOKEN"`
	AlertChatID int64  `env:"ALERT_CHAT_ID"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) AlertsEnabled() bool {
	return c.AlertToken != "" && c.AlertChatID != 0
}
