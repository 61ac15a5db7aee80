package config

import "time"

const (
	// AI request timeout
	RequestTimeout = 90 * time.Second

	// Model cache duration
	ModelCacheDuration = 1 * time.Hour

	// Generation parameters
	MaxTokens          = 255
	DefaultTemperature = 0.7

	// Default title prefix for untitled conversations
	TitlePrefix = "New Chat "

	// Rate limit (requests per owner per minute)
	RateLimitPerMinute = 30

	// Server shutdown grace period
	ShutdownTimeout = 10 * time.Second
)
