package api

import (
	"time"

	"github.com/FocuswithJustin/KanjiLens/internal/config"
)

// Config holds server configuration.
type Config struct {
	Port              int
	AllowedOrigins    []string      // CORS and websocket origins (empty = allow all)
	CacheTTL          time.Duration // lifetime of a cached annotator snapshot
	MarkerPrefix      string
	StepCount         int
	RateLimitRequests int   // Requests per minute (0 = disabled)
	RateLimitBurst    int   // Burst size
	MaxMessageRate    int   // websocket frames per second per client
	MaxMessageSize    int64 // largest websocket frame accepted
}

// ConfigFrom derives the server configuration from the loaded settings.
func ConfigFrom(c *config.Config) Config {
	return Config{
		Port:              c.Server.Port,
		AllowedOrigins:    c.Server.AllowedOrigins,
		CacheTTL:          c.Server.CacheTTL,
		MarkerPrefix:      c.Render.MarkerPrefix,
		StepCount:         c.Render.StepCount,
		RateLimitRequests: c.Server.RateLimit,
		MaxMessageRate:    c.Server.MaxMessageRate,
		MaxMessageSize:    64 << 10,
	}
}
