package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

type RateLimitConfig struct {
	Enabled bool
	MaxHits int
	Window  time.Duration
}

func GetRateLimitConfig(key string) RateLimitConfig {
	enabled := GetEnvOrDefault("RATELIMIT_ENABLED", "false") == "true"

	configs := map[string]RateLimitConfig{
		"session_create": {
			Enabled: enabled,
			MaxHits: parseEnvInt("RATELIMIT_SESSION_CREATE", 10), // 10 sessions per minute
			Window:  time.Minute,
		},
		"speak": {
			Enabled: enabled,
			MaxHits: parseEnvInt("RATELIMIT_SPEAK", 60), // 60 speech tasks per minute
			Window:  time.Minute,
		},
		"conversation_export": {
			Enabled: enabled,
			MaxHits: parseEnvInt("RATELIMIT_CONVERSATION_EXPORT", 30), // 30 exports per minute
			Window:  time.Minute,
		},
	}

	if config, exists := configs[key]; exists {
		return config
	}

	log.Warn().Str("key", key).Msg("No rate limit config found for key")
	return RateLimitConfig{Enabled: false}
}
