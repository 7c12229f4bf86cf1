package config

import "time"

// GetSessionTokenLifetime returns how long an issued session token stays valid.
func GetSessionTokenLifetime() time.Duration {
	minutes := parseEnvInt("SESSION_TOKEN_LIFETIME_MINUTES", 60)
	return time.Duration(minutes) * time.Minute
}
