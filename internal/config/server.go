package config

// GetServerPort returns the listen port for the HTTP server.
func GetServerPort() string {
	return GetEnvOrDefault("PORT", "8080")
}
