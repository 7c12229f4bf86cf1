package config

// GetHeyGenAPIKey returns the streaming avatar provider API key.
func GetHeyGenAPIKey() string {
	return GetEnvOrDefault("HEYGEN_API_KEY", "")
}

// GetHeyGenRestURL returns the provider REST base URL.
func GetHeyGenRestURL() string {
	return GetEnvOrDefault("HEYGEN_REST_URL", "https://api.heygen.com")
}
