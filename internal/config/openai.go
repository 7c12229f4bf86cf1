package config

// GetOpenAIKey returns the OpenAI API key, empty when the optional insights
// service is not configured.
func GetOpenAIKey() string {
	return GetEnvOrDefault("OPENAI_KEY", "")
}
