package config

import "time"

// Fallback speaking-duration estimate, used only when the host supplies no
// reliable end-of-speech signal: max(floor, per-char * len(text)).

// GetSpeechEstimateFloor returns the minimum estimated speaking duration.
func GetSpeechEstimateFloor() time.Duration {
	ms := parseEnvInt("SPEECH_ESTIMATE_FLOOR_MS", 3000)
	return time.Duration(ms) * time.Millisecond
}

// GetSpeechEstimatePerChar returns the estimated speaking time per character.
func GetSpeechEstimatePerChar() time.Duration {
	ms := parseEnvInt("SPEECH_ESTIMATE_PER_CHAR_MS", 200)
	return time.Duration(ms) * time.Millisecond
}
