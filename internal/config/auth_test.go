package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns default when env not set",
			key:          "TEST_KEY_1",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
		{
			name:         "returns env value when set",
			key:          "TEST_KEY_2",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := GetEnvOrDefault(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("GetEnvOrDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseEnvInt(t *testing.T) {
	t.Run("returns default when unset", func(t *testing.T) {
		if got := parseEnvInt("TEST_INT_UNSET", 42); got != 42 {
			t.Errorf("parseEnvInt() = %d, want 42", got)
		}
	})

	t.Run("parses valid integer", func(t *testing.T) {
		t.Setenv("TEST_INT_VALID", "7")
		if got := parseEnvInt("TEST_INT_VALID", 42); got != 7 {
			t.Errorf("parseEnvInt() = %d, want 7", got)
		}
	})

	t.Run("falls back on garbage", func(t *testing.T) {
		t.Setenv("TEST_INT_GARBAGE", "seven")
		if got := parseEnvInt("TEST_INT_GARBAGE", 42); got != 42 {
			t.Errorf("parseEnvInt() = %d, want 42", got)
		}
	})
}

func TestJWTSecretManagement(t *testing.T) {
	originalSecret := GetJWTSecret()
	newSecret := []byte("test-secret")

	t.Run("set and restore JWT secret", func(t *testing.T) {
		restore := SetJWTSecret(newSecret)

		if string(GetJWTSecret()) != string(newSecret) {
			t.Errorf("JWT secret not updated, got %s, want %s",
				string(GetJWTSecret()), string(newSecret))
		}

		restore()

		if string(GetJWTSecret()) != string(originalSecret) {
			t.Errorf("JWT secret not restored, got %s, want %s",
				string(GetJWTSecret()), string(originalSecret))
		}
	})

	t.Run("concurrent access to JWT secret", func(t *testing.T) {
		done := make(chan bool)
		for i := 0; i < 10; i++ {
			go func() {
				GetJWTSecret()
				done <- true
			}()
		}

		for i := 0; i < 10; i++ {
			<-done
		}
	})
}

func TestSpeechEstimates(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		if got := GetSpeechEstimateFloor(); got != 3*time.Second {
			t.Errorf("GetSpeechEstimateFloor() = %v, want 3s", got)
		}
		if got := GetSpeechEstimatePerChar(); got != 200*time.Millisecond {
			t.Errorf("GetSpeechEstimatePerChar() = %v, want 200ms", got)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SPEECH_ESTIMATE_FLOOR_MS", "100")
		t.Setenv("SPEECH_ESTIMATE_PER_CHAR_MS", "5")

		if got := GetSpeechEstimateFloor(); got != 100*time.Millisecond {
			t.Errorf("GetSpeechEstimateFloor() = %v, want 100ms", got)
		}
		if got := GetSpeechEstimatePerChar(); got != 5*time.Millisecond {
			t.Errorf("GetSpeechEstimatePerChar() = %v, want 5ms", got)
		}
	})
}
