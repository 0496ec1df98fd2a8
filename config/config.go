// Package config loads client configuration from environment, with an
// optional .env file.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds client configuration.
type Config struct {
	API     APIConfig
	Storage StorageConfig
	UI      UIConfig
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// StorageConfig holds the client-local state file location.
type StorageConfig struct {
	StatePath string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// AckDelayMillis is how long the success acknowledgment stays on screen
	// before the modal closes.
	AckDelayMillis int
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	timeout, _ := strconv.Atoi(getEnv("API_TIMEOUT_SEC", "30"))
	ackDelay, _ := strconv.Atoi(getEnv("UI_ACK_DELAY_MS", "1500"))

	cfg := &Config{
		API: APIConfig{
			BaseURL:        getEnv("API_BASE_URL", "http://localhost:5000/api"),
			TimeoutSeconds: timeout,
		},
		Storage: StorageConfig{
			StatePath: getEnv("STATE_PATH", defaultStatePath()),
		},
		UI: UIConfig{
			AckDelayMillis: ackDelay,
		},
	}
	return cfg, nil
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "skatefest.db"
	}
	return filepath.Join(home, ".skatefest", "state.db")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
