package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the client.
type Config struct {
	API     APIConfig
	Session SessionConfig
	Logger  LoggerConfig
	Stub    StubConfig
}

// APIConfig holds helpdesk backend connection values.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
	RetryCount     int
	Debug          bool
}

// SessionConfig controls where the credential is persisted between runs.
type SessionConfig struct {
	TokenFile string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// StubConfig configures the development stub server.
type StubConfig struct {
	Addr       string
	JWTSecret  string
	BcryptCost int
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:        getEnv("HELPDESK_API_URL", "http://127.0.0.1:8080"),
			TimeoutSeconds: getEnvAsInt("HELPDESK_API_TIMEOUT_SECONDS", 30),
			RetryCount:     getEnvAsInt("HELPDESK_API_RETRY_COUNT", 0),
			Debug:          getEnvAsBool("HELPDESK_API_DEBUG", false),
		},
		Session: SessionConfig{
			TokenFile: getEnv("HELPDESK_TOKEN_FILE", defaultTokenFile()),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Stub: StubConfig{
			Addr:       getEnv("HELPDESK_STUB_ADDR", "127.0.0.1:8080"),
			JWTSecret:  getEnv("HELPDESK_STUB_JWT_SECRET", "dev-secret"),
			BcryptCost: getEnvAsInt("HELPDESK_STUB_BCRYPT_COST", 10),
		},
	}

	return cfg, nil
}

// Timeout returns the configured request timeout duration.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".helpdesk-token"
	}
	return filepath.Join(dir, "helpdesk", "token")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
