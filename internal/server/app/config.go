package app

import (
	"fmt"
	"os"
	"time"
)

// Config is loaded from the environment. A .env file is honoured in
// development via godotenv in main.
type Config struct {
	ListenAddr      string
	DatabaseDSN     string
	SigningKeyPath  string
	PasswordPepper  string
	TokenIssuer     string
	ShutdownTimeout time.Duration

	FyersBaseURL    string
	ZerodhaBaseURL  string
	RedirectBaseURL string

	LogLevel  string
	LogFormat string
	Env       string

	EnableSwagger bool
}

// LoadConfig reads configuration from the environment, applying
// defaults suited to local development. The pepper has no default: the
// process refuses to start without one.
func LoadConfig() (Config, error) {
	cfg := Config{
		ListenAddr:      getEnvOrDefault("LISTEN_ADDR", ":8080"),
		DatabaseDSN:     getEnvOrDefault("DATABASE_DSN", "file:brokerlink.db"),
		SigningKeyPath:  getEnvOrDefault("SIGNING_KEY_PATH", "signing.pem"),
		PasswordPepper:  os.Getenv("PASSWORD_PEPPER"),
		TokenIssuer:     getEnvOrDefault("TOKEN_ISSUER", "brokerlink"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		FyersBaseURL:    os.Getenv("FYERS_BASE_URL"),
		ZerodhaBaseURL:  os.Getenv("ZERODHA_BASE_URL"),
		RedirectBaseURL: os.Getenv("REDIRECT_BASE_URL"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       getEnvOrDefault("LOG_FORMAT", "json"),
		Env:             getEnvOrDefault("ENV", "dev"),
		EnableSwagger:   getEnvOrDefault("ENABLE_SWAGGER", "true") == "true",
	}

	if cfg.PasswordPepper == "" {
		return Config{}, fmt.Errorf("PASSWORD_PEPPER is required")
	}
	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
