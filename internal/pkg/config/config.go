package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:8080"`
	ProjectPath    string        `env:"PROJECT_PATH"`
	PageSize       int           `env:"PAGE_SIZE" envDefault:"500"`
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"300ms"`
	ExportLimit    int           `env:"EXPORT_LIMIT" envDefault:"10000"`
	ExportDir      string        `env:"EXPORT_DIR" envDefault:"."`
	ExportRedact   []string      `env:"EXPORT_REDACT" envSeparator:","`
	RequestRate    float64       `env:"REQUEST_RATE" envDefault:"20"`
	RequestBurst   int           `env:"REQUEST_BURST" envDefault:"10"`
	RefreshMinGap  time.Duration `env:"REFRESH_MIN_GAP" envDefault:"1s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile        string        `env:"LOG_FILE"`
	MetricsAddr    string        `env:"METRICS_ADDR"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
