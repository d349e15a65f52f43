package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ApplyEnv loads a .env file if one sits next to the binary (ignored when
// absent) and then lets JOBDESK_* variables override the yaml config.
// Env wins so a packaged UI can point a stock config at another backend.
func ApplyEnv(cfg Config) Config {
	_ = godotenv.Load()

	if v := os.Getenv("JOBDESK_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("JOBDESK_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
	if v := os.Getenv("JOBDESK_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	return cfg
}
