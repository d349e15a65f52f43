// internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	API struct {
		BaseURL        string  `yaml:"base_url"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		RatePerSec     float64 `yaml:"rate_per_sec"`
		Burst          int     `yaml:"burst"`
	} `yaml:"api"`

	AutoSave struct {
		Enabled         bool `yaml:"enabled"`
		IntervalSeconds int  `yaml:"interval_seconds"`
	} `yaml:"autosave"`

	UI struct {
		Origin string `yaml:"origin"`
	} `yaml:"ui"`
}

// Default mirrors config/config.yml so the engine can start on a fresh
// machine before any user config exists.
func Default() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.App.DataDir = "."
	cfg.API.BaseURL = "http://localhost:1010/api"
	cfg.API.TimeoutSeconds = 20
	cfg.API.RatePerSec = 8
	cfg.API.Burst = 4
	cfg.AutoSave.Enabled = true
	cfg.AutoSave.IntervalSeconds = 30
	cfg.UI.Origin = "http://localhost:5173"
	return cfg
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
