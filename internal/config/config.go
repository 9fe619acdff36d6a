package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port int `envconfig:"PORT" default:"8080"`
	// DatabaseURL selects Postgres for autosaves; empty uses SQLitePath.
	DatabaseURL    string  `envconfig:"DATABASE_URL"`
	SQLitePath     string  `envconfig:"SQLITE_PATH" default:"./data/schedit.db"`
	SessionSecret  string  `envconfig:"SESSION_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string  `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	GridSize       float64 `envconfig:"GRID_SIZE" default:"20"`
	HistoryLimit   int     `envconfig:"HISTORY_LIMIT" default:"50"`
	AutosaveSlot   string  `envconfig:"AUTOSAVE_SLOT" default:"schedit_autosave"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
