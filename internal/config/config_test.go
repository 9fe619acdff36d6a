package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 20.0, cfg.GridSize)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, "schedit_autosave", cfg.AutosaveSlot)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GRID_SIZE", "10")
	t.Setenv("DATABASE_URL", "postgres://localhost/schedit")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 10.0, cfg.GridSize)
	assert.Equal(t, "postgres://localhost/schedit", cfg.DatabaseURL)
}

func TestLoadRejectsBadValue(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "lots")
	_, err := Load()
	assert.Error(t, err)
}
