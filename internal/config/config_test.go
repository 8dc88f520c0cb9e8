package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audival/internal/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("PORT", "")
	t.Setenv("REM_LOW_CEILING", "")
	t.Setenv("REM_HIGH_CEILING", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, logging.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5.0, cfg.Analysis.Params.LowCeiling)
	assert.Equal(t, 8.0, cfg.Analysis.Params.HighCeiling)
	assert.Equal(t, []float64{500, 1000, 2000}, cfg.Analysis.Params.LowFreqs)
	assert.Equal(t, []float64{3000, 4000}, cfg.Analysis.Params.HighFreqs)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/audival")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REM_LOW_CEILING", "6")
	t.Setenv("REM_HIGH_CEILING", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, logging.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 6.0, cfg.Analysis.Params.LowCeiling)
	assert.Equal(t, 10.0, cfg.Analysis.Params.HighCeiling)
}

func TestLoad_IgnoresUnparsableCeiling(t *testing.T) {
	t.Setenv("REM_LOW_CEILING", "loud")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.Analysis.Params.LowCeiling)
}
