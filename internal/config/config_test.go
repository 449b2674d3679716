package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig().PageSize, cfg.PageSize)
	require.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTrips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageSize = 8192
	cfg.Schema.RulePaths = []string{"rules/a.json", "rules/b.json"}
	cfg.Saturation.StepBudget = 500

	path := filepath.Join(t.TempDir(), "inferdf.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.PageSize, loaded.PageSize)
	require.Equal(t, cfg.Schema.RulePaths, loaded.Schema.RulePaths)
	require.Equal(t, cfg.Saturation.StepBudget, loaded.Saturation.StepBudget)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("INFERDF_PAGE_SIZE", "2048")
	t.Setenv("INFERDF_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, uint32(2048), cfg.PageSize)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateRejectsNonPowerOfTwoPageSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageSize = 4097
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "verbose"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroBudgets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Saturation.StepBudget = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Saturation.FactLimit = 0
	require.Error(t, cfg.Validate())
}
