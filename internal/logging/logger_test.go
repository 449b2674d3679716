package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inferdf/inferdf/internal/config"
)

func TestGetReturnsStableLoggerPerCategory(t *testing.T) {
	require.NoError(t, Initialize(config.LoggingConfig{Level: "debug", Format: "console"}))
	defer CloseAll()

	a := Get(CategoryRule)
	b := Get(CategoryRule)
	require.Same(t, a, b)

	c := Get(CategoryCodec)
	require.NotSame(t, a, c)
}

func TestInitializeWritesPerCategoryLogFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(config.LoggingConfig{Level: "info", Format: "json", Dir: dir}))
	defer CloseAll()

	Get(CategoryCompose).Infof("composed %d modules", 2)
	CloseAll()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	found := false
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".log" {
			found = true
		}
	}
	require.True(t, found)
}

func TestRunIDChangesAcrossInitializeCalls(t *testing.T) {
	require.NoError(t, Initialize(config.LoggingConfig{Level: "info", Format: "console"}))
	first := RunID()
	require.NotEmpty(t, first)

	require.NoError(t, Initialize(config.LoggingConfig{Level: "info", Format: "console"}))
	second := RunID()
	require.NotEqual(t, first, second)
}

func TestTimerStopReportsDuration(t *testing.T) {
	require.NoError(t, Initialize(config.LoggingConfig{Level: "debug", Format: "console"}))
	defer CloseAll()

	timer := StartTimer(CategoryClassify, "refinement pass")
	elapsed := timer.Stop()
	require.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))
}
