package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	// Change to temp dir so no stray config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 80, cfg.Match.Threshold, 0.001)
	assert.InDelta(t, 60, cfg.Match.MinScore, 0.001)
	assert.Equal(t, "ratio", cfg.Match.Scorer)
	assert.False(t, cfg.Match.Normalize)
	assert.Equal(t, 0, cfg.Match.Workers)
	assert.Equal(t, "clean_woke_content_detector.csv", cfg.Paths.Source)
	assert.Equal(t, "videogame_sales.csv", cfg.Paths.Sales)
	assert.Equal(t, "clean_rawg_video_games.csv", cfg.Paths.Ratings)
	assert.Equal(t, "combined_video_game_data.csv", cfg.Paths.Output)
	assert.Equal(t, "woke_content_detector_full.csv", cfg.Paths.RawSource)
	assert.Equal(t, "rawg_video_games.csv", cfg.Paths.RawRatings)
	assert.Equal(t, DefaultSheetURL, cfg.Extract.SheetURL)
	assert.Equal(t, "vgsales.csv", cfg.Extract.SalesFile)
	assert.Equal(t, "https://api.rawg.io/api", cfg.RAWG.BaseURL)
	assert.Equal(t, 50, cfg.RAWG.MaxPages)
	assert.Equal(t, 10, cfg.RAWG.SamplePages)
	assert.Equal(t, 40, cfg.RAWG.PageSize)
	assert.Equal(t, uint64(0), cfg.RAWG.Seed)
	assert.Equal(t, 3, cfg.RAWG.MaxFailures)
	assert.Empty(t, cfg.Store.Driver)
	assert.Equal(t, int32(4), cfg.Store.MaxConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
match:
  threshold: 90
  scorer: jaro_winkler
  workers: 2
store:
  driver: sqlite
log:
  level: debug
  format: console
server:
  port: 9090
rawg:
  seed: 42
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 90, cfg.Match.Threshold, 0.001)
	assert.Equal(t, "jaro_winkler", cfg.Match.Scorer)
	assert.Equal(t, 2, cfg.Match.Workers)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, uint64(42), cfg.RAWG.Seed)
	// Defaults still apply for unset values
	assert.InDelta(t, 60, cfg.Match.MinScore, 0.001)
	assert.Equal(t, 50, cfg.RAWG.MaxPages)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("match: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("GAMEJOIN_STORE_DRIVER", "postgres")
	t.Setenv("GAMEJOIN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("GAMEJOIN_SERVER_PORT", "3000")
	t.Setenv("GAMEJOIN_RAWG_KEY", "rawg-secret")
	t.Setenv("GAMEJOIN_MATCH_THRESHOLD", "85.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "rawg-secret", cfg.RAWG.Key)
	assert.InDelta(t, 85.5, cfg.Match.Threshold, 0.001)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
