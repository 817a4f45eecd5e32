package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":10002", cfg.Listen)
	assert.Equal(t, "http://127.0.0.1:8000/sse", cfg.ToolsURL)
	assert.Equal(t, 600, cfg.StageTickMS)
	assert.Equal(t, 600*time.Millisecond, cfg.StageTick())
	assert.Equal(t, 8*time.Second, cfg.ToolTimeout())
	assert.Equal(t, 20*time.Second, cfg.AgentTimeout())
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
listen: ":9000"
stage_tick_ms: 0
agents:
  bezwaar: "http://agents:8030/bezwaar/"
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Listen)
	assert.Zero(t, cfg.StageTick())
	assert.Equal(t, "http://agents:8030/bezwaar/", cfg.Agents.Bezwaar)
	// Untouched fields keep their defaults.
	assert.Equal(t, "http://127.0.0.1:8030/toeslagen/", cfg.Agents.Toeslagen)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`listen: ":9000"`), 0o644))

	t.Setenv("A2UI_LISTEN", ":9999")
	t.Setenv("A2UI_STAGE_TICK_MS", "50")
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Listen)
	assert.Equal(t, 50, cfg.StageTickMS)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadEnvIntIgnored(t *testing.T) {
	t.Setenv("A2UI_STAGE_TICK_MS", "banaan")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.StageTickMS)
}
