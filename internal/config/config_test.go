package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 20, cfg.LapCapacity)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 250*time.Millisecond, cfg.AnimationDuration)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(cfg.DataDir, "stopwatch.db"), cfg.DBPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfig(t, "data_dir: "+dataDir+"\nlap_capacity: 9\ntick_interval: 50ms\nlog_level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, 9, cfg.LapCapacity)
	assert.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 250*time.Millisecond, cfg.AnimationDuration)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dataDir, "stopwatch.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dataDir, "stopwatch.log"), cfg.LogFile)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "lap_capacity: 9\n")
	t.Setenv("STOPWATCH_LAP_CAPACITY", "30")
	t.Setenv("STOPWATCH_DB_PATH", "/tmp/other.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.LapCapacity)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
}

func TestLoadRejectsBadCapacity(t *testing.T) {
	path := writeConfig(t, "lap_capacity: 100\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.LapCapacity = 0 }},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }},
		{"negative animation", func(c *Config) { c.AnimationDuration = -time.Second }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestYAMLRendersDurationsAsStrings(t *testing.T) {
	cfg := DefaultConfig()
	data, err := cfg.YAML()
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	assert.Equal(t, "100ms", parsed["tick_interval"])
	assert.Equal(t, "250ms", parsed["animation_duration"])
	assert.Equal(t, 20, parsed["lap_capacity"])
}
