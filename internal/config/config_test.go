package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"AGENTDESK_SERVER_URL", "AGENTDESK_MODE", "AGENTDESK_LOG_LEVEL", "AGENTDESK_THEME"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:8080", cfg.Agent.BaseURL)
	assert.Equal(t, ModeSkills, cfg.UI.Mode)
	assert.Equal(t, ThemeAuto, cfg.UI.Theme)
	assert.Equal(t, ExporterNone, cfg.Telemetry.Exporter)
	assert.Zero(t, cfg.RequestTimeout(), "no timeout by default")
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Agent.BaseURL = "https://agent.internal:9000"
	cfg.Agent.RequestTimeout = "45s"
	cfg.UI.Mode = ModeGoal
	cfg.Logging.Categories = map[string]bool{"ui": false}

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, 45*time.Second, loaded.RequestTimeout())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  mode: goal\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ModeGoal, cfg.UI.Mode)
	assert.Equal(t, "http://localhost:8080", cfg.Agent.BaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agent: [unclosed"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("server url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AGENTDESK_SERVER_URL", "http://agent:8080")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "http://agent:8080", cfg.Agent.BaseURL)
	})

	t.Run("mode and theme are lowercased", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AGENTDESK_MODE", "GOAL")
		t.Setenv("AGENTDESK_THEME", "Dark")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, ModeGoal, cfg.UI.Mode)
		assert.Equal(t, ThemeDark, cfg.UI.Theme)
	})

	t.Run("log level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AGENTDESK_LOG_LEVEL", "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("empty env leaves file values", func(t *testing.T) {
		clearEnv(t)

		cfg := &Config{Agent: AgentConfig{BaseURL: "http://file:1"}}
		cfg.applyEnvOverrides()
		assert.Equal(t, "http://file:1", cfg.Agent.BaseURL)
	})

	t.Run("applied by Load", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AGENTDESK_SERVER_URL", "http://from-env:1")
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("agent:\n  base_url: http://from-file:1\n"), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://from-env:1", cfg.Agent.BaseURL)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"missing scheme", func(c *Config) { c.Agent.BaseURL = "localhost:8080" }, "base_url"},
		{"ftp scheme", func(c *Config) { c.Agent.BaseURL = "ftp://host" }, "scheme"},
		{"bad mode", func(c *Config) { c.UI.Mode = "kiosk" }, "ui mode"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui theme"},
		{"bad exporter", func(c *Config) { c.Telemetry.Exporter = "jaeger" }, "exporter"},
		{"bad timeout", func(c *Config) { c.Agent.RequestTimeout = "soon" }, "request_timeout"},
		{"good timeout", func(c *Config) { c.Agent.RequestTimeout = "2m" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequestTimeout_Fallbacks(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Agent.RequestTimeout = "garbage"
	assert.Zero(t, cfg.RequestTimeout())

	cfg.Agent.RequestTimeout = "-5s"
	assert.Zero(t, cfg.RequestTimeout())

	cfg.Agent.RequestTimeout = "1500ms"
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout())
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	c := LoggingConfig{}
	assert.False(t, c.IsCategoryEnabled("ui"))

	c.DebugMode = true
	assert.True(t, c.IsCategoryEnabled("ui"))

	c.Categories = map[string]bool{"ui": false}
	assert.False(t, c.IsCategoryEnabled("ui"))
	assert.True(t, c.IsCategoryEnabled("api"))
}

func TestTelemetryConfig_Active(t *testing.T) {
	assert.False(t, TelemetryConfig{}.Active())
	assert.False(t, TelemetryConfig{Enabled: true, Exporter: ExporterNone}.Active())
	assert.False(t, TelemetryConfig{Enabled: false, Exporter: ExporterStdout}.Active())
	assert.True(t, TelemetryConfig{Enabled: true, Exporter: ExporterStdout}.Active())
}
