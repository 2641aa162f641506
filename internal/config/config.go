package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all agentdesk configuration.
type Config struct {
	// Agent service connection
	Agent AgentConfig `yaml:"agent"`

	// Terminal presentation
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Optional traces and metrics around agent calls
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AgentConfig configures the remote agent service.
type AgentConfig struct {
	BaseURL string `yaml:"base_url"`

	// RequestTimeout bounds each agent call. Empty means no timeout: a hung
	// call keeps the console loading until the server answers.
	RequestTimeout string `yaml:"request_timeout,omitempty"`
}

// DefaultConfigPath is where Load looks when no --config flag is given.
const DefaultConfigPath = ".agentdesk/config.yaml"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			BaseURL: "http://localhost:8080",
		},
		UI: DefaultUIConfig(),
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			File:       ".agentdesk/logs/agentdesk.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			DebugMode:  false,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Exporter:    ExporterNone,
			File:        ".agentdesk/telemetry.jsonl",
			ServiceName: "agentdesk",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AGENTDESK_SERVER_URL"); v != "" {
		c.Agent.BaseURL = v
	}
	if v := os.Getenv("AGENTDESK_MODE"); v != "" {
		c.UI.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("AGENTDESK_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("AGENTDESK_THEME"); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
}

// RequestTimeout returns the agent request timeout, or zero when unset or
// unparseable.
func (c *Config) RequestTimeout() time.Duration {
	if c.Agent.RequestTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Agent.RequestTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Agent.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid agent base_url: %q", c.Agent.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported agent base_url scheme: %s", u.Scheme)
	}

	if !contains(ValidModes, c.UI.Mode) {
		return fmt.Errorf("invalid ui mode: %s (valid: %v)", c.UI.Mode, ValidModes)
	}
	if !contains(ValidThemes, c.UI.Theme) {
		return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}
	if !contains(ValidExporters, c.Telemetry.Exporter) {
		return fmt.Errorf("invalid telemetry exporter: %s (valid: %v)", c.Telemetry.Exporter, ValidExporters)
	}

	if c.Agent.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.Agent.RequestTimeout); err != nil {
			return fmt.Errorf("invalid agent request_timeout: %w", err)
		}
	}

	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
