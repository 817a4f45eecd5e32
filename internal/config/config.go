// Package config loads the service configuration: YAML file first, then
// A2UI_* environment overrides, with defaults matching the demo topology.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// AgentsConfig holds the base URLs of the agent collaborators.
type AgentsConfig struct {
	Toeslagen string `yaml:"toeslagen"`
	Bezwaar   string `yaml:"bezwaar"`
	Genui     string `yaml:"genui"`
}

// GeminiConfig configures the optional generative delegate inside the
// bundled agents. The API key is environment-only on purpose.
type GeminiConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"-"`
}

// Config is the full service configuration. One struct serves all three
// binaries; each command reads its slice of it.
type Config struct {
	Listen         string       `yaml:"listen"`
	ToolsListen    string       `yaml:"tools_listen"`
	AgentsListen   string       `yaml:"agents_listen"`
	ToolsURL       string       `yaml:"tools_url"`
	Agents         AgentsConfig `yaml:"agents"`
	StageTickMS    int          `yaml:"stage_tick_ms"`
	ToolLatencyMS  int          `yaml:"tool_latency_ms"`
	ToolTimeoutMS  int          `yaml:"tool_timeout_ms"`
	AgentTimeoutMS int          `yaml:"agent_timeout_ms"`
	Gemini         GeminiConfig `yaml:"gemini"`
	LogLevel       string       `yaml:"log_level"`
}

// Default returns the demo defaults (same ports as the original stack).
func Default() Config {
	return Config{
		Listen:       ":10002",
		ToolsListen:  ":8000",
		AgentsListen: ":8030",
		ToolsURL:     "http://127.0.0.1:8000/sse",
		Agents: AgentsConfig{
			Toeslagen: "http://127.0.0.1:8030/toeslagen/",
			Bezwaar:   "http://127.0.0.1:8030/bezwaar/",
			Genui:     "http://127.0.0.1:8030/genui/",
		},
		StageTickMS:    600,
		ToolLatencyMS:  300,
		ToolTimeoutMS:  8000,
		AgentTimeoutMS: 20000,
		Gemini:         GeminiConfig{Model: "gemini-2.5-flash"},
		LogLevel:       "info",
	}
}

// Load reads the configuration. An empty path skips the file and uses
// defaults plus environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	envStr("A2UI_LISTEN", &cfg.Listen)
	envStr("A2UI_TOOLS_LISTEN", &cfg.ToolsListen)
	envStr("A2UI_AGENTS_LISTEN", &cfg.AgentsListen)
	envStr("A2UI_TOOLS_URL", &cfg.ToolsURL)
	envStr("A2UI_AGENT_TOESLAGEN_URL", &cfg.Agents.Toeslagen)
	envStr("A2UI_AGENT_BEZWAAR_URL", &cfg.Agents.Bezwaar)
	envStr("A2UI_AGENT_GENUI_URL", &cfg.Agents.Genui)
	envInt("A2UI_STAGE_TICK_MS", &cfg.StageTickMS)
	envInt("A2UI_TOOL_LATENCY_MS", &cfg.ToolLatencyMS)
	envInt("A2UI_TOOL_TIMEOUT_MS", &cfg.ToolTimeoutMS)
	envInt("A2UI_AGENT_TIMEOUT_MS", &cfg.AgentTimeoutMS)
	envStr("A2UI_LOG_LEVEL", &cfg.LogLevel)
	envStr("GEMINI_MODEL", &cfg.Gemini.Model)
	envStr("GEMINI_API_KEY", &cfg.Gemini.APIKey)
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			*dst = n
		}
	}
}

// StageTick is the pacing delay between flow stages.
func (c Config) StageTick() time.Duration {
	return time.Duration(c.StageTickMS) * time.Millisecond
}

// ToolLatency is the artificial latency injected by the bundled tool server.
func (c Config) ToolLatency() time.Duration {
	return time.Duration(c.ToolLatencyMS) * time.Millisecond
}

// ToolTimeout bounds one MCP tool call.
func (c Config) ToolTimeout() time.Duration {
	return time.Duration(c.ToolTimeoutMS) * time.Millisecond
}

// AgentTimeout bounds one A2A agent call.
func (c Config) AgentTimeout() time.Duration {
	return time.Duration(c.AgentTimeoutMS) * time.Millisecond
}
