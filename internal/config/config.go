// Package config loads runtime settings from config.yaml and the
// environment. Environment variables override the file: SLEUTH_ is the
// prefix and double underscores become dots, so SLEUTH_SERVER__PORT
// sets server.port. API keys in the file may reference the environment
// with ${VAR} placeholders.
package config

import (
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	LLM       LLMConfig       `koanf:"llm"`
	Tavily    TavilyConfig    `koanf:"tavily"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Sessions  SessionsConfig  `koanf:"sessions"`
	Research  ResearchConfig  `koanf:"research"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type LLMConfig struct {
	APIKey      string  `koanf:"api_key"`
	BaseURL     string  `koanf:"base_url"`
	Model       string  `koanf:"model"`
	Temperature float64 `koanf:"temperature"`
	MaxTokens   int     `koanf:"max_tokens"`
}

type TavilyConfig struct {
	APIKey string `koanf:"api_key"`
}

type DatasetConfig struct {
	// Path is the SQLite file holding the sample dataset; ":memory:"
	// builds it fresh on startup.
	Path string `koanf:"path"`
}

type SessionsConfig struct {
	Backend string `koanf:"backend"` // memory, sqlite
	Path    string `koanf:"path"`
}

type ResearchConfig struct {
	MaxResults     int           `koanf:"max_results"`
	FetchDelay     time.Duration `koanf:"fetch_delay"`
	PageTokenLimit int           `koanf:"page_token_limit"`
}

type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads config.yaml from the working directory, if present, then
// applies environment overrides and defaults.
func Load() (*Config, error) {
	return loadFrom("config.yaml")
}

func loadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// A missing file is fine; env vars and defaults cover it.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("SLEUTH_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "SLEUTH_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	applyDefaults(k)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	cfg.LLM.APIKey = substituteEnvVars(cfg.LLM.APIKey)
	cfg.Tavily.APIKey = substituteEnvVars(cfg.Tavily.APIKey)

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	defaults := map[string]any{
		"server.port":               8080,
		"llm.base_url":              "https://api.openai.com/v1",
		"llm.model":                 "gpt-4o-mini",
		"llm.max_tokens":            1000,
		"dataset.path":              ":memory:",
		"sessions.backend":          "memory",
		"sessions.path":             "sleuth-sessions.db",
		"research.max_results":      5,
		"research.fetch_delay":      "500ms",
		"research.page_token_limit": 1000,
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}
