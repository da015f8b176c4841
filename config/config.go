// Package config loads the YAML configuration shared by the CLI and the local server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv supplies generation.api_key when the file leaves it empty.
const APIKeyEnv = "COFOUNDR_API_KEY"

const (
	ProviderRemote   = "remote"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderMock     = "mock"

	FormatHTML = "html"
	FormatText = "txt"
)

type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Health     HealthConfig     `yaml:"health"`
	Export     ExportConfig     `yaml:"export"`
	Server     ServerConfig     `yaml:"server"`
}

// GenerationConfig selects the generation service. remote talks to the pitch deck HTTP
// service at BaseURL; openai and deepseek call an OpenAI-compatible endpoint directly; mock
// renders a canned deck offline.
type GenerationConfig struct {
	Provider string        `yaml:"provider"`
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

type HealthConfig struct {
	// URL defaults to <generation.base_url>/health.
	URL           string        `yaml:"url"`
	Interval      time.Duration `yaml:"interval"`
	ProbeTimeout  time.Duration `yaml:"probe_timeout"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
}

type ExportConfig struct {
	Dir            string `yaml:"dir"`
	Format         string `yaml:"format"`
	WarnBelowScore int    `yaml:"warn_below_score"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		Generation: GenerationConfig{
			Provider: ProviderRemote,
			BaseURL:  "http://localhost:8000",
			Timeout:  120 * time.Second,
		},
		Health: HealthConfig{
			Interval:      15 * time.Second,
			ProbeTimeout:  5 * time.Second,
			SlowThreshold: 3 * time.Second,
		},
		Export: ExportConfig{
			Dir:            "exports",
			Format:         FormatHTML,
			WarnBelowScore: 30,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads path over Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
			}
		}
	}
	if cfg.Generation.APIKey == "" {
		cfg.Generation.APIKey = os.Getenv(APIKeyEnv)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	g := c.Generation
	switch g.Provider {
	case ProviderRemote:
		if g.BaseURL == "" {
			return errors.New("generation.base_url is required for the remote provider")
		}
	case ProviderOpenAI:
		if g.Model == "" {
			return errors.New("generation.model is required for the openai provider")
		}
	case ProviderDeepSeek:
		// DeepSeek is reached through its OpenAI-compatible endpoint.
		if g.BaseURL == "" || g.Model == "" {
			return errors.New("generation.base_url and generation.model are required for the deepseek provider")
		}
	case ProviderMock:
	default:
		return fmt.Errorf("generation.provider %q not supported", g.Provider)
	}
	if g.Timeout <= 0 {
		return errors.New("generation.timeout must be positive")
	}
	if c.Health.Interval <= 0 || c.Health.ProbeTimeout <= 0 {
		return errors.New("health.interval and health.probe_timeout must be positive")
	}
	if c.Health.SlowThreshold < 0 {
		return errors.New("health.slow_threshold must not be negative")
	}
	switch c.Export.Format {
	case FormatHTML, FormatText:
	default:
		return fmt.Errorf("export.format %q not supported", c.Export.Format)
	}
	if c.Export.WarnBelowScore < 0 || c.Export.WarnBelowScore > 100 {
		return errors.New("export.warn_below_score must be between 0 and 100")
	}
	return nil
}

// HealthURL is the health endpoint to probe.
func (c Config) HealthURL() string {
	if c.Health.URL != "" {
		return c.Health.URL
	}
	return strings.TrimRight(c.Generation.BaseURL, "/") + "/health"
}
