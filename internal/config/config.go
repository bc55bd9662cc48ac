// Package config loads client settings from an optional YAML file and the
// environment. Precedence, lowest first: defaults, file, environment. The
// command line applies its own overrides on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server" envPrefix:"DND_"`
	Stream StreamConfig `yaml:"stream" envPrefix:"DND_STREAM_"`
	UI     UIConfig     `yaml:"ui" envPrefix:"DND_UI_"`
	Log    LogConfig    `yaml:"log" envPrefix:"DND_LOG_"`
}

type ServerConfig struct {
	URL     string        `yaml:"url" env:"SERVER_URL"`
	Token   string        `yaml:"token" env:"TOKEN"`
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT"`
}

type StreamConfig struct {
	// Transport is "sse" or "ws".
	Transport string `yaml:"transport" env:"TRANSPORT"`
}

type UIConfig struct {
	// MarkdownStyle is a glamour standard style: "dark", "light", "notty", ...
	MarkdownStyle string `yaml:"markdown_style" env:"MARKDOWN_STYLE"`
	AltScreen     bool   `yaml:"alt_screen" env:"ALT_SCREEN"`
	AnimateHP     bool   `yaml:"animate_hp" env:"ANIMATE_HP"`
	MaxLogLines   int    `yaml:"max_log_lines" env:"MAX_LOG_LINES"`
}

type LogConfig struct {
	// File receives the client log; empty discards it.
	File string `yaml:"file" env:"FILE"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://127.0.0.1:8123",
			Timeout: 15 * time.Second,
		},
		Stream: StreamConfig{Transport: "sse"},
		UI: UIConfig{
			MarkdownStyle: "dark",
			AltScreen:     true,
			AnimateHP:     true,
			MaxLogLines:   200,
		},
	}
}

// Load reads path (if it exists) over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Stream.Transport {
	case "sse", "ws":
	default:
		return fmt.Errorf("stream.transport must be sse or ws, got %q", c.Stream.Transport)
	}
	if c.Server.URL == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	if c.UI.MaxLogLines <= 0 {
		return fmt.Errorf("ui.max_log_lines must be positive, got %d", c.UI.MaxLogLines)
	}
	return nil
}

// ListenAddr returns the host:port of URL, for serving the backend
// contract where the client expects it.
func (c ServerConfig) ListenAddr() (string, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("server.url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server.url %q has no host", c.URL)
	}
	if u.Port() == "" {
		if u.Scheme == "https" {
			return u.Hostname() + ":443", nil
		}
		return u.Hostname() + ":80", nil
	}
	return u.Host, nil
}
