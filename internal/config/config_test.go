package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Server.URL != def.Server.URL || cfg.Stream.Transport != "sse" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.UI.MaxLogLines != 200 {
		t.Errorf("MaxLogLines = %d, want 200", cfg.UI.MaxLogLines)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  url: http://game.local:9000
  timeout: 3s
stream:
  transport: ws
ui:
  markdown_style: notty
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.URL != "http://game.local:9000" {
		t.Errorf("URL = %q", cfg.Server.URL)
	}
	if cfg.Server.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", cfg.Server.Timeout)
	}
	if cfg.Stream.Transport != "ws" {
		t.Errorf("Transport = %q", cfg.Stream.Transport)
	}
	if cfg.UI.MarkdownStyle != "notty" {
		t.Errorf("MarkdownStyle = %q", cfg.UI.MarkdownStyle)
	}
	// Untouched keys keep their defaults.
	if !cfg.UI.AltScreen {
		t.Error("AltScreen should keep its default")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  url: http://from-file\n")
	t.Setenv("DND_SERVER_URL", "http://from-env")
	t.Setenv("DND_TOKEN", "s3cret")
	t.Setenv("DND_UI_ANIMATE_HP", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.URL != "http://from-env" {
		t.Errorf("URL = %q, want env value", cfg.Server.URL)
	}
	if cfg.Server.Token != "s3cret" {
		t.Errorf("Token = %q", cfg.Server.Token)
	}
	if cfg.UI.AnimateHP {
		t.Error("AnimateHP should be disabled by env")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{"bad yaml", "server: [", nil, "parse"},
		{"bad transport", "stream:\n  transport: pigeon\n", nil, "stream.transport"},
		{"bad env duration", "", map[string]string{"DND_HTTP_TIMEOUT": "soon"}, "parse env"},
		{"bad log lines", "ui:\n  max_log_lines: 0\n", nil, "max_log_lines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestListenAddr(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"http://127.0.0.1:8123", "127.0.0.1:8123", false},
		{"http://localhost", "localhost:80", false},
		{"https://dm.example.com/", "dm.example.com:443", false},
		{"127.0.0.1:8123", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ServerConfig{URL: tt.url}.ListenAddr()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ListenAddr = %q, want %q", got, tt.want)
			}
		})
	}
}
