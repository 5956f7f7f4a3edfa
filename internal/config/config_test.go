package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Scraping.Mbl.Route != "/properties/mbl" {
		t.Errorf("route = %q", cfg.Scraping.Mbl.Route)
	}
	if cfg.Scraping.Mbl.Timeout != 10*time.Second {
		t.Errorf("timeout = %v; want 10s", cfg.Scraping.Mbl.Timeout)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("cache ttl = %v; want 30m", cfg.Cache.TTL)
	}
}

func TestLoadConfigFilesAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.yaml", `
app:
  name: fasteignir-test
  port: 9090
  shutdown_timeout: 5s
cache:
  enabled: true
  ttl: 15m
  redis_addr: redis:6379
`)
	writeFile(t, dir, "scraping.yaml", `
mbl:
  base_url: https://www.mbl.is/fasteignir
  route: /properties/mbl
  timeout: 3s
  max_body_bytes: 1048576
`)
	t.Setenv("PORT", "9191")
	t.Setenv("MBL_TIMEOUT", "4s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.App.Name != "fasteignir-test" {
		t.Errorf("name = %q", cfg.App.Name)
	}
	if cfg.App.Port != 9191 {
		t.Errorf("port = %d; want env override 9191", cfg.App.Port)
	}
	if cfg.Scraping.Mbl.BaseURL != "https://www.mbl.is/fasteignir" {
		t.Errorf("base url = %q", cfg.Scraping.Mbl.BaseURL)
	}
	if cfg.Scraping.Mbl.Timeout != 4*time.Second {
		t.Errorf("timeout = %v; want env override 4s", cfg.Scraping.Mbl.Timeout)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 15*time.Minute || cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		appYAML string
		env     map[string]string
		want    string
	}{
		{"malformed yaml", "app: [", nil, "parse"},
		{"bad env int", "", map[string]string{"PORT": "eighty"}, "PORT"},
		{"bad env duration", "", map[string]string{"CACHE_TTL": "forever"}, "CACHE_TTL"},
		{"invalid base url", "", map[string]string{"MBL_BASE_URL": "not a url"}, "BaseURL"},
		{"unknown log level", "", map[string]string{"LOG_LEVEL": "loud"}, "Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.appYAML != "" {
				writeFile(t, dir, "app.yaml", tt.appYAML)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(dir)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v; want one mentioning %q", err, tt.want)
			}
		})
	}
}
