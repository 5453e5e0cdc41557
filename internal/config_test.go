package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/wsqstar/ppage/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenMode(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}

	cfg = AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("empty token: err = %v", err)
	}

	cfg = AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Error("invalid mode should fail validation")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
}

func TestContentConfig_Languages(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ContentConfig)
		wantErr bool
	}{
		{"unsupported language", func(c *ContentConfig) { c.Languages = []string{"en", "fr"} }, true},
		{"default not enabled", func(c *ContentConfig) { c.Languages = []string{"en"}; c.DefaultLanguage = "zh"; c.FallbackLanguage = "" }, true},
		{"fallback not enabled", func(c *ContentConfig) { c.Languages = []string{"en"}; c.DefaultLanguage = "en"; c.FallbackLanguage = "zh" }, true},
		{"no fallback", func(c *ContentConfig) { c.FallbackLanguage = "" }, false},
		{"no root", func(c *ContentConfig) { c.Root = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewDefaultConfig().Content
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGraphAndCacheConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Graph.RingSpacing = 0
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "graph") {
		t.Errorf("zero ring spacing: err = %v", err)
	}

	cfg = NewDefaultConfig()
	cfg.Cache.LinksTTL = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("negative ttl should fail")
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("PPAGE_TEST_TOKEN", "s3cret")
	p := filepath.Join(t.TempDir(), "config.yaml")
	body := `app:
  log_level: debug
  http:
    port: 9090
content:
  root: ./site
  languages: [en]
  default_language: en
  fallback_language: en
auth:
  mode: token
  token: ${PPAGE_TEST_TOKEN}
cache:
  links_ttl: 30s
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(p, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Address() != ":9090" || cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Content.Root != "./site" || cfg.Content.FilesFolder != "files" {
		t.Errorf("content = %+v", cfg.Content)
	}
	if !cfg.Auth.AuthEnabled() || cfg.Auth.Token != "s3cret" {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if cfg.Cache.LinksTTL != 30*time.Second {
		t.Errorf("links ttl = %v", cfg.Cache.LinksTTL)
	}
	if cfg.Graph.RingSpacing != 100 || cfg.SQLite.Path != "./ppage.db" {
		t.Errorf("defaults lost: graph=%+v sqlite=%+v", cfg.Graph, cfg.SQLite)
	}
}
