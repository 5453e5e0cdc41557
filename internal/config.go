package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/wsqstar/ppage/internal/graph"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// SupportedLanguages lists the language suffixes content files may carry.
var SupportedLanguages = []string{"zh", "en"}

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Graph   GraphConfig       `yaml:"graph"`
	Cache   CacheConfig       `yaml:"cache"`
	Metrics MetricsConfig     `yaml:"metrics"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Graph.Validate(); err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig describes the Markdown content tree.
type ContentConfig struct {
	Root             string   `yaml:"root"`
	Languages        []string `yaml:"languages"`
	DefaultLanguage  string   `yaml:"default_language"`
	FallbackLanguage string   `yaml:"fallback_language"`
	IgnoredFolders   []string `yaml:"ignored_folders"`
	FilesFolder      string   `yaml:"files_folder"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	supported := make([]any, len(SupportedLanguages))
	for i, l := range SupportedLanguages {
		supported[i] = l
	}
	enabled := make([]any, len(c.Languages))
	for i, l := range c.Languages {
		enabled[i] = l
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Languages, validation.Required, validation.Each(validation.In(supported...))),
		validation.Field(&c.DefaultLanguage, validation.Required, validation.In(enabled...)),
		validation.Field(&c.FallbackLanguage, validation.In(enabled...)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// GraphConfig holds neighborhood graph defaults.
type GraphConfig struct {
	DefaultDepth int     `yaml:"default_depth"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	BaseRadius   float64 `yaml:"base_radius"`
	RingSpacing  float64 `yaml:"ring_spacing"`
}

// Validate validates the graph configuration.
func (c *GraphConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DefaultDepth, validation.Min(0)),
		validation.Field(&c.Width, validation.Required, validation.Min(1.0)),
		validation.Field(&c.Height, validation.Required, validation.Min(1.0)),
		validation.Field(&c.BaseRadius, validation.Min(0.0)),
		validation.Field(&c.RingSpacing, validation.Required, validation.Min(1.0)),
	)
}

// CacheConfig controls the link resolution cache.
type CacheConfig struct {
	// LinksTTL bounds how long resolved links are kept; zero keeps them for
	// the lifetime of the snapshot they were resolved against.
	LinksTTL time.Duration `yaml:"links_ttl"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LinksTTL, validation.Min(time.Duration(0))),
	)
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Root:             "./content",
			Languages:        []string{"zh", "en"},
			DefaultLanguage:  "zh",
			FallbackLanguage: "zh",
			IgnoredFolders:   []string{},
			FilesFolder:      "files",
		},
		SQLite: SQLiteConfig{
			Path: "./ppage.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Graph: GraphConfig{
			DefaultDepth: graph.DefaultDepth,
			Width:        800,
			Height:       600,
			BaseRadius:   graph.DefaultLayout.BaseRadius,
			RingSpacing:  graph.DefaultLayout.RingSpacing,
		},
		Cache: CacheConfig{
			LinksTTL: 10 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}
