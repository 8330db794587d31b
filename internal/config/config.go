package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/snippetbuilder/internal/content"
	ferrors "git.home.luguber.info/inful/snippetbuilder/internal/foundation/errors"
)

// MetadataSource selects where content timestamps come from.
type MetadataSource string

const (
	MetadataSourceHeader  MetadataSource = "header"
	MetadataSourceHistory MetadataSource = "history"
)

// Config represents the application configuration.
type Config struct {
	Content ContentConfig `yaml:"content"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Pages   PagesConfig   `yaml:"pages"`
	Output  OutputConfig  `yaml:"output"`
}

// ContentConfig locates the three snippet collections and the image assets.
type ContentConfig struct {
	Simple     CollectionConfig `yaml:"simple"`
	Secondary  CollectionConfig `yaml:"secondary"`
	Composite  CollectionConfig `yaml:"composite"`
	Pattern    string           `yaml:"pattern,omitempty"` // base-name glob for content files
	Images     ImagesConfig     `yaml:"images"`
	Logo       string           `yaml:"logo"`
	SplashLogo string           `yaml:"splash_logo"`
}

// CollectionConfig is one directory of content files.
type CollectionConfig struct {
	Dir        string `yaml:"dir"`
	SlugPrefix string `yaml:"slug_prefix,omitempty"`
}

// ImagesConfig locates supporting image assets.
type ImagesConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern,omitempty"`
}

// IngestConfig controls content ingestion.
type IngestConfig struct {
	DefaultFirstSeen string         `yaml:"default_first_seen,omitempty"`
	MetadataSource   MetadataSource `yaml:"metadata_source,omitempty"`
	ReadTimeout      time.Duration  `yaml:"read_timeout,omitempty"`
	Concurrency      int            `yaml:"concurrency,omitempty"`
	// Atomic fails the whole batch when any single file fails.
	Atomic bool `yaml:"atomic,omitempty"`
}

// StaticRoute maps an informational route to a localization block.
type StaticRoute struct {
	Path     string `yaml:"path"`
	Literals string `yaml:"literals"`
}

// PagesConfig controls page orchestration.
type PagesConfig struct {
	Templates    map[string]string `yaml:"templates"`
	StaticRoutes []StaticRoute     `yaml:"static_routes,omitempty"`
	ListingBase  string            `yaml:"listing_base,omitempty"`
	ListingMeta  string            `yaml:"listing_meta"`
	SearchPath   string            `yaml:"search_path,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Manifest string `yaml:"manifest"`
	Metrics  string `yaml:"metrics,omitempty"`
}

// FirstSeenDefault parses the configured default timestamp.
func (c IngestConfig) FirstSeenDefault() (time.Time, error) {
	return content.ParseTimestamp(c.DefaultFirstSeen)
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	if envPath, err := loadEnvFile(); err == nil {
		slog.Debug("Loaded environment variables", "file", envPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError(fmt.Sprintf("configuration file not found: %s", configPath)).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").Fatal().Build()
	}

	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes, defaults and validates configuration bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	example := Example()
	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	slog.Info("Configuration file created", "path", configPath)
	return nil
}

// Example returns a fully populated configuration.
func Example() *Config {
	cfg := &Config{
		Content: ContentConfig{
			Simple:     CollectionConfig{Dir: "content/snippets", SlugPrefix: "js"},
			Secondary:  CollectionConfig{Dir: "content/css", SlugPrefix: "css"},
			Composite:  CollectionConfig{Dir: "content/blog", SlugPrefix: "blog"},
			Images:     ImagesConfig{Dir: "content/blog_images"},
			Logo:       "assets/logo.png",
			SplashLogo: "assets/splash.png",
		},
		Ingest: IngestConfig{MetadataSource: MetadataSourceHeader},
		Pages: PagesConfig{
			Templates: map[string]string{
				"NotFoundPage": "templates/not_found.tmpl",
				"StaticPage":   "templates/static.tmpl",
				"SettingsPage": "templates/settings.tmpl",
				"ListingPage":  "templates/listing.tmpl",
				"SnippetPage":  "templates/snippet.tmpl",
				"SearchPage":   "templates/search.tmpl",
			},
			ListingMeta: "content/listing.yaml",
		},
		Output: OutputConfig{Manifest: "public/pages.json"},
	}
	applyDefaults(cfg)
	return cfg
}
