package config

import (
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/snippetbuilder/internal/content"
)

const (
	defaultPattern      = "*.md"
	defaultImagePattern = "*.{png,jpg,jpeg,gif,svg,webp}"
	defaultReadTimeout  = 30 * time.Second
	defaultConcurrency  = 8
	defaultListingBase  = "/list"
	defaultSearchPath   = "/search_index"
	defaultManifest     = "public/pages.json"
)

// defaultStaticRoutes are the informational pages every site carries.
func defaultStaticRoutes() []StaticRoute {
	return []StaticRoute{
		{Path: "/about", Literals: "about"},
		{Path: "/cookies", Literals: "cookies"},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Content.Pattern == "" {
		cfg.Content.Pattern = defaultPattern
	}
	if cfg.Content.Images.Pattern == "" {
		cfg.Content.Images.Pattern = defaultImagePattern
	}
	for _, c := range []*CollectionConfig{&cfg.Content.Simple, &cfg.Content.Secondary, &cfg.Content.Composite} {
		if c.SlugPrefix == "" && c.Dir != "" {
			c.SlugPrefix = filepath.Base(filepath.Clean(c.Dir))
		}
	}

	if cfg.Ingest.DefaultFirstSeen == "" {
		cfg.Ingest.DefaultFirstSeen = content.DefaultFirstSeen
	}
	if cfg.Ingest.MetadataSource == "" {
		cfg.Ingest.MetadataSource = MetadataSourceHeader
	}
	if cfg.Ingest.ReadTimeout <= 0 {
		cfg.Ingest.ReadTimeout = defaultReadTimeout
	}
	if cfg.Ingest.Concurrency <= 0 {
		cfg.Ingest.Concurrency = defaultConcurrency
	}

	if len(cfg.Pages.StaticRoutes) == 0 {
		cfg.Pages.StaticRoutes = defaultStaticRoutes()
	}
	if cfg.Pages.ListingBase == "" {
		cfg.Pages.ListingBase = defaultListingBase
	}
	if cfg.Pages.SearchPath == "" {
		cfg.Pages.SearchPath = defaultSearchPath
	}

	if cfg.Output.Manifest == "" {
		cfg.Output.Manifest = defaultManifest
	}
}
