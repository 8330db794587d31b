package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	ferrors "git.home.luguber.info/inful/snippetbuilder/internal/foundation/errors"
)

// Validate checks the configuration after defaults have been applied.
func Validate(cfg *Config) error {
	for _, check := range []func(*Config) error{
		validateContent,
		validateIngest,
		validatePages,
	} {
		if err := check(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateContent(cfg *Config) error {
	collections := map[string]CollectionConfig{
		"simple":    cfg.Content.Simple,
		"secondary": cfg.Content.Secondary,
		"composite": cfg.Content.Composite,
	}
	prefixes := make(map[string]string, len(collections))
	for name, c := range collections {
		if c.Dir == "" {
			return invalid("content.%s.dir is required", name)
		}
		if other, dup := prefixes[c.SlugPrefix]; dup {
			return invalid("content.%s.slug_prefix %q collides with content.%s", name, c.SlugPrefix, other)
		}
		prefixes[c.SlugPrefix] = name
	}
	if !doublestar.ValidatePattern(cfg.Content.Pattern) {
		return invalid("content.pattern %q is not a valid glob", cfg.Content.Pattern)
	}
	if !doublestar.ValidatePattern(cfg.Content.Images.Pattern) {
		return invalid("content.images.pattern %q is not a valid glob", cfg.Content.Images.Pattern)
	}
	return nil
}

func validateIngest(cfg *Config) error {
	switch cfg.Ingest.MetadataSource {
	case MetadataSourceHeader, MetadataSourceHistory:
	default:
		return invalid("ingest.metadata_source must be %q or %q, got %q", MetadataSourceHeader, MetadataSourceHistory, cfg.Ingest.MetadataSource)
	}
	if _, err := cfg.Ingest.FirstSeenDefault(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "ingest.default_first_seen is not a valid timestamp").Fatal().Build()
	}
	return nil
}

func validatePages(cfg *Config) error {
	if len(cfg.Pages.Templates) == 0 {
		return invalid("pages.templates must not be empty")
	}
	if !strings.HasPrefix(cfg.Pages.ListingBase, "/") {
		return invalid("pages.listing_base must start with '/'")
	}
	if !strings.HasPrefix(cfg.Pages.SearchPath, "/") {
		return invalid("pages.search_path must start with '/'")
	}
	seen := make(map[string]struct{}, len(cfg.Pages.StaticRoutes))
	for _, r := range cfg.Pages.StaticRoutes {
		if !strings.HasPrefix(r.Path, "/") {
			return invalid("pages.static_routes path %q must start with '/'", r.Path)
		}
		if r.Literals == "" {
			return invalid("pages.static_routes %q needs a literals key", r.Path)
		}
		if _, dup := seen[r.Path]; dup {
			return invalid("pages.static_routes path %q is listed twice", r.Path)
		}
		seen[r.Path] = struct{}{}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return ferrors.ConfigError(fmt.Sprintf(format, args...)).Build()
}
