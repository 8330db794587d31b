package build

import (
	"git.home.luguber.info/inful/snippetbuilder/internal/config"
	"git.home.luguber.info/inful/snippetbuilder/internal/content"
	ferrors "git.home.luguber.info/inful/snippetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/snippetbuilder/internal/git"
	"git.home.luguber.info/inful/snippetbuilder/internal/lang"
	"git.home.luguber.info/inful/snippetbuilder/internal/metrics"
	"git.home.luguber.info/inful/snippetbuilder/internal/pages"
	"git.home.luguber.info/inful/snippetbuilder/internal/query"
)

// NewIngestor builds a content ingestor from the ingest and content sections.
func NewIngestor(cfg *config.Config, history content.RevisionHistory, rec metrics.Recorder) (*content.Ingestor, error) {
	firstSeen, err := cfg.Ingest.FirstSeenDefault()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid ingest.default_first_seen").Fatal().Build()
	}

	var source content.MetadataSource = content.HeaderSource{}
	if cfg.Ingest.MetadataSource == config.MetadataSourceHistory {
		if history == nil {
			history = git.NewHistoryReader()
		}
		source = content.HistorySource{History: history}
	}

	return content.NewIngestor(
		content.WithLister(content.DirLister{Pattern: cfg.Content.Pattern}),
		content.WithMetadataSource(source),
		content.WithDefaultFirstSeen(firstSeen),
		content.WithReadTimeout(cfg.Ingest.ReadTimeout),
		content.WithConcurrency(cfg.Ingest.Concurrency),
		content.WithAtomic(cfg.Ingest.Atomic),
		content.WithRecorder(rec),
	), nil
}

// Sources maps the content section onto the local executor's inputs.
func Sources(cfg *config.Config) query.Sources {
	c := cfg.Content
	return query.Sources{
		Simple:       query.Collection{Dir: c.Simple.Dir, SlugPrefix: c.Simple.SlugPrefix},
		Secondary:    query.Collection{Dir: c.Secondary.Dir, SlugPrefix: c.Secondary.SlugPrefix},
		Composite:    query.Collection{Dir: c.Composite.Dir, SlugPrefix: c.Composite.SlugPrefix},
		ImageDir:     c.Images.Dir,
		ImagePattern: c.Images.Pattern,
		Logo:         c.Logo,
		SplashLogo:   c.SplashLogo,
	}
}

// NewOrchestrator builds the page orchestrator from the pages section.
func NewOrchestrator(cfg *config.Config, literals *lang.Table, rec metrics.Recorder) *pages.Orchestrator {
	routes := make([]pages.StaticRoute, len(cfg.Pages.StaticRoutes))
	for i, r := range cfg.Pages.StaticRoutes {
		routes[i] = pages.StaticRoute{Path: r.Path, Literals: r.Literals}
	}
	return pages.NewOrchestrator(
		pages.NewRegistry(cfg.Pages.Templates),
		pages.WithStaticRoutes(routes),
		pages.WithListingBase(cfg.Pages.ListingBase),
		pages.WithSearchPath(cfg.Pages.SearchPath),
		pages.WithLiterals(literals),
		pages.WithRecorder(rec),
	)
}
