package pages

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/snippetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/snippetbuilder/internal/lang"
	"git.home.luguber.info/inful/snippetbuilder/internal/listing"
	"git.home.luguber.info/inful/snippetbuilder/internal/logfields"
	"git.home.luguber.info/inful/snippetbuilder/internal/metrics"
	"git.home.luguber.info/inful/snippetbuilder/internal/query"
)

// Card templates of the three detail page collections.
const (
	CardStandard = "standard"
	CardCSS      = "css"
	CardBlog     = "blog"
)

// recommendedCount is the size of the default search page's recommendations.
const recommendedCount = 3

// StaticRoute is an informational page and the literal block it shows.
type StaticRoute struct {
	Path     string
	Literals string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStaticRoutes replaces the static routes.
func WithStaticRoutes(routes []StaticRoute) Option {
	return func(o *Orchestrator) { o.staticRoutes = routes }
}

// WithListingBase sets the route listing pages live under.
func WithListingBase(base string) Option {
	return func(o *Orchestrator) { o.listingBase = strings.TrimSuffix(base, "/") }
}

// WithSearchPath sets the route of the full search index page.
func WithSearchPath(p string) Option { return func(o *Orchestrator) { o.searchPath = p } }

// WithLiterals sets the localization table.
func WithLiterals(t *lang.Table) Option { return func(o *Orchestrator) { o.literals = t } }

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// Orchestrator plans and registers the page catalogue.
type Orchestrator struct {
	registry     Registry
	staticRoutes []StaticRoute
	listingBase  string
	searchPath   string
	literals     *lang.Table
	recorder     metrics.Recorder
}

// NewOrchestrator creates an orchestrator over registry.
func NewOrchestrator(registry Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		staticRoutes: []StaticRoute{
			{Path: "/about", Literals: "about"},
			{Path: "/cookies", Literals: "cookies"},
		},
		listingBase: "/list",
		searchPath:  "/search_index",
		literals:    lang.English(),
		recorder:    metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Registry returns the template registry.
func (o *Orchestrator) Registry() Registry { return o.registry }

// page is a request before template resolution and the common context merge.
type page struct {
	template string
	path     string
	context  map[string]any
}

// plan carries the inputs every emitter reads.
type plan struct {
	data    *query.Data
	metas   []listing.Meta
	index   []IndexEntry
	common  map[string]any
	literal *lang.Table
}

// emitter produces one group of pages.
type emitter struct {
	name  string
	build func(o *Orchestrator, p *plan) ([]page, error)
}

// emitters run in order; their output order is the registration order.
var emitters = []emitter{
	{name: "not-found", build: (*Orchestrator).notFoundPage},
	{name: "static", build: (*Orchestrator).staticPages},
	{name: "settings", build: (*Orchestrator).settingsPage},
	{name: "listing", build: (*Orchestrator).listingPages},
	{name: "detail", build: (*Orchestrator).detailPages},
	{name: "search", build: (*Orchestrator).searchPages},
}

// ingestFailure reports a query that failed because content files did not
// ingest, keeping the ingestion stage and the first failed file.
func ingestFailure(result *query.Result) error {
	b := ferrors.WrapError(result.Failures[0], ferrors.CategoryIngest,
		fmt.Sprintf("%d content file(s) failed to ingest: %s", len(result.Failures), strings.Join(result.Errors, "; "))).
		Fatal().
		WithContext("errors", result.Errors)
	if ce, ok := ferrors.AsClassified(result.Failures[0]); ok && ce.File() != "" {
		b = b.WithFile(ce.File())
	}
	return b.Build()
}

// Plan derives the page requests for result. It performs no I/O.
func (o *Orchestrator) Plan(result *query.Result, metas []listing.Meta) ([]Request, error) {
	if result == nil {
		return nil, ferrors.QueryError("query returned no result").Build()
	}
	if len(result.Failures) > 0 {
		return nil, ingestFailure(result)
	}
	if result.Failed() {
		return nil, ferrors.QueryError(fmt.Sprintf("%d query error(s): %s", len(result.Errors), strings.Join(result.Errors, "; "))).
			WithContext("errors", result.Errors).
			Build()
	}
	if result.Data == nil {
		return nil, ferrors.QueryError("query returned no data").Build()
	}
	if err := o.registry.Require(RequiredTemplates...); err != nil {
		return nil, err
	}

	data := result.Data
	p := &plan{
		data:    data,
		metas:   metas,
		index:   TransformIndex(data.SearchIndex),
		literal: o.literals,
		common: map[string]any{
			"logoSrc":       data.Logo.Src,
			"splashLogoSrc": data.SplashLogo.Src,
			"snippetCount":  len(data.SearchIndex),
		},
	}

	var requests []Request
	for _, e := range emitters {
		pages, err := e.build(o, p)
		if err != nil {
			return nil, err
		}
		for _, pg := range pages {
			requests = append(requests, o.request(p.common, pg))
		}
		slog.Debug("Pages planned", slog.String("group", e.name), logfields.Count(len(pages)))
	}

	if err := checkPaths(requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (o *Orchestrator) request(common map[string]any, pg page) Request {
	ctx := maps.Clone(common)
	maps.Copy(ctx, pg.context)
	return Request{
		Template:  pg.template,
		Component: o.registry[pg.template].Source,
		Path:      pg.path,
		Context:   ctx,
	}
}

func (o *Orchestrator) notFoundPage(*plan) ([]page, error) {
	return []page{{template: NotFoundPage, context: map[string]any{}}}, nil
}

func (o *Orchestrator) staticPages(p *plan) ([]page, error) {
	out := make([]page, 0, len(o.staticRoutes))
	for _, route := range o.staticRoutes {
		literals, err := p.literal.Block(route.Literals)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, fmt.Sprintf("static route %s", route.Path)).
				Fatal().
				WithContext("path", route.Path).
				Build()
		}
		out = append(out, page{
			template: StaticPage,
			path:     route.Path,
			context:  map[string]any{"stringLiterals": literals},
		})
	}
	return out, nil
}

func (o *Orchestrator) settingsPage(p *plan) ([]page, error) {
	return []page{{
		template: SettingsPage,
		context:  map[string]any{"stringLiterals": p.literal.Settings},
	}}, nil
}

func (o *Orchestrator) listingPages(p *plan) ([]page, error) {
	out := make([]page, 0, len(p.metas))
	for _, meta := range p.metas {
		slug := listing.Slug(meta.Category)
		entries := make([]IndexEntry, 0)
		for _, e := range p.index {
			if listing.Slug(e.PrimaryTag) == slug {
				entries = append(entries, e)
			}
		}
		out = append(out, page{
			template: ListingPage,
			path:     o.listingBase + "/" + slug,
			context: map[string]any{
				"snippetList": entries,
				"listingMeta": meta,
				"listingSlug": slug,
			},
		})
	}
	return out, nil
}

func (o *Orchestrator) detailPages(p *plan) ([]page, error) {
	d := p.data
	all := make([]query.Item, 0, len(d.Simple)+len(d.Secondary)+len(d.Composite))
	all = append(all, d.Simple...)
	all = append(all, d.Secondary...)
	all = append(all, d.Composite...)

	out := make([]page, 0, len(all))
	detail := func(items []query.Item, card string, extra map[string]any) {
		for _, item := range items {
			ctx := map[string]any{"cardTemplate": card, "snippet": item}
			maps.Copy(ctx, extra)
			out = append(out, page{template: SnippetPage, path: item.Slug, context: ctx})
		}
	}
	detail(d.Simple, CardStandard, nil)
	detail(d.Secondary, CardCSS, nil)
	detail(d.Composite, CardBlog, map[string]any{"allSnippets": all, "images": d.Images})
	return out, nil
}

func (o *Orchestrator) searchPages(p *plan) ([]page, error) {
	description := p.literal.Search.PageDescription(len(p.data.SearchIndex))
	recommended := p.index[:min(recommendedCount, len(p.index))]
	return []page{
		{
			template: SearchPage,
			path:     o.searchPath,
			context:  map[string]any{"searchIndex": p.index, "pageDescription": description},
		},
		{
			template: SearchPage,
			context:  map[string]any{"recommendedSnippets": recommended, "pageDescription": description},
		},
	}, nil
}

// checkPaths rejects two requests targeting the same path.
func checkPaths(requests []Request) error {
	seen := make(map[string]int, len(requests))
	for i, r := range requests {
		if r.Path == "" {
			continue
		}
		if first, dup := seen[r.Path]; dup {
			return ferrors.ValidationError(fmt.Sprintf("duplicate page path %s", r.Path)).
				WithContext("path", r.Path).
				WithContext("first_template", requests[first].Template).
				WithContext("template", r.Template).
				Build()
		}
		seen[r.Path] = i
	}
	return nil
}

// Run executes q, plans the catalogue and registers every request with
// sink in order. Nothing is registered unless planning succeeds. It returns
// the number of registered requests.
func (o *Orchestrator) Run(ctx context.Context, exec query.Executor, q query.Query, metas []listing.Meta, sink Sink) (int, error) {
	start := time.Now()
	result, err := exec.Execute(ctx, q)
	if err != nil {
		return 0, ferrors.WrapError(err, ferrors.CategoryQuery, "query execution failed").
			Fatal().
			Build()
	}
	o.recorder.ObserveStageDuration(ferrors.CategoryQuery.Stage(), time.Since(start))

	requests, err := o.Plan(result, metas)
	if err != nil {
		return 0, err
	}

	start = time.Now()
	for i, req := range requests {
		if err := sink.Register(ctx, req); err != nil {
			return i, ferrors.WrapError(err, ferrors.CategoryRegistration, "page registration failed").
				Fatal().
				WithContext("template", req.Template).
				WithContext("path", req.Path).
				Build()
		}
		o.recorder.IncPageEmitted(req.Template)
		slog.Debug("Page registered", logfields.Template(req.Template), logfields.Path(req.Path))
	}
	o.recorder.ObserveStageDuration(ferrors.CategoryRegistration.Stage(), time.Since(start))
	slog.Info("Pages registered", logfields.Count(len(requests)), logfields.Since(start))
	return len(requests), nil
}
