package pages

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/snippetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/snippetbuilder/internal/listing"
	"git.home.luguber.info/inful/snippetbuilder/internal/metrics"
	"git.home.luguber.info/inful/snippetbuilder/internal/query"
)

func testRegistry() Registry {
	sources := make(map[string]string, len(RequiredTemplates))
	for _, name := range RequiredTemplates {
		sources[name] = "templates/" + name + ".tmpl"
	}
	return NewRegistry(sources)
}

func item(prefix, name, tag string, day int) query.Item {
	return query.Item{
		ID:         prefix + "/" + name,
		Slug:       "/" + prefix + "/s/" + name,
		FileName:   name + ".md",
		Title:      name,
		Tags:       []string{tag},
		PrimaryTag: tag,
		Expertise:  "intermediate",
		Excerpt:    "About " + name + ".",
		FirstSeen:  time.Date(2021, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

func resultOf(simple, secondary, composite []query.Item) *query.Result {
	var index []query.Item
	index = append(index, simple...)
	index = append(index, secondary...)
	index = append(index, composite...)
	return &query.Result{Data: &query.Data{
		SearchIndex: index,
		Simple:      simple,
		Secondary:   secondary,
		Composite:   composite,
		Images:      []query.Image{{Name: "cover.png", Src: "images/cover.png"}},
		Logo:        query.Image{Name: "logo.png", Src: "/logo.png"},
		SplashLogo:  query.Image{Name: "splash.png", Src: "/splash.png"},
	}}
}

type countingRecorder struct {
	metrics.NoopRecorder
	pages map[string]int
}

func (r *countingRecorder) IncPageEmitted(template string) {
	if r.pages == nil {
		r.pages = make(map[string]int)
	}
	r.pages[template]++
}

type staticExecutor struct {
	result *query.Result
	err    error
	calls  int
}

func (e *staticExecutor) Execute(context.Context, query.Query) (*query.Result, error) {
	e.calls++
	return e.result, e.err
}

func TestPlan_SingleSnippetExample(t *testing.T) {
	res := resultOf([]query.Item{item("js", "x", "css", 1)}, nil, nil)
	metas := []listing.Meta{{Category: "css"}}

	reqs, err := NewOrchestrator(testRegistry()).Plan(res, metas)
	require.NoError(t, err)

	const k = 2
	require.Len(t, reqs, k+6)

	var details []Request
	for _, r := range reqs {
		if r.Template == SnippetPage {
			details = append(details, r)
		}
	}
	require.Len(t, details, 1)
	require.Equal(t, CardStandard, details[0].Context["cardTemplate"])
	require.Equal(t, "/js/s/x", details[0].Path)
}

func TestPlan_CountFormula(t *testing.T) {
	simple := []query.Item{item("js", "a", "array", 1), item("js", "b", "math", 2), item("js", "c", "array", 3)}
	secondary := []query.Item{item("css", "d", "visual", 4)}
	composite := []query.Item{item("blog", "e", "story", 5), item("blog", "f", "story", 6)}
	metas := []listing.Meta{{Category: "array"}, {Category: "math"}, {Category: "visual"}, {Category: "story"}}
	routes := []StaticRoute{{Path: "/about", Literals: "about"}, {Path: "/cookies", Literals: "cookies"}, {Path: "/legal", Literals: "about"}}

	reqs, err := NewOrchestrator(testRegistry(), WithStaticRoutes(routes)).Plan(resultOf(simple, secondary, composite), metas)
	require.NoError(t, err)
	require.Len(t, reqs, 1+len(routes)+1+len(metas)+(3+1+2)+2)
}

func TestPlan_Order(t *testing.T) {
	res := resultOf([]query.Item{item("js", "a", "array", 1)}, []query.Item{item("css", "b", "visual", 2)}, []query.Item{item("blog", "c", "story", 3)})
	metas := []listing.Meta{{Category: "array"}}

	reqs, err := NewOrchestrator(testRegistry()).Plan(res, metas)
	require.NoError(t, err)

	var got []string
	for _, r := range reqs {
		got = append(got, r.Template+" "+r.Path)
	}
	require.Equal(t, []string{
		"NotFoundPage ",
		"StaticPage /about",
		"StaticPage /cookies",
		"SettingsPage ",
		"ListingPage /list/array",
		"SnippetPage /js/s/a",
		"SnippetPage /css/s/b",
		"SnippetPage /blog/s/c",
		"SearchPage /search_index",
		"SearchPage ",
	}, got)
	for _, r := range reqs {
		require.Equal(t, "templates/"+r.Template+".tmpl", r.Component)
	}
}

func TestPlan_CommonContext(t *testing.T) {
	res := resultOf([]query.Item{item("js", "a", "array", 1)}, nil, nil)
	reqs, err := NewOrchestrator(testRegistry()).Plan(res, nil)
	require.NoError(t, err)

	for _, r := range reqs {
		require.Equal(t, "/logo.png", r.Context["logoSrc"], r.Template)
		require.Equal(t, "/splash.png", r.Context["splashLogoSrc"], r.Template)
		require.Equal(t, 1, r.Context["snippetCount"], r.Template)
	}
}

func TestPlan_PerPageFieldsWin(t *testing.T) {
	o := NewOrchestrator(testRegistry())
	req := o.request(map[string]any{"snippetCount": 1, "logoSrc": "/a"}, page{template: SnippetPage, context: map[string]any{"logoSrc": "/b"}})
	require.Equal(t, "/b", req.Context["logoSrc"])
	require.Equal(t, 1, req.Context["snippetCount"])
}

func TestPlan_SearchPagesDifferOnlyInPathAndIndex(t *testing.T) {
	var simple []query.Item
	for i := 1; i <= 5; i++ {
		simple = append(simple, item("js", fmt.Sprintf("s%d", i), "array", i))
	}
	res := resultOf(simple, nil, nil)

	reqs, err := NewOrchestrator(testRegistry()).Plan(res, nil)
	require.NoError(t, err)

	full, recommended := reqs[len(reqs)-2], reqs[len(reqs)-1]
	require.Equal(t, "/search_index", full.Path)
	require.Empty(t, recommended.Path)
	require.Equal(t, full.Context["pageDescription"], recommended.Context["pageDescription"])
	require.Equal(t, "Browse 5 short code snippets for all your development needs.", full.Context["pageDescription"])

	index := full.Context["searchIndex"].([]IndexEntry)
	require.Len(t, index, 5)
	require.Equal(t, index[:3], recommended.Context["recommendedSnippets"])
	require.NotContains(t, full.Context, "recommendedSnippets")
	require.NotContains(t, recommended.Context, "searchIndex")
}

func TestPlan_FewerThanThreeRecommendations(t *testing.T) {
	res := resultOf([]query.Item{item("js", "only", "array", 1)}, nil, nil)
	reqs, err := NewOrchestrator(testRegistry()).Plan(res, nil)
	require.NoError(t, err)
	require.Len(t, reqs[len(reqs)-1].Context["recommendedSnippets"], 1)
}

func TestPlan_ListingPages(t *testing.T) {
	simple := []query.Item{item("js", "a", "node-js", 1), item("js", "b", "array", 2), item("js", "c", "node-js", 3)}
	metas := []listing.Meta{{Category: "Node.js", Count: 2}, {Category: "empty"}}

	reqs, err := NewOrchestrator(testRegistry(), WithListingBase("/list/")).Plan(resultOf(simple, nil, nil), metas)
	require.NoError(t, err)

	var listings []Request
	for _, r := range reqs {
		if r.Template == ListingPage {
			listings = append(listings, r)
		}
	}
	require.Len(t, listings, 2)
	require.Equal(t, "/list/node-js", listings[0].Path)
	require.Equal(t, "node-js", listings[0].Context["listingSlug"])
	require.Equal(t, metas[0], listings[0].Context["listingMeta"])

	entries := listings[0].Context["snippetList"].([]IndexEntry)
	require.Len(t, entries, 2)
	require.Equal(t, "/js/s/a", entries[0].URL)
	require.Equal(t, "/js/s/c", entries[1].URL)

	require.Equal(t, "/list/empty", listings[1].Path)
	require.Empty(t, listings[1].Context["snippetList"])
}

func TestPlan_CompositeDetailContext(t *testing.T) {
	simple := []query.Item{item("js", "a", "array", 1)}
	secondary := []query.Item{item("css", "b", "visual", 2)}
	composite := []query.Item{item("blog", "c", "story", 3)}
	res := resultOf(simple, secondary, composite)

	reqs, err := NewOrchestrator(testRegistry()).Plan(res, nil)
	require.NoError(t, err)

	byPath := make(map[string]Request)
	for _, r := range reqs {
		byPath[r.Path] = r
	}

	blog := byPath["/blog/s/c"]
	require.Equal(t, CardBlog, blog.Context["cardTemplate"])
	require.Equal(t, composite[0], blog.Context["snippet"])
	require.Equal(t, []query.Item{simple[0], secondary[0], composite[0]}, blog.Context["allSnippets"])
	require.Equal(t, res.Data.Images, blog.Context["images"])

	css := byPath["/css/s/b"]
	require.Equal(t, CardCSS, css.Context["cardTemplate"])
	require.NotContains(t, css.Context, "allSnippets")
	require.NotContains(t, css.Context, "images")
}

func TestPlan_StaticLiterals(t *testing.T) {
	reqs, err := NewOrchestrator(testRegistry()).Plan(resultOf(nil, nil, nil), nil)
	require.NoError(t, err)

	about := reqs[1]
	require.Equal(t, "/about", about.Path)
	require.NotEmpty(t, about.Context["stringLiterals"])

	settings := reqs[3]
	require.Equal(t, SettingsPage, settings.Template)
	require.NotEmpty(t, settings.Context["stringLiterals"])
}

func TestPlan_UnknownLiteralBlock(t *testing.T) {
	o := NewOrchestrator(testRegistry(), WithStaticRoutes([]StaticRoute{{Path: "/faq", Literals: "faq"}}))
	_, err := o.Plan(resultOf(nil, nil, nil), nil)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestPlan_MissingTemplate(t *testing.T) {
	reg := testRegistry()
	delete(reg, ListingPage)

	_, err := NewOrchestrator(reg).Plan(resultOf(nil, nil, nil), nil)
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryConfig, ce.Category())
	require.Contains(t, ce.Error(), ListingPage)
}

func TestPlan_DuplicatePath(t *testing.T) {
	res := resultOf([]query.Item{item("js", "a", "array", 1), item("js", "a", "array", 2)}, nil, nil)
	_, err := NewOrchestrator(testRegistry()).Plan(res, nil)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.Contains(t, err.Error(), "/js/s/a")
}

func TestPlan_StaticRouteCollidesWithSearchPath(t *testing.T) {
	o := NewOrchestrator(testRegistry(), WithStaticRoutes([]StaticRoute{{Path: "/search_index", Literals: "about"}}))
	_, err := o.Plan(resultOf(nil, nil, nil), nil)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestPlan_QueryErrors(t *testing.T) {
	_, err := NewOrchestrator(testRegistry()).Plan(&query.Result{Errors: []string{"boom"}}, nil)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryQuery))
	require.Contains(t, err.Error(), "boom")
}

func TestPlan_IngestFailuresKeepStageAndFile(t *testing.T) {
	cause := ferrors.IngestError("malformed metadata header").WithFile("broken.md").Build()
	result := &query.Result{Errors: []string{cause.Error()}, Failures: []error{cause}}

	_, err := NewOrchestrator(testRegistry()).Plan(result, nil)
	require.ErrorIs(t, err, cause)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, "ingestion", ce.Stage())
	require.Equal(t, "broken.md", ce.File())
	require.True(t, ce.IsFatal())
}

func TestRun_RegistersInOrder(t *testing.T) {
	res := resultOf([]query.Item{item("js", "x", "css", 1)}, nil, nil)
	exec := &staticExecutor{result: res}
	sink := &CollectingSink{}
	rec := &countingRecorder{}

	o := NewOrchestrator(testRegistry(), WithRecorder(rec))
	n, err := o.Run(context.Background(), exec, query.SiteQuery, []listing.Meta{{Category: "css"}}, sink)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.Equal(t, 1, exec.calls)

	planned, err := o.Plan(res, []listing.Meta{{Category: "css"}})
	require.NoError(t, err)
	require.Equal(t, planned, sink.Requests())
	require.Equal(t, 2, rec.pages[SearchPage])
	require.Equal(t, 1, rec.pages[SnippetPage])
}

func TestRun_QueryErrorsRegisterNothing(t *testing.T) {
	exec := &staticExecutor{result: &query.Result{Errors: []string{"bad graph"}}}
	sink := &CollectingSink{}

	n, err := NewOrchestrator(testRegistry()).Run(context.Background(), exec, query.SiteQuery, nil, sink)
	require.Error(t, err)
	require.Zero(t, n)
	require.Empty(t, sink.Requests())

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, "query", ce.Stage())
}

func TestRun_ExecutorError(t *testing.T) {
	exec := &staticExecutor{err: context.DeadlineExceeded}
	sink := &CollectingSink{}

	_, err := NewOrchestrator(testRegistry()).Run(context.Background(), exec, query.SiteQuery, nil, sink)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Empty(t, sink.Requests())
}

func TestRun_MissingTemplateRegistersNothing(t *testing.T) {
	reg := testRegistry()
	delete(reg, SearchPage)
	sink := &CollectingSink{}

	_, err := NewOrchestrator(reg).Run(context.Background(), &staticExecutor{result: resultOf(nil, nil, nil)}, query.SiteQuery, nil, sink)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	require.Empty(t, sink.Requests())
}

func TestRun_SinkFailure(t *testing.T) {
	boom := errors.New("sink closed")
	calls := 0
	sink := SinkFunc(func(context.Context, Request) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})

	n, err := NewOrchestrator(testRegistry()).Run(context.Background(), &staticExecutor{result: resultOf(nil, nil, nil)}, query.SiteQuery, nil, sink)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, n)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, "registration", ce.Stage())
}
