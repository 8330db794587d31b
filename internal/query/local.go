package query

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/snippetbuilder/internal/content"
	"git.home.luguber.info/inful/snippetbuilder/internal/logfields"
	"git.home.luguber.info/inful/snippetbuilder/internal/markdown"
)

const defaultExpertise = "intermediate"

// Collection is one directory of content files.
type Collection struct {
	Dir        string
	SlugPrefix string
}

// Sources locates everything the local executor reads.
type Sources struct {
	Simple       Collection
	Secondary    Collection
	Composite    Collection
	ImageDir     string
	ImagePattern string
	Logo         string
	SplashLogo   string
}

// LocalExecutor answers SiteQuery by ingesting content directories.
type LocalExecutor struct {
	ingestor *content.Ingestor
	sources  Sources
}

// NewLocalExecutor creates an executor over src.
func NewLocalExecutor(ing *content.Ingestor, src Sources) *LocalExecutor {
	return &LocalExecutor{ingestor: ing, sources: src}
}

// Execute resolves q. Ingestion failures are reported as result errors,
// one per failed file; only a canceled context is returned as an error.
func (e *LocalExecutor) Execute(ctx context.Context, q Query) (*Result, error) {
	if q.Name != SiteQuery.Name {
		return &Result{Errors: []string{fmt.Sprintf("unknown query %q", q.Name)}}, nil
	}

	start := time.Now()
	res := &Result{Data: &Data{}}
	targets := []struct {
		name string
		col  Collection
		dst  *[]Item
	}{
		{CollectionSimple, e.sources.Simple, &res.Data.Simple},
		{CollectionSecondary, e.sources.Secondary, &res.Data.Secondary},
		{CollectionComposite, e.sources.Composite, &res.Data.Composite},
	}

	for _, t := range targets {
		if !q.Includes(t.name) || t.col.Dir == "" {
			continue
		}
		items, failures := e.collect(ctx, t.col)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Name, err)
		}
		for _, f := range failures {
			res.Errors = append(res.Errors, f.Error())
		}
		res.Failures = append(res.Failures, failures...)
		*t.dst = items
		slog.Debug("Collection resolved", logfields.Collection(t.name), logfields.Dir(t.col.Dir), logfields.Count(len(items)))
	}

	images, err := listImages(e.sources.ImageDir, e.sources.ImagePattern)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
	}
	res.Data.Images = images
	res.Data.Logo = imageAt(e.sources.Logo)
	res.Data.SplashLogo = imageAt(e.sources.SplashLogo)

	if res.Failed() {
		res.Data = nil
		return res, nil
	}

	res.Data.SearchIndex = searchIndex(res.Data.Simple, res.Data.Secondary, res.Data.Composite)
	slog.Info("Query resolved", slog.String("query", q.Name), logfields.Count(len(res.Data.SearchIndex)), logfields.Since(start))
	return res, nil
}

func (e *LocalExecutor) collect(ctx context.Context, col Collection) ([]Item, []error) {
	results, err := e.ingestor.IngestDir(ctx, col.Dir)
	if err != nil {
		return nil, []error{err}
	}
	var failures []error
	items := make([]Item, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			failures = append(failures, r.Err)
			continue
		}
		items = append(items, NewItem(r.Record, col.SlugPrefix))
	}
	return items, failures
}

// NewItem converts a content record into an item under prefix.
func NewItem(rec *content.Record, prefix string) Item {
	name := strings.TrimSuffix(rec.FileName, filepath.Ext(rec.FileName))
	tags := tagList(rec.Attributes["tags"])

	item := Item{
		ID:          prefix + "/" + name,
		Slug:        "/" + path.Join(prefix, "s", name),
		FileName:    rec.FileName,
		Title:       name,
		Tags:        tags,
		Expertise:   defaultExpertise,
		Body:        rec.Body,
		FirstSeen:   rec.FirstSeen,
		LastUpdated: rec.LastUpdated,
		Attributes:  rec.Attributes,
	}
	if len(tags) > 0 {
		item.PrimaryTag = tags[0]
	}
	if v, ok := rec.Attribute("title"); ok && v != "" {
		item.Title = v
	}
	if v, ok := rec.Attribute("expertise"); ok && v != "" {
		item.Expertise = strings.ToLower(v)
	}
	if v, ok := rec.Attribute("excerpt"); ok && v != "" {
		item.Excerpt = v
	} else {
		item.Excerpt = markdown.Excerpt([]byte(rec.Body))
	}
	return item
}

// tagList accepts a YAML sequence or a comma separated string.
func tagList(v any) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []any:
		for _, e := range t {
			raw = append(raw, fmt.Sprint(e))
		}
	case []string:
		raw = t
	}
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// searchIndex merges the collections newest first, ties broken by slug.
func searchIndex(collections ...[]Item) []Item {
	var all []Item
	for _, c := range collections {
		all = append(all, c...)
	}
	slices.SortStableFunc(all, func(a, b Item) int {
		if c := b.FirstSeen.Compare(a.FirstSeen); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
	return all
}

func listImages(dir, pattern string) ([]Image, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list images in %s: %w", dir, err)
	}
	var images []Image
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := doublestar.Match(pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("image pattern %q: %w", pattern, err)
		}
		if ok {
			images = append(images, imageAt(filepath.Join(dir, entry.Name())))
		}
	}
	return images, nil
}

func imageAt(p string) Image {
	if p == "" {
		return Image{}
	}
	return Image{Name: filepath.Base(p), Src: filepath.ToSlash(p)}
}
