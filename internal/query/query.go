package query

import (
	"context"
	"slices"
	"time"
)

// Collection names understood by the local executor.
const (
	CollectionSimple    = "simple"
	CollectionSecondary = "secondary"
	CollectionComposite = "composite"
)

// Query is a named selection over the content graph.
type Query struct {
	Name        string
	Collections []string
}

// SiteQuery selects everything a site build needs.
var SiteQuery = Query{
	Name:        "site",
	Collections: []string{CollectionSimple, CollectionSecondary, CollectionComposite},
}

// Includes reports whether q selects the named collection.
func (q Query) Includes(collection string) bool {
	return slices.Contains(q.Collections, collection)
}

// Executor resolves queries. A returned error means the query could not be
// run at all; a Result with Errors means it ran and failed.
type Executor interface {
	Execute(ctx context.Context, q Query) (*Result, error)
}

// Result is the outcome of one query. Failures holds the per-file ingestion
// errors behind the matching Errors entries, keeping their file and stage.
type Result struct {
	Errors   []string `json:"errors,omitempty"`
	Failures []error  `json:"-"`
	Data     *Data    `json:"data,omitempty"`
}

// Failed reports whether the result carries errors.
func (r *Result) Failed() bool { return len(r.Errors) > 0 }

// Data is the resolved content graph.
type Data struct {
	// SearchIndex holds every item, newest first.
	SearchIndex []Item  `json:"searchIndex"`
	Simple      []Item  `json:"simple"`
	Secondary   []Item  `json:"secondary"`
	Composite   []Item  `json:"composite"`
	Images      []Image `json:"images"`
	Logo        Image   `json:"logo"`
	SplashLogo  Image   `json:"splashLogo"`
}

// Item is one content item as the page layer sees it.
type Item struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug"`
	FileName    string         `json:"fileName"`
	Title       string         `json:"title"`
	Tags        []string       `json:"tags"`
	PrimaryTag  string         `json:"primaryTag"`
	Expertise   string         `json:"expertise"`
	Excerpt     string         `json:"excerpt"`
	Body        string         `json:"body"`
	FirstSeen   time.Time      `json:"firstSeen"`
	LastUpdated time.Time      `json:"lastUpdated"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// Image is a supporting image asset.
type Image struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}
