package pages

import (
	"fmt"
	"sort"

	ferrors "git.home.luguber.info/inful/snippetbuilder/internal/foundation/errors"
)

// Template names every build needs.
const (
	NotFoundPage = "NotFoundPage"
	StaticPage   = "StaticPage"
	SettingsPage = "SettingsPage"
	ListingPage  = "ListingPage"
	SnippetPage  = "SnippetPage"
	SearchPage   = "SearchPage"
)

// RequiredTemplates lists the template names Require checks, in page order.
var RequiredTemplates = []string{NotFoundPage, StaticPage, SettingsPage, ListingPage, SnippetPage, SearchPage}

// Template is a named handle to a page template.
type Template struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// Registry maps template names to handles.
type Registry map[string]Template

// NewRegistry builds a registry from name to source path pairs.
func NewRegistry(sources map[string]string) Registry {
	r := make(Registry, len(sources))
	for name, src := range sources {
		r[name] = Template{Name: name, Source: src}
	}
	return r
}

// Require returns a configuration error for the first missing name.
func (r Registry) Require(names ...string) error {
	for _, name := range names {
		if t, ok := r[name]; !ok || t.Source == "" {
			return ferrors.ConfigError(fmt.Sprintf("missing page template %q", name)).
				WithContext("template", name).
				Build()
		}
	}
	return nil
}

// Names returns the registered names sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Templates returns the handles sorted by name.
func (r Registry) Templates() []Template {
	out := make([]Template, 0, len(r))
	for _, name := range r.Names() {
		out = append(out, r[name])
	}
	return out
}
