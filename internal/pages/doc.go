// Package pages plans the page catalogue of one build.
//
// An Orchestrator turns a resolved query.Result, the listing descriptors and
// a template Registry into an ordered list of Requests: the not-found page,
// the static pages, the settings page, one listing page per category, one
// detail page per content item and the two search pages. Planning is pure;
// Run adds the single query round trip in front and hands every request to
// a Sink.
package pages
