package pages

import (
	"context"
	"sync"
)

// Request asks the site generator to create one page.
type Request struct {
	// Template is the registry name of the page template.
	Template string `json:"template"`
	// Component is the template source the registry resolved.
	Component string `json:"component"`
	// Path is empty when the template derives its own route.
	Path    string         `json:"path,omitempty"`
	Context map[string]any `json:"context"`
}

// Sink receives page requests in plan order.
type Sink interface {
	Register(ctx context.Context, req Request) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, req Request) error

// Register calls f.
func (f SinkFunc) Register(ctx context.Context, req Request) error { return f(ctx, req) }

// CollectingSink keeps every request in memory.
type CollectingSink struct {
	mu       sync.Mutex
	requests []Request
}

// Register appends req.
func (s *CollectingSink) Register(_ context.Context, req Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return nil
}

// Requests returns a copy of the collected requests.
func (s *CollectingSink) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}
