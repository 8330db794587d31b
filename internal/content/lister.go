package content

import (
	"context"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// Lister returns the base names of the content files in a directory.
type Lister interface {
	List(ctx context.Context, dir string) ([]string, error)
}

// DirLister lists regular files directly inside a directory whose base name
// matches Pattern. Names come back in os.ReadDir order.
type DirLister struct {
	Pattern string
}

func (l DirLister) List(ctx context.Context, dir string) ([]string, error) {
	pattern := l.Pattern
	if pattern == "" {
		pattern = "*.md"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid file pattern %q", pattern)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() {
			continue
		}
		if ok, _ := doublestar.Match(pattern, e.Name()); ok {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// StaticLister returns a fixed list of names regardless of directory.
type StaticLister []string

func (l StaticLister) List(context.Context, string) ([]string, error) {
	return append([]string(nil), l...), nil
}
