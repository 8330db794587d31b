// Package listing loads the precomputed per-category listing descriptors.
package listing

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Meta describes one listing category.
type Meta struct {
	Category    string   `yaml:"category" json:"category"`
	Label       string   `yaml:"label,omitempty" json:"label,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Count       int      `yaml:"count,omitempty" json:"count,omitempty"`
	Featured    []string `yaml:"featured,omitempty" json:"featured,omitempty"`
}

type file struct {
	Listings []Meta `yaml:"listings"`
}

// Load reads listing descriptors from a YAML file. File order is kept.
func Load(path string) ([]Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listing meta %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes listing descriptors and rejects empty or duplicate
// categories, including categories that collapse to the same slug.
func Parse(data []byte) ([]Meta, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode listing meta: %w", err)
	}

	seen := make(map[string]string, len(f.Listings))
	for i, m := range f.Listings {
		slug := Slug(m.Category)
		if slug == "" {
			return nil, fmt.Errorf("listing %d has no usable category", i)
		}
		if other, dup := seen[slug]; dup {
			return nil, fmt.Errorf("listing categories %q and %q share slug %q", other, m.Category, slug)
		}
		seen[slug] = m.Category
		if f.Listings[i].Label == "" {
			f.Listings[i].Label = m.Category
		}
	}
	return f.Listings, nil
}

// Slug maps a category to its path segment: lower case, runs of anything
// other than letters and digits collapsed to a single '-', trimmed.
func Slug(category string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(category) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
