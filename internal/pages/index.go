package pages

import (
	"strings"
	"unicode"

	"git.home.luguber.info/inful/snippetbuilder/internal/query"
)

// IndexEntry is the compact form of an item used by search and listing pages.
type IndexEntry struct {
	Title        string `json:"title"`
	PrimaryTag   string `json:"primaryTag"`
	Expertise    string `json:"expertise"`
	URL          string `json:"url"`
	Description  string `json:"description"`
	SearchTokens string `json:"searchTokens"`
}

// TransformIndex converts items to index entries, keeping their order.
func TransformIndex(items []query.Item) []IndexEntry {
	out := make([]IndexEntry, len(items))
	for i, item := range items {
		out[i] = IndexEntry{
			Title:        item.Title,
			PrimaryTag:   item.PrimaryTag,
			Expertise:    item.Expertise,
			URL:          item.Slug,
			Description:  item.Excerpt,
			SearchTokens: searchTokens(item),
		}
	}
	return out
}

// searchTokens returns the distinct lower-case words of the title, file
// name and tags, space separated, in first-seen order.
func searchTokens(item query.Item) string {
	seen := make(map[string]struct{})
	var tokens []string
	add := func(s string) {
		for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			if _, dup := seen[w]; !dup {
				seen[w] = struct{}{}
				tokens = append(tokens, w)
			}
		}
	}
	add(item.Title)
	add(strings.TrimSuffix(item.FileName, ".md"))
	for _, tag := range item.Tags {
		add(tag)
	}
	return strings.Join(tokens, " ")
}
