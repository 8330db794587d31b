package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCanonical_Empty(t *testing.T) {
	out, err := Canonical(nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestCanonical_SortsKeysAndTrimsNewline(t *testing.T) {
	out, err := Canonical(map[string]any{
		"title":     "Flexbox centering",
		"expertise": "beginner",
		"draft":     false,
	})
	require.NoError(t, err)
	require.Equal(t, "draft: false\nexpertise: beginner\ntitle: Flexbox centering", out)
}

func TestCanonical_TagListsAndNestedMaps(t *testing.T) {
	out, err := Canonical(map[string]any{
		"tags": []any{"css", "layout"},
		"meta": map[string]any{"weight": 2, "author": "jane"},
	})
	require.NoError(t, err)
	require.Equal(t, "meta:\n  author: jane\n  weight: 2\ntags:\n  - css\n  - layout", out)
}

func TestCanonical_DatesRenderInUTC(t *testing.T) {
	oslo := time.FixedZone("CET", 3600)
	out, err := Canonical(map[string]any{"published": time.Date(2020, 1, 1, 1, 0, 0, 0, oslo)})
	require.NoError(t, err)
	require.Equal(t, "published: 2020-01-01T00:00:00Z", out)
}

func TestCanonical_StableForDecodedHeader(t *testing.T) {
	fields, err := ParseYAML([]byte("tags: [js, array]\npublished: 2020-01-01\nexpertise: 3\ntitle: '2020-01-01'\n"))
	require.NoError(t, err)

	first, err := Canonical(fields)
	require.NoError(t, err)
	second, err := Canonical(fields)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, "expertise: 3\npublished: 2020-01-01T00:00:00Z\ntags:\n  - js\n  - array\ntitle: \"2020-01-01\"", first)
}
