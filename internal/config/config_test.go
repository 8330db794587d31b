package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/snippetbuilder/internal/foundation/errors"
)

const minimal = `content:
  simple: {dir: content/snippets}
  secondary: {dir: content/css}
  composite: {dir: content/blog}
pages:
  templates:
    NotFoundPage: templates/404.tmpl
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(minimal))
	require.NoError(t, err)

	require.Equal(t, "*.md", cfg.Content.Pattern)
	require.Equal(t, defaultImagePattern, cfg.Content.Images.Pattern)
	require.Equal(t, "snippets", cfg.Content.Simple.SlugPrefix)
	require.Equal(t, "css", cfg.Content.Secondary.SlugPrefix)
	require.Equal(t, "blog", cfg.Content.Composite.SlugPrefix)

	require.Equal(t, MetadataSourceHeader, cfg.Ingest.MetadataSource)
	require.Equal(t, 30*time.Second, cfg.Ingest.ReadTimeout)
	require.Equal(t, 8, cfg.Ingest.Concurrency)
	require.False(t, cfg.Ingest.Atomic)

	first, err := cfg.Ingest.FirstSeenDefault()
	require.NoError(t, err)
	require.Equal(t, "2021-06-13T09:00:00Z", first.UTC().Format(time.RFC3339))

	require.Equal(t, []StaticRoute{{Path: "/about", Literals: "about"}, {Path: "/cookies", Literals: "cookies"}}, cfg.Pages.StaticRoutes)
	require.Equal(t, "/list", cfg.Pages.ListingBase)
	require.Equal(t, "/search_index", cfg.Pages.SearchPath)
	require.Equal(t, "public/pages.json", cfg.Output.Manifest)
}

func TestApplyDefaults_SlugPrefixFromDirectoryName(t *testing.T) {
	cfg := &Config{Content: ContentConfig{
		Simple:    CollectionConfig{Dir: "content/snippets/"},
		Secondary: CollectionConfig{Dir: "./css"},
		Composite: CollectionConfig{Dir: "posts/../blog//"},
	}}
	applyDefaults(cfg)

	require.Equal(t, "snippets", cfg.Content.Simple.SlugPrefix)
	require.Equal(t, "css", cfg.Content.Secondary.SlugPrefix)
	require.Equal(t, "blog", cfg.Content.Composite.SlugPrefix)
}

func TestParse_ExplicitValues(t *testing.T) {
	cfg, err := Parse([]byte(minimal + `ingest:
  metadata_source: history
  read_timeout: 5s
  concurrency: 2
  atomic: true
  default_first_seen: "2020-01-01"
`))
	require.NoError(t, err)
	require.Equal(t, MetadataSourceHistory, cfg.Ingest.MetadataSource)
	require.Equal(t, 5*time.Second, cfg.Ingest.ReadTimeout)
	require.Equal(t, 2, cfg.Ingest.Concurrency)
	require.True(t, cfg.Ingest.Atomic)
}

func TestParse_ValidationFailures(t *testing.T) {
	tests := map[string]string{
		"missing collection":  "content:\n  simple: {dir: a}\n  secondary: {dir: b}\npages:\n  templates: {X: y}\n",
		"prefix collision":    "content:\n  simple: {dir: a/x}\n  secondary: {dir: b/x}\n  composite: {dir: c}\npages:\n  templates: {X: y}\n",
		"bad pattern":         "content:\n  pattern: \"[\"\n  simple: {dir: a}\n  secondary: {dir: b}\n  composite: {dir: c}\npages:\n  templates: {X: y}\n",
		"bad metadata source": minimal + "ingest:\n  metadata_source: svn\n",
		"bad first seen":      minimal + "ingest:\n  default_first_seen: yesterday\n",
		"no templates":        "content:\n  simple: {dir: a}\n  secondary: {dir: b}\n  composite: {dir: c}\n",
		"relative listing":    minimal + "  listing_base: list\n",
		"duplicate static":    minimal + "  static_routes:\n    - {path: /a, literals: about}\n    - {path: /a, literals: cookies}\n",
		"static no literals":  minimal + "  static_routes:\n    - {path: /a}\n",
	}
	for name, yaml := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(yaml))
			require.Error(t, err)
			require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig), "got %v", err)
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("content: ["))
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SNIPPET_ROOT", "/srv/site")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`content:
  simple: {dir: ${SNIPPET_ROOT}/snippets}
  secondary: {dir: ${SNIPPET_ROOT}/css}
  composite: {dir: ${SNIPPET_ROOT}/blog}
pages:
  templates: {NotFoundPage: a}
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/site/snippets", cfg.Content.Simple.Dir)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "configuration file not found")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snippetbuilder.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Example().Content, cfg.Content)
	require.Len(t, cfg.Pages.Templates, 6)

	err = Init(path, false)
	require.ErrorContains(t, err, "already exists")
	require.NoError(t, Init(path, true))
}

func TestLoadSingleEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nexport SB_A=\"quoted\"\nSB_B=plain\n"), 0o600))
	t.Setenv("SB_B", "kept")
	require.NoError(t, os.Unsetenv("SB_A"))
	t.Cleanup(func() { _ = os.Unsetenv("SB_A") })

	require.NoError(t, loadSingleEnvFile(path))
	require.Equal(t, "quoted", os.Getenv("SB_A"))
	require.Equal(t, "kept", os.Getenv("SB_B"))
}
