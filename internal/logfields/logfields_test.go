package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Stage", KeyStage, "ingestion", Stage("ingestion")},
		{"File", KeyFile, "a.md", File("a.md")},
		{"Dir", KeyDir, "content/snippets", Dir("content/snippets")},
		{"Path", KeyPath, "/about", Path("/about")},
		{"Template", KeyTemplate, "StaticPage", Template("StaticPage")},
		{"Collection", KeyCollection, "simple", Collection("simple")},
		{"MetadataSource", KeySource, "history", MetadataSource("history")},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Fatalf("%s key mismatch: got %s want %s", c.name, c.attr.Key, c.attrKey)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Fatalf("%s value mismatch: got %s want %s", c.name, c.attr.Value.String(), c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if got := Count(7); got.Key != KeyCount || got.Value.Int64() != 7 {
		t.Fatalf("unexpected count attr %v", got)
	}
	if got := Since(time.Now().Add(-time.Second)); got.Key != KeyDurationMS || got.Value.Float64() < 1000 {
		t.Fatalf("unexpected duration attr %v", got)
	}
}

func TestErrorHelper(t *testing.T) {
	if Error(nil).Value.String() != "" {
		t.Fatal("nil error should produce empty value")
	}
	if Error(errors.New("boom")).Value.String() != "boom" {
		t.Fatal("error message not preserved")
	}
}
