package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyFile       = "file"
	KeyDir        = "dir"
	KeyPath       = "path"
	KeyTemplate   = "template"
	KeyCollection = "collection"
	KeyCount      = "count"
	KeySource     = "metadata_source"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr         { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func File(name string) slog.Attr        { return slog.String(KeyFile, name) }
func Dir(path string) slog.Attr         { return slog.String(KeyDir, path) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Template(name string) slog.Attr    { return slog.String(KeyTemplate, name) }
func Collection(name string) slog.Attr  { return slog.String(KeyCollection, name) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func MetadataSource(s string) slog.Attr { return slog.String(KeySource, s) }

// Since reports the elapsed time since start in milliseconds.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
