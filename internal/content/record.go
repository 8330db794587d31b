package content

import (
	"fmt"
	"strings"
	"time"
)

// Record is one parsed content file.
type Record struct {
	Body string
	// Attributes holds every header key except firstSeen and lastUpdated,
	// with the types YAML decoded them to.
	Attributes  map[string]any
	FirstSeen   time.Time
	LastUpdated time.Time
	// FileName is the base name of the source file.
	FileName    string
	Fingerprint string
}

// Chronological reports whether FirstSeen <= LastUpdated. Ingestion does
// not enforce this, so history rewrites or hand-edited headers can break it.
func (r *Record) Chronological() bool {
	return !r.LastUpdated.Before(r.FirstSeen)
}

// Attribute returns a header attribute as a string, if it is one.
func (r *Record) Attribute(key string) (string, bool) {
	v, ok := r.Attributes[key].(string)
	return v, ok
}

// Result is the outcome of ingesting one file: exactly one of Record and
// Err is set.
type Result struct {
	FileName string
	Record   *Record
	Err      error
}

// OK reports whether the result carries a record.
func (r Result) OK() bool { return r.Err == nil && r.Record != nil }

// Records returns the successful records in input order.
func Records(results []Result) []*Record {
	out := make([]*Record, 0, len(results))
	for _, r := range results {
		if r.OK() {
			out = append(out, r.Record)
		}
	}
	return out
}

// Failures returns the failed results in input order.
func Failures(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// BatchError is returned by atomic batch ingestion when any file failed.
type BatchError struct {
	Dir      string
	Failures []Result
}

func (e *BatchError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.FileName
	}
	return fmt.Sprintf("ingest %s: %d file(s) failed: %s", e.Dir, len(e.Failures), strings.Join(names, ", "))
}

// Unwrap exposes the per-file errors to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}
