package content

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultFirstSeen is the timestamp assumed for content whose header has no
// firstSeen key.
const DefaultFirstSeen = "2021-06-13T05:00:00-04:00"

// Reserved header keys.
const (
	KeyFirstSeen   = "firstSeen"
	KeyLastUpdated = "lastUpdated"
)

// ErrInvalidTimestamp reports a header timestamp that could not be parsed.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Timestamps is a resolved firstSeen/lastUpdated pair.
type Timestamps struct {
	FirstSeen   time.Time
	LastUpdated time.Time
}

// timestampLayouts are tried in order. Layouts without a zone are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp converts a header value into a time. Strings are parsed
// with the supported layouts, integers are epoch seconds.
func ParseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, t)
	case int:
		return time.Unix(int64(t), 0), nil
	case int64:
		return time.Unix(t, 0), nil
	case uint64:
		return time.Unix(int64(t), 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidTimestamp, v)
	}
}

// MustParseTimestamp is ParseTimestamp for package-level constants.
func MustParseTimestamp(v any) time.Time {
	t, err := ParseTimestamp(v)
	if err != nil {
		panic(err)
	}
	return t
}

// resolveHeaderTimestamps applies the fallback policy to raw header values:
// firstSeen falls back to the default, lastUpdated falls back to the
// resolved firstSeen.
func resolveHeaderTimestamps(fields map[string]any, defaultFirstSeen time.Time) (Timestamps, error) {
	var ts Timestamps

	rawFirst, ok := fields[KeyFirstSeen]
	if !ok || rawFirst == nil {
		ts.FirstSeen = defaultFirstSeen
	} else {
		first, err := ParseTimestamp(rawFirst)
		if err != nil {
			return Timestamps{}, fmt.Errorf("%s: %w", KeyFirstSeen, err)
		}
		ts.FirstSeen = first
	}

	rawLast, ok := fields[KeyLastUpdated]
	if !ok || rawLast == nil {
		ts.LastUpdated = ts.FirstSeen
		return ts, nil
	}
	last, err := ParseTimestamp(rawLast)
	if err != nil {
		return Timestamps{}, fmt.Errorf("%s: %w", KeyLastUpdated, err)
	}
	ts.LastUpdated = last
	return ts, nil
}
