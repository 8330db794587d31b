package content

import (
	"context"
	"time"
)

// Metadata source names.
const (
	SourceHeader  = "header"
	SourceHistory = "history"
)

// MetadataSource is the strategy that decides where a file's timestamps
// come from. Timestamps runs concurrently with the file read; a nil result
// with a nil error means the header fallback policy applies.
type MetadataSource interface {
	Name() string
	Timestamps(ctx context.Context, dir, fileName string) (*Timestamps, error)
}

// HeaderSource takes timestamps from the metadata header only.
type HeaderSource struct{}

func (HeaderSource) Name() string { return SourceHeader }

func (HeaderSource) Timestamps(context.Context, string, string) (*Timestamps, error) {
	return nil, nil
}

// RevisionHistory lists the commit times of a file as epoch seconds,
// newest first.
type RevisionHistory interface {
	History(ctx context.Context, dir, fileName string) ([]int64, error)
}

// HistorySource takes timestamps from revision history: the oldest entry is
// firstSeen and the newest is lastUpdated. Files without history (not yet
// committed) fall back to the header policy.
type HistorySource struct {
	History RevisionHistory
}

func (HistorySource) Name() string { return SourceHistory }

func (s HistorySource) Timestamps(ctx context.Context, dir, fileName string) (*Timestamps, error) {
	entries, err := s.History.History(ctx, dir, fileName)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &Timestamps{
		FirstSeen:   time.Unix(entries[len(entries)-1], 0),
		LastUpdated: time.Unix(entries[0], 0),
	}, nil
}
