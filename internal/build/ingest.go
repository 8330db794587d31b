package build

import (
	"context"
	stderrors "errors"
	"fmt"

	"git.home.luguber.info/inful/snippetbuilder/internal/config"
	"git.home.luguber.info/inful/snippetbuilder/internal/content"
	ferrors "git.home.luguber.info/inful/snippetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/snippetbuilder/internal/query"
)

// CollectionReport summarizes ingestion of one collection.
type CollectionReport struct {
	Name     string
	Dir      string
	Records  []*content.Record
	Failures []content.Result
}

// IngestReport summarizes ingestion of every configured collection.
type IngestReport struct {
	MetadataSource string
	Collections    []CollectionReport
}

// Failures returns every failed file across collections.
func (r *IngestReport) Failures() []content.Result {
	var out []content.Result
	for _, c := range r.Collections {
		out = append(out, c.Failures...)
	}
	return out
}

// Ingest reads every configured collection without planning pages. The
// report is returned even when files failed; the error then names the
// first failed file.
func Ingest(ctx context.Context, cfg *config.Config, history content.RevisionHistory) (*IngestReport, error) {
	ing, err := NewIngestor(cfg, history, nil)
	if err != nil {
		return nil, err
	}

	report := &IngestReport{MetadataSource: ing.Source()}
	collections := []struct {
		name string
		dir  string
	}{
		{query.CollectionSimple, cfg.Content.Simple.Dir},
		{query.CollectionSecondary, cfg.Content.Secondary.Dir},
		{query.CollectionComposite, cfg.Content.Composite.Dir},
	}
	for _, c := range collections {
		if c.dir == "" {
			continue
		}
		results, err := ing.IngestDir(ctx, c.dir)
		var batch *content.BatchError
		switch {
		case stderrors.As(err, &batch):
			results = batch.Failures
		case err != nil:
			return report, err
		}
		report.Collections = append(report.Collections, CollectionReport{
			Name:     c.name,
			Dir:      c.dir,
			Records:  content.Records(results),
			Failures: content.Failures(results),
		})
	}

	if failures := report.Failures(); len(failures) > 0 {
		first := failures[0]
		return report, ferrors.WrapError(first.Err, ferrors.CategoryIngest,
			fmt.Sprintf("%d content file(s) failed to ingest", len(failures))).
			Fatal().
			WithFile(first.FileName).
			Build()
	}
	return report, nil
}
