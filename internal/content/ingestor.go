package content

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/snippetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/snippetbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/snippetbuilder/internal/logfields"
	"git.home.luguber.info/inful/snippetbuilder/internal/metrics"
)

const (
	defaultConcurrency = 8
	defaultReadTimeout = 30 * time.Second
)

// Ingestor turns content files into records.
type Ingestor struct {
	reader           Reader
	lister           Lister
	source           MetadataSource
	defaultFirstSeen time.Time
	readTimeout      time.Duration
	concurrency      int
	atomic           bool
	recorder         metrics.Recorder
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithReader replaces the file reader.
func WithReader(r Reader) Option { return func(i *Ingestor) { i.reader = r } }

// WithLister replaces the directory lister.
func WithLister(l Lister) Option { return func(i *Ingestor) { i.lister = l } }

// WithMetadataSource selects the timestamp strategy.
func WithMetadataSource(s MetadataSource) Option { return func(i *Ingestor) { i.source = s } }

// WithDefaultFirstSeen overrides DefaultFirstSeen.
func WithDefaultFirstSeen(t time.Time) Option { return func(i *Ingestor) { i.defaultFirstSeen = t } }

// WithReadTimeout bounds a single file's read and history lookup. Zero disables the bound.
func WithReadTimeout(d time.Duration) Option { return func(i *Ingestor) { i.readTimeout = d } }

// WithConcurrency bounds concurrent file reads in a batch.
func WithConcurrency(n int) Option {
	return func(i *Ingestor) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// WithAtomic makes batch ingestion all-or-nothing.
func WithAtomic(atomic bool) Option { return func(i *Ingestor) { i.atomic = atomic } }

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(i *Ingestor) {
		if r != nil {
			i.recorder = r
		}
	}
}

// NewIngestor creates an Ingestor reading from the local file system with
// header-derived timestamps.
func NewIngestor(opts ...Option) *Ingestor {
	ing := &Ingestor{
		reader:           OSReader{},
		lister:           DirLister{},
		source:           HeaderSource{},
		defaultFirstSeen: MustParseTimestamp(DefaultFirstSeen),
		readTimeout:      defaultReadTimeout,
		concurrency:      defaultConcurrency,
		recorder:         metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Source returns the name of the configured metadata source.
func (ing *Ingestor) Source() string { return ing.source.Name() }

// ParseOne parses raw file content using header-derived timestamps.
func (ing *Ingestor) ParseOne(raw string, fileName string) (*Record, error) {
	return ing.parse([]byte(raw), fileName, nil)
}

// Ingest reads one file and resolves its timestamps. The read and the
// metadata source lookup run concurrently; either failing fails the record.
func (ing *Ingestor) Ingest(ctx context.Context, dir, fileName string) Result {
	start := time.Now()
	res := ing.ingest(ctx, dir, fileName)

	result := metrics.ResultSuccess
	if !res.OK() {
		result = metrics.ResultFailed
		if stderrors.Is(res.Err, context.DeadlineExceeded) {
			result = metrics.ResultTimeout
		}
		slog.Warn("Content file failed", logfields.File(fileName), logfields.Dir(dir), logfields.Error(res.Err))
	} else {
		slog.Debug("Content file ingested", logfields.File(fileName), logfields.MetadataSource(ing.source.Name()), logfields.Since(start))
	}
	ing.recorder.IncIngestedFile(ing.source.Name(), result)
	return res
}

type readOutcome struct {
	data []byte
	err  error
}

type timestampOutcome struct {
	ts  *Timestamps
	err error
}

func (ing *Ingestor) ingest(ctx context.Context, dir, fileName string) Result {
	if ing.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ing.readTimeout)
		defer cancel()
	}

	readCh := make(chan readOutcome, 1)
	tsCh := make(chan timestampOutcome, 1)
	go func() {
		data, err := ing.reader.ReadFile(ctx, filepath.Join(dir, fileName))
		readCh <- readOutcome{data: data, err: err}
	}()
	go func() {
		ts, err := ing.source.Timestamps(ctx, dir, fileName)
		tsCh <- timestampOutcome{ts: ts, err: err}
	}()

	var (
		read     readOutcome
		ts       timestampOutcome
		haveRead bool
		haveTS   bool
	)
	for !haveRead || !haveTS {
		select {
		case read = <-readCh:
			haveRead = true
		case ts = <-tsCh:
			haveTS = true
		case <-ctx.Done():
			return failed(fileName, ferrors.IngestError("timed out reading content file").
				WithFile(fileName).WithCause(ctx.Err()).Build())
		}
	}

	if read.err != nil {
		return failed(fileName, ferrors.IngestError("failed to read content file").
			WithFile(fileName).WithCause(read.err).Build())
	}
	if ts.err != nil {
		return failed(fileName, ferrors.IngestError("failed to resolve revision history").
			WithFile(fileName).WithContext("metadata_source", ing.source.Name()).WithCause(ts.err).Build())
	}

	record, err := ing.parse(read.data, fileName, ts.ts)
	if err != nil {
		return failed(fileName, err)
	}
	return Result{FileName: fileName, Record: record}
}

func failed(fileName string, err error) Result {
	return Result{FileName: fileName, Err: err}
}

// parse splits and decodes the header. A non-nil override replaces the
// header timestamps.
func (ing *Ingestor) parse(raw []byte, fileName string, override *Timestamps) (*Record, error) {
	base := filepath.Base(fileName)

	header, body, _, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, ferrors.IngestError("malformed metadata header").WithFile(base).WithCause(err).Build()
	}
	fields, err := frontmatter.ParseYAML(header)
	if err != nil {
		return nil, ferrors.IngestError("malformed metadata header").WithFile(base).WithCause(err).Build()
	}

	var ts Timestamps
	if override != nil {
		ts = *override
	} else {
		ts, err = resolveHeaderTimestamps(fields, ing.defaultFirstSeen)
		if err != nil {
			return nil, ferrors.IngestError("invalid metadata timestamp").WithFile(base).WithCause(err).Build()
		}
	}

	attributes := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == KeyFirstSeen || k == KeyLastUpdated {
			continue
		}
		attributes[k] = v
	}

	fp, err := fingerprint(attributes, string(body))
	if err != nil {
		return nil, ferrors.IngestError("failed to fingerprint content").WithFile(base).WithCause(err).Build()
	}

	return &Record{
		Body:        string(body),
		Attributes:  attributes,
		FirstSeen:   ts.FirstSeen,
		LastUpdated: ts.LastUpdated,
		FileName:    base,
		Fingerprint: fp,
	}, nil
}

// ParseMany ingests every named file in dir. Reads run concurrently and
// each result lands in the slot of its input index, so the output order is
// the input order whatever order reads complete in.
//
// By default failures are isolated per file and the returned error is nil.
// An atomic ingestor returns a *BatchError instead of results when any file
// failed.
func (ing *Ingestor) ParseMany(ctx context.Context, fileNames []string, dir string) ([]Result, error) {
	start := time.Now()
	results := make([]Result, len(fileNames))

	workers := min(ing.concurrency, len(fileNames))
	ing.recorder.SetIngestConcurrency(workers)

	sem := make(chan struct{}, max(workers, 1))
	var wg sync.WaitGroup
	for i, name := range fileNames {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = failed(name, ferrors.IngestError("ingestion canceled").WithFile(name).WithCause(ctx.Err()).Build())
				return
			}
			results[i] = ing.Ingest(ctx, dir, name)
		}(i, name)
	}
	wg.Wait()

	failures := Failures(results)
	slog.Info("Content batch ingested",
		logfields.Dir(dir),
		logfields.Count(len(fileNames)),
		slog.Int("failed", len(failures)),
		logfields.MetadataSource(ing.source.Name()),
		logfields.Since(start))

	if ing.atomic && len(failures) > 0 {
		return nil, &BatchError{Dir: dir, Failures: failures}
	}
	return results, nil
}

// IngestDir lists dir with the configured lister and ingests every file.
func (ing *Ingestor) IngestDir(ctx context.Context, dir string) ([]Result, error) {
	names, err := ing.lister.List(ctx, dir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, fmt.Sprintf("failed to list %s", dir)).
			WithStage("ingestion").Build()
	}
	return ing.ParseMany(ctx, names, dir)
}
