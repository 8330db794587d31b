package build

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/snippetbuilder/internal/content"
	ferrors "git.home.luguber.info/inful/snippetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/snippetbuilder/internal/lang"
	"git.home.luguber.info/inful/snippetbuilder/internal/listing"
	"git.home.luguber.info/inful/snippetbuilder/internal/logfields"
	"git.home.luguber.info/inful/snippetbuilder/internal/manifest"
	"git.home.luguber.info/inful/snippetbuilder/internal/metrics"
	"git.home.luguber.info/inful/snippetbuilder/internal/observability"
	"git.home.luguber.info/inful/snippetbuilder/internal/pages"
	"git.home.luguber.info/inful/snippetbuilder/internal/query"
)

const (
	stageConfiguration = "configuration"
	stageBuild         = "build"
)

// DefaultBuildService is the standard implementation of BuildService.
type DefaultBuildService struct {
	recorder metrics.Recorder
	history  content.RevisionHistory
	literals *lang.Table
	// executorFactory replaces the local executor, mainly for tests.
	executorFactory func(ing *content.Ingestor, src query.Sources) query.Executor
}

// NewBuildService creates a DefaultBuildService with the local executor and
// the built-in English literals.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{
		recorder: metrics.NoopRecorder{},
		literals: lang.English(),
		executorFactory: func(ing *content.Ingestor, src query.Sources) query.Executor {
			return query.NewLocalExecutor(ing, src)
		},
	}
}

// WithRecorder attaches a metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithHistory replaces the revision history used by the history metadata source.
func (s *DefaultBuildService) WithHistory(h content.RevisionHistory) *DefaultBuildService {
	s.history = h
	return s
}

// WithLiterals replaces the localization table.
func (s *DefaultBuildService) WithLiterals(t *lang.Table) *DefaultBuildService {
	s.literals = t
	return s
}

// WithExecutorFactory replaces how the query executor is created.
func (s *DefaultBuildService) WithExecutorFactory(f func(*content.Ingestor, query.Sources) query.Executor) *DefaultBuildService {
	s.executorFactory = f
	return s
}

// Run executes the complete build pipeline.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	startTime := time.Now()
	result := &BuildResult{StartTime: startTime, RunID: req.Options.RunID}
	if result.RunID == "" {
		result.RunID = uuid.NewString()
	}
	ctx = observability.WithRunID(ctx, result.RunID)

	if req.Config == nil {
		return s.fail(ctx, result, ferrors.ConfigError("config required").Build())
	}
	cfg := req.Config

	// Stage 1: configuration
	stageStart := time.Now()
	ctx = observability.WithStage(ctx, stageConfiguration)
	ing, err := NewIngestor(cfg, s.history, s.recorder)
	if err != nil {
		return s.fail(ctx, result, err)
	}
	var metas []listing.Meta
	if cfg.Pages.ListingMeta != "" {
		metas, err = listing.Load(cfg.Pages.ListingMeta)
		if err != nil {
			return s.fail(ctx, result, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load listing meta").
				Fatal().
				WithFile(cfg.Pages.ListingMeta).
				Build())
		}
	}
	orchestrator := NewOrchestrator(cfg, s.literals, s.recorder)
	if err := orchestrator.Registry().Require(pages.RequiredTemplates...); err != nil {
		return s.fail(ctx, result, err)
	}
	s.recorder.ObserveStageDuration(stageConfiguration, time.Since(stageStart))
	s.recorder.IncStageResult(stageConfiguration, metrics.ResultSuccess)
	observability.InfoContext(ctx, "Configuration resolved",
		logfields.MetadataSource(ing.Source()),
		slog.Int("listings", len(metas)))

	// Stage 2: query, plan and register
	var (
		sink   pages.Sink
		writer *manifest.Writer
	)
	if req.Options.DryRun {
		sink = &pages.CollectingSink{}
	} else {
		writer = manifest.NewWriter(cfg.Output.Manifest, result.RunID, orchestrator.Registry().Templates(), manifest.Inputs{
			ConfigHash:     req.ConfigHash,
			MetadataSource: ing.Source(),
		})
		sink = writer
	}

	counter := &itemCounter{}
	exec := counter.wrap(s.executorFactory(ing, Sources(cfg)))

	ctx = observability.WithStage(ctx, ferrors.CategoryQuery.Stage())
	n, err := orchestrator.Run(ctx, exec, query.SiteQuery, metas, sink)
	result.Items = counter.items
	result.Pages = n
	if err != nil {
		return s.fail(ctx, result, err)
	}

	if writer != nil {
		m, err := writer.Close(string(BuildStatusSuccess))
		if err != nil {
			return s.fail(ctx, result, ferrors.WrapError(err, ferrors.CategoryRegistration, "failed to write page manifest").
				Fatal().
				WithFile(cfg.Output.Manifest).
				Build())
		}
		hash, err := m.Hash()
		if err != nil {
			return s.fail(ctx, result, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to hash page manifest").Fatal().Build())
		}
		result.ManifestPath = cfg.Output.Manifest
		result.ManifestHash = hash
	}

	result.Status = BuildStatusSuccess
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)
	s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	s.recorder.ObserveStageDuration(stageBuild, result.Duration)
	observability.InfoContext(ctx, "Build completed",
		slog.Int("items", result.Items),
		slog.Int("pages", result.Pages),
		logfields.Path(result.ManifestPath),
		logfields.Since(startTime))
	return result, nil
}

func (s *DefaultBuildService) fail(ctx context.Context, result *BuildResult, err error) (*BuildResult, error) {
	result.Status = BuildStatusFailed
	if stderrors.Is(err, context.Canceled) {
		result.Status = BuildStatusCancelled
	}
	if ce, ok := ferrors.AsClassified(err); ok {
		result.FailedStage = ce.Stage()
	} else {
		result.FailedStage = observability.FromContext(ctx).Stage
	}
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	s.recorder.IncStageResult(result.FailedStage, metrics.ResultFailed)
	s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	observability.ErrorContext(ctx, "Build failed",
		slog.String("failed_stage", result.FailedStage),
		logfields.Error(err))
	return result, err
}

// itemCounter records the search index size of the query the orchestrator runs.
type itemCounter struct {
	items int
}

func (c *itemCounter) wrap(exec query.Executor) query.Executor {
	return executorFunc(func(ctx context.Context, q query.Query) (*query.Result, error) {
		res, err := exec.Execute(ctx, q)
		if err == nil && res != nil && res.Data != nil {
			c.items = len(res.Data.SearchIndex)
		}
		return res, err
	})
}

type executorFunc func(ctx context.Context, q query.Query) (*query.Result, error)

func (f executorFunc) Execute(ctx context.Context, q query.Query) (*query.Result, error) { return f(ctx, q) }
