package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/snippetbuilder/internal/config"
)

// BuildService executes snippet site builds.
type BuildService interface {
	// Run executes query → plan → register and reports the outcome.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// Config is the loaded configuration for this build.
	Config *config.Config

	// ConfigHash identifies the configuration in the manifest.
	ConfigHash string

	Options BuildOptions
}

// BuildOptions modify build behavior.
type BuildOptions struct {
	// DryRun plans and registers into memory without writing the manifest.
	DryRun bool

	// RunID overrides the generated run id.
	RunID string
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	Status BuildStatus
	RunID  string

	// FailedStage names the stage of a failed build.
	FailedStage string

	// Items is the number of content items in the search index.
	Items int

	// Pages is the number of registered page requests.
	Pages int

	ManifestPath string
	ManifestHash string

	Duration  time.Duration
	StartTime time.Time
	EndTime   time.Time
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsTerminal returns true if the status represents a final state.
func (s BuildStatus) IsTerminal() bool {
	return s == BuildStatusSuccess || s == BuildStatusFailed || s == BuildStatusCancelled
}

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess
}
