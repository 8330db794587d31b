package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/snippetbuilder/internal/build"
	"git.home.luguber.info/inful/snippetbuilder/internal/config"
	"git.home.luguber.info/inful/snippetbuilder/internal/logfields"
	"git.home.luguber.info/inful/snippetbuilder/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	DryRun   bool   `name:"dry-run" help:"Plan and register pages in memory without writing the manifest"`
	Manifest string `short:"o" help:"Override output.manifest"`
	Metrics  string `help:"Override output.metrics (Prometheus textfile)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, hash, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	if b.Manifest != "" {
		cfg.Output.Manifest = b.Manifest
	}
	if b.Metrics != "" {
		cfg.Output.Metrics = b.Metrics
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := RunBuild(ctx, cfg, hash, b.DryRun)
	if err != nil {
		return err
	}
	fmt.Printf("Registered %d pages for %d snippets", result.Pages, result.Items)
	if result.ManifestPath != "" {
		fmt.Printf(" (manifest %s)", result.ManifestPath)
	}
	fmt.Println()
	return nil
}

// RunBuild runs one build and exports metrics when a textfile is configured.
func RunBuild(ctx context.Context, cfg *config.Config, configHash string, dryRun bool) (*build.BuildResult, error) {
	var recorder *metrics.PrometheusRecorder
	svc := build.NewBuildService()
	if cfg.Output.Metrics != "" {
		recorder = metrics.NewPrometheusRecorder(nil)
		svc.WithRecorder(recorder)
	}

	result, err := svc.Run(ctx, build.BuildRequest{
		Config:     cfg,
		ConfigHash: configHash,
		Options:    build.BuildOptions{DryRun: dryRun},
	})

	if recorder != nil {
		if werr := recorder.WriteTextfile(cfg.Output.Metrics); werr != nil {
			slog.Warn("Failed to write metrics", logfields.Path(cfg.Output.Metrics), logfields.Error(werr))
		}
	}
	return result, err
}
