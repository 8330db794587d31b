// Package errors provides the classified error primitives used across the
// snippetbuilder pipeline.
//
// Every failure that crosses a stage boundary (ingestion, query, page
// registration) is a ClassifiedError so that callers can tell which stage
// failed and, for ingestion, which file, without parsing strings.
//
// Key features:
//   - ErrorCategory: broad classification (config, ingest, query, registration, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing messages for the CLI
//
// Example usage:
//
//	err := errors.IngestError("malformed metadata header").
//		WithFile("posts/a.md").
//		WithCause(yamlErr).
//		Build()
package errors
