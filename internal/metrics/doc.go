// Package metrics provides build metrics for the snippetbuilder pipeline.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics never require nil checks:
//
//	ing := content.NewIngestor(content.WithRecorder(recorder))
//
// PrometheusRecorder registers its collectors on a caller supplied registry.
// A one-shot CLI build has no scrape endpoint, so WriteTextfile dumps the
// registry in the node_exporter textfile format after the build.
package metrics
