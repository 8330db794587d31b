// Package build runs the snippet site pipeline.
//
// BuildService wires configuration into a content ingestor, a local query
// executor and the page orchestrator, and registers the planned pages with a
// manifest writer. Every failure it returns is a classified error naming the
// stage that failed.
package build
