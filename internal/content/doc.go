// Package content ingests content files into records.
//
// A content file is a `---` fenced YAML metadata header followed by a body.
// Two header keys are reserved: firstSeen and lastUpdated. When firstSeen
// is absent it defaults to the ingestor's configured default timestamp; when
// lastUpdated is absent it defaults to whatever firstSeen resolved to.
//
// Timestamps can alternatively come from revision history (see
// HistorySource). Both modes go through the same Ingestor entry points and
// differ only in the MetadataSource strategy injected at construction.
//
// Batch ingestion reads files concurrently and returns one Result per input
// file, in input order. A Result is either a Record or a classified
// ingestion error naming the file, never both.
package content
