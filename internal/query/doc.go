// Package query resolves the content graph a build is planned from.
//
// An Executor answers a named Query with a Result: either a non-empty list
// of error messages or the resolved Data. LocalExecutor resolves the site
// query straight from the configured content directories.
package query
