// Package git reads revision history for content files with go-git.
//
// HistoryReader implements content.RevisionHistory: for one file it walks
// the commit log of the enclosing repository and returns the author
// timestamps of the commits that touched the file, newest first.
package git
