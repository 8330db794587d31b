package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/snippetbuilder/internal/logfields"
)

// HistoryReader lists commit times for files in a git working tree.
type HistoryReader struct{}

// NewHistoryReader creates a HistoryReader.
func NewHistoryReader() *HistoryReader { return &HistoryReader{} }

// History returns the author times (epoch seconds) of the commits touching
// dir/fileName, newest first. A file with no commits, or a repository
// without any commit yet, yields an empty slice.
func (h *HistoryReader) History(ctx context.Context, dir, fileName string) ([]int64, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, classify(err, "history", fileName)
	}

	repo, err := git.PlainOpenWithOptions(absDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, classify(&NotFoundError{Op: "history", Path: absDir, Err: err}, "history", fileName)
		}
		return nil, classify(err, "open repository", fileName)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, classify(err, "open worktree", fileName)
	}
	rel, err := filepath.Rel(wt.Filesystem.Root(), filepath.Join(absDir, fileName))
	if err != nil {
		return nil, classify(err, "history", fileName)
	}
	rel = filepath.ToSlash(rel)

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []int64{}, nil
		}
		return nil, classify(err, "resolve HEAD", fileName)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), FileName: &rel, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, classify(err, "log", fileName)
	}
	defer iter.Close()

	times := make([]int64, 0)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		times = append(times, c.Author.When.Unix())
		return nil
	})
	if err != nil {
		return nil, classify(fmt.Errorf("walk log for %s: %w", rel, err), "log", fileName)
	}

	sort.SliceStable(times, func(i, j int) bool { return times[i] > times[j] })
	slog.Debug("Resolved revision history", logfields.File(fileName), logfields.Path(rel), logfields.Count(len(times)))
	return times, nil
}
