package git

import (
	"fmt"

	ferrors "git.home.luguber.info/inful/snippetbuilder/internal/foundation/errors"
)

// NotFoundError reports a directory that is not inside a git repository.
type NotFoundError struct {
	Op, Path string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no git repository at %s: %v", e.Op, e.Path, e.Err)
}
func (e *NotFoundError) Unwrap() error { return e.Err }

// classify wraps err into a git-scoped ClassifiedError for one file.
func classify(err error, op, fileName string) error {
	if err == nil {
		return nil
	}
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}
	return ferrors.GitError(op + " failed").
		WithFile(fileName).
		WithContext("op", op).
		WithCause(err).
		Build()
}
