package content

import (
	"context"
	"os"
)

// Reader reads a content file.
type Reader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// OSReader reads files from the local file system.
type OSReader struct{}

func (OSReader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}
