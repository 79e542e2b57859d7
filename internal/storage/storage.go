package storage

import (
	"context"
	"io"
)

type Uploader interface {
	// Upload stores r under objectName and returns its public URL.
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (publicURL string, err error)
}
