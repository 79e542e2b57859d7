package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
)

// GCSUploader writes publicly readable objects to one bucket.
type GCSUploader struct {
	client *gcs.Client
	bucket string
	// PublicBase overrides https://storage.googleapis.com/<bucket> (ex: a CDN host).
	PublicBase   string
	CacheControl string
}

func NewGCSUploader(ctx context.Context, bucket string) (*GCSUploader, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSUploader{
		client:       c,
		bucket:       bucket,
		CacheControl: "public, max-age=86400",
	}, nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

func (u *GCSUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	obj := u.client.Bucket(u.bucket).Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = u.CacheControl

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", objectName, err)
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", fmt.Errorf("make %s public: %w", objectName, err)
	}

	base := u.PublicBase
	if base == "" {
		base = "https://storage.googleapis.com/" + u.bucket
	}
	return strings.TrimRight(base, "/") + "/" + objectName, nil
}
