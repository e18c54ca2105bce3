package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// client implements Service backed by Google Cloud Storage
type client struct {
	gcs    *storage.Client
	bucket string
}

// New creates an attachment storage service writing to the given bucket
func New(ctx context.Context, bucket string) (Service, error) {
	if bucket == "" {
		return nil, goerr.New("storage bucket is required")
	}

	gcs, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &client{
		gcs:    gcs,
		bucket: bucket,
	}, nil
}

func (c *client) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	obj := c.gcs.Bucket(c.bucket).Object(key)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write attachment",
			goerr.V("bucket", c.bucket),
			goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize attachment",
			goerr.V("bucket", c.bucket),
			goerr.V("key", key))
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucket, key), nil
}

func (c *client) Close() error {
	return c.gcs.Close()
}
