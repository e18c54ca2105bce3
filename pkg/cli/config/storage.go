package config

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/aquanet-ops/aquanet/pkg/service/storage"
)

// Storage holds CLI flags for attachment storage
type Storage struct {
	bucket string
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "attachment-bucket",
			Usage:       "GCS bucket for incident attachments (attachments disabled when empty)",
			Sources:     cli.EnvVars("AQUANET_ATTACHMENT_BUCKET"),
			Destination: &s.bucket,
		},
	}
}

// IsConfigured reports whether attachment storage is enabled
func (s *Storage) IsConfigured() bool {
	return s.bucket != ""
}

// Configure builds the storage service, or nil when not configured.
// The caller is responsible for calling Close() on the returned service.
func (s *Storage) Configure(ctx context.Context) (storage.Service, error) {
	if s.bucket == "" {
		return nil, nil
	}

	return storage.New(ctx, s.bucket)
}
