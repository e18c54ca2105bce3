package config

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/aquanet-ops/aquanet/pkg/domain/interfaces"
	"github.com/aquanet-ops/aquanet/pkg/service/users"
)

// Users holds CLI flags for the external user service client
type Users struct {
	baseURL  string
	timeout  time.Duration
	cacheTTL time.Duration
}

// Flags returns CLI flags for user service configuration
func (u *Users) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "user-service-url",
			Usage:       "Base URL of the user service (enrichment degrades to fallbacks when empty)",
			Sources:     cli.EnvVars("AQUANET_USER_SERVICE_URL"),
			Destination: &u.baseURL,
		},
		&cli.DurationFlag{
			Name:        "user-service-timeout",
			Usage:       "Per-lookup timeout against the user service",
			Value:       users.DefaultTimeout,
			Sources:     cli.EnvVars("AQUANET_USER_SERVICE_TIMEOUT"),
			Destination: &u.timeout,
		},
		&cli.DurationFlag{
			Name:        "user-cache-ttl",
			Usage:       "TTL for cached user summaries",
			Value:       users.DefaultCacheTTL,
			Sources:     cli.EnvVars("AQUANET_USER_CACHE_TTL"),
			Destination: &u.cacheTTL,
		},
	}
}

// IsConfigured reports whether a user service URL was provided
func (u *Users) IsConfigured() bool {
	return u.baseURL != ""
}

// Configure builds the user directory client. Returns nil when no base URL
// is configured; the enrichment layer then serves fallbacks only.
func (u *Users) Configure() (interfaces.UserDirectory, error) {
	if u.baseURL == "" {
		return nil, nil
	}

	return users.New(u.baseURL,
		users.WithTimeout(u.timeout),
		users.WithCacheTTL(u.cacheTTL),
	)
}
