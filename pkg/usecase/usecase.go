package usecase

import (
	"github.com/aquanet-ops/aquanet/pkg/domain/interfaces"
	"github.com/aquanet-ops/aquanet/pkg/domain/model/config"
	"github.com/aquanet-ops/aquanet/pkg/service/notify"
	"github.com/aquanet-ops/aquanet/pkg/service/storage"
)

type UseCases struct {
	repo     interfaces.Repository
	users    interfaces.UserDirectory
	notifier notify.Service
	storage  storage.Service
	catalog  *config.Catalog

	Incident *IncidentUseCase
	Enrich   *EnrichmentUseCase
}

type Option func(*UseCases)

// WithUserDirectory wires the external user service client
func WithUserDirectory(users interfaces.UserDirectory) Option {
	return func(uc *UseCases) {
		uc.users = users
	}
}

// WithNotifier wires the Slack notification service
func WithNotifier(n notify.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithStorage wires the attachment storage service
func WithStorage(s storage.Service) Option {
	return func(uc *UseCases) {
		uc.storage = s
	}
}

// WithCatalog wires the category/type/zone reference data
func WithCatalog(c *config.Catalog) Option {
	return func(uc *UseCases) {
		uc.catalog = c
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Incident = NewIncidentUseCase(repo, uc.catalog, uc.notifier, uc.storage)
	uc.Enrich = NewEnrichmentUseCase(repo, uc.users)

	return uc
}
