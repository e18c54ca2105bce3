package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/aquanet-ops/aquanet/pkg/domain/interfaces"
	"github.com/aquanet-ops/aquanet/pkg/domain/model"
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
)

type incidentRepository struct {
	mu        sync.RWMutex
	incidents map[types.IncidentID]*model.Incident
}

func newIncidentRepository() *incidentRepository {
	return &incidentRepository{
		incidents: make(map[types.IncidentID]*model.Incident),
	}
}

func (r *incidentRepository) Create(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := incident.Clone()
	if created.ID == "" {
		created.ID = types.IncidentID(uuid.NewString())
	}
	created.RecordStatus = created.RecordStatus.Normalize()
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.incidents[created.ID] = created
	return created.Clone(), nil
}

func (r *incidentRepository) Get(ctx context.Context, id types.IncidentID) (*model.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	incident, exists := r.incidents[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "incident not found", goerr.V("id", id))
	}

	return incident.Clone(), nil
}

func (r *incidentRepository) List(ctx context.Context) ([]*model.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	incidents := make([]*model.Incident, 0, len(r.incidents))
	for _, incident := range r.incidents {
		if !incident.IsActive() {
			continue
		}
		incidents = append(incidents, incident.Clone())
	}

	sortNewestFirst(incidents)
	return incidents, nil
}

func (r *incidentRepository) ListByOrg(ctx context.Context, orgID types.OrgID) ([]*model.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var incidents []*model.Incident
	for _, incident := range r.incidents {
		if !incident.IsActive() || incident.OrgID != orgID {
			continue
		}
		incidents = append(incidents, incident.Clone())
	}

	sortNewestFirst(incidents)
	return incidents, nil
}

func (r *incidentRepository) Update(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.incidents[incident.ID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "incident not found", goerr.V("id", incident.ID))
	}

	updated := incident.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.incidents[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *incidentRepository) Delete(ctx context.Context, id types.IncidentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	incident, exists := r.incidents[id]
	if !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "incident not found", goerr.V("id", id))
	}

	// Soft delete only
	incident.RecordStatus = types.RecordStatusInactive
	incident.UpdatedAt = time.Now().UTC()
	return nil
}

func sortNewestFirst(incidents []*model.Incident) {
	sort.Slice(incidents, func(i, j int) bool {
		return incidents[i].CreatedAt.After(incidents[j].CreatedAt)
	})
}
