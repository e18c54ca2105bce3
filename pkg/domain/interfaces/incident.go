package interfaces

import (
	"context"

	"github.com/aquanet-ops/aquanet/pkg/domain/model"
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
)

// IncidentRepository defines the interface for Incident data access.
// Records are soft-deleted only: Delete flips RecordStatus, List filters
// inactive records out, Get still returns them so callers can inspect.
type IncidentRepository interface {
	// Create creates a new incident with a generated ID
	Create(ctx context.Context, incident *model.Incident) (*model.Incident, error)

	// Get retrieves an incident by ID
	Get(ctx context.Context, id types.IncidentID) (*model.Incident, error)

	// List retrieves all active incidents, newest first
	List(ctx context.Context) ([]*model.Incident, error)

	// ListByOrg retrieves all active incidents for one organization, newest first
	ListByOrg(ctx context.Context, orgID types.OrgID) ([]*model.Incident, error)

	// Update updates an existing incident
	Update(ctx context.Context, incident *model.Incident) (*model.Incident, error)

	// Delete soft-deletes an incident by flipping its record status
	Delete(ctx context.Context, id types.IncidentID) error
}
