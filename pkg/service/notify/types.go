package notify

import (
	"context"

	"github.com/aquanet-ops/aquanet/pkg/domain/model"
)

// Service posts incident lifecycle notifications to the operations channel.
// All methods are best-effort; callers log failures and move on.
type Service interface {
	// IncidentAssigned notifies that an incident was assigned to a user
	IncidentAssigned(ctx context.Context, incident *model.Incident) error

	// IncidentResolved notifies that an incident was resolved
	IncidentResolved(ctx context.Context, incident *model.Incident) error
}
