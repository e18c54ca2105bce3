package interfaces

import (
	"context"

	"github.com/aquanet-ops/aquanet/pkg/domain/model"
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
)

// UserDirectory looks up user summaries from the external user service.
// Any failure mode (timeout, not-found, transport error, malformed payload)
// surfaces uniformly as a non-nil error; callers decide how to degrade.
type UserDirectory interface {
	GetUser(ctx context.Context, userID types.UserID, orgID types.OrgID) (*model.UserSummary, error)
}
