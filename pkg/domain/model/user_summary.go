package model

import (
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
)

// UserSummary is a minimal projection of a user from the external user
// service. It is either genuine (fetched) or a local fallback synthesized
// when the lookup failed or the incident carried no identifier.
type UserSummary struct {
	ID       types.UserID
	Code     string
	Username string
	FullName string
	Role     types.UserRole
	Fallback bool
}

// fallback display defaults per role. The UI never branches on a missing
// user, so every role has a complete code/username/name triple.
var fallbackDefaults = map[types.UserRole]UserSummary{
	types.RoleReporter: {Code: "N/A", Username: "desconocido", FullName: "Usuario desconocido"},
	types.RoleAssignee: {Code: "N/A", Username: "no-asignado", FullName: "No asignado"},
	types.RoleResolver: {Code: "N/A", Username: "no-resuelto", FullName: "No resuelto"},
}

// NewFallbackUser builds a placeholder user summary for a role slot. It is
// total: any userID (including empty) and any role yield a complete summary.
func NewFallbackUser(userID types.UserID, role types.UserRole) *UserSummary {
	def, ok := fallbackDefaults[role]
	if !ok {
		def = fallbackDefaults[types.RoleReporter]
	}
	if userID == "" {
		userID = types.UnknownUserID
	}
	return &UserSummary{
		ID:       userID,
		Code:     def.Code,
		Username: def.Username,
		FullName: def.FullName,
		Role:     role,
		Fallback: true,
	}
}
