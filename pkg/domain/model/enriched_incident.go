package model

import (
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
)

// EnrichedIncident is an incident plus resolved user slots for the three
// roles. It is a transient, response-only projection and is never persisted.
// The three slots are independently degradable; none is ever nil.
type EnrichedIncident struct {
	Incident
	Reporter *UserSummary
	Assignee *UserSummary
	Resolver *UserSummary
}

// NewEnrichedIncident copies every incident field into a fresh shell.
// The user slots are left for the caller to assign. A nil incident yields
// an empty shell rather than a panic.
func NewEnrichedIncident(incident *Incident) *EnrichedIncident {
	if incident == nil {
		return &EnrichedIncident{}
	}
	return &EnrichedIncident{Incident: *incident.Clone()}
}

// NewBasicEnrichedIncident builds the degraded projection: all incident
// fields copied, all three user slots set to role-appropriate fallbacks.
// Total for any input, including nil; it is the last line of defense when
// enrichment itself blew up.
func NewBasicEnrichedIncident(incident *Incident) *EnrichedIncident {
	e := NewEnrichedIncident(incident)
	e.Reporter = NewFallbackUser(e.ReportedByID, types.RoleReporter)
	e.Assignee = NewFallbackUser(e.AssignedToID, types.RoleAssignee)
	e.Resolver = NewFallbackUser(e.ResolvedByID, types.RoleResolver)
	return e
}
