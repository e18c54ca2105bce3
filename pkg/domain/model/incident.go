package model

import (
	"time"

	"github.com/aquanet-ops/aquanet/pkg/domain/types"
)

// Incident represents one reported water-supply issue
type Incident struct {
	ID              types.IncidentID
	OrgID           types.OrgID
	Code            string // human-readable code, e.g. "INC-3f2a1b"
	TypeID          string
	Category        string
	ZoneID          types.ZoneID
	Title           string
	Description     string
	Severity        types.Severity
	Status          types.IncidentStatus
	Resolved        bool
	ReportedByID    types.UserID // empty = no reporter recorded
	AssignedToID    types.UserID // empty = not assigned yet
	ResolvedByID    types.UserID // empty = not resolved yet
	ResolutionNotes string
	AttachmentURLs  []string
	RecordStatus    types.RecordStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Clone returns a deep copy of the incident
func (i *Incident) Clone() *Incident {
	copied := *i
	if i.AttachmentURLs != nil {
		copied.AttachmentURLs = make([]string, len(i.AttachmentURLs))
		copy(copied.AttachmentURLs, i.AttachmentURLs)
	}
	return &copied
}

// IsActive reports whether the record has not been soft-deleted
func (i *Incident) IsActive() bool {
	return i.RecordStatus.Normalize() == types.RecordStatusActive
}
