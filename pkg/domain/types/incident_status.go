package types

import "fmt"

// IncidentStatus represents the lifecycle status of an incident
type IncidentStatus string

const (
	IncidentStatusReported   IncidentStatus = "REPORTED"
	IncidentStatusAssigned   IncidentStatus = "ASSIGNED"
	IncidentStatusInProgress IncidentStatus = "IN_PROGRESS"
	IncidentStatusResolved   IncidentStatus = "RESOLVED"
	IncidentStatusClosed     IncidentStatus = "CLOSED"
)

// AllIncidentStatuses returns all valid incident statuses
func AllIncidentStatuses() []IncidentStatus {
	return []IncidentStatus{
		IncidentStatusReported,
		IncidentStatusAssigned,
		IncidentStatusInProgress,
		IncidentStatusResolved,
		IncidentStatusClosed,
	}
}

// IsValid checks if the incident status is valid
func (s IncidentStatus) IsValid() bool {
	switch s {
	case IncidentStatusReported,
		IncidentStatusAssigned,
		IncidentStatusInProgress,
		IncidentStatusResolved,
		IncidentStatusClosed:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as IncidentStatusReported.
func (s IncidentStatus) Normalize() IncidentStatus {
	if s == "" {
		return IncidentStatusReported
	}
	return s
}

// String returns the string representation of the incident status
func (s IncidentStatus) String() string {
	return string(s)
}

// ParseIncidentStatus parses a string into an IncidentStatus
func ParseIncidentStatus(s string) (IncidentStatus, error) {
	status := IncidentStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid incident status: %s", s)
	}
	return status, nil
}
