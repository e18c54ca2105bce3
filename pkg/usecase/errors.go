package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrIncidentNotFound = errors.New("incident not found")

	// Status errors
	ErrIncidentResolved = errors.New("incident is already resolved")
	ErrIncidentInactive = errors.New("incident has been deleted")

	// Dependency errors
	ErrStorageUnavailable = errors.New("attachment storage is not configured")
)

// Context keys for error values
const (
	IncidentIDKey = "incident_id"
	UserIDKey     = "user_id"
)
