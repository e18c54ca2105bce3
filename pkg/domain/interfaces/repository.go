package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Incident() IncidentRepository

	// Close releases any resources held by the backend
	Close() error
}
