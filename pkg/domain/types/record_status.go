package types

// RecordStatus is the soft-delete flag on persisted records.
// Records are never physically deleted, only flagged INACTIVE.
type RecordStatus string

const (
	RecordStatusActive   RecordStatus = "ACTIVE"
	RecordStatusInactive RecordStatus = "INACTIVE"
)

// IsValid checks if the record status is valid
func (s RecordStatus) IsValid() bool {
	switch s {
	case RecordStatusActive, RecordStatusInactive:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as RecordStatusActive.
func (s RecordStatus) Normalize() RecordStatus {
	if s == "" {
		return RecordStatusActive
	}
	return s
}

// String returns the string representation of the record status
func (s RecordStatus) String() string {
	return string(s)
}
