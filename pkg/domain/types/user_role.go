package types

// UserRole labels which slot a user occupies on an incident.
// It is used only for human-readable defaults when a lookup degrades.
type UserRole string

const (
	RoleReporter UserRole = "Reporter"
	RoleAssignee UserRole = "Assignee"
	RoleResolver UserRole = "Resolver"
)

// String returns the string representation of the role
func (r UserRole) String() string {
	return string(r)
}
