package types

// IncidentID identifies one incident record
type IncidentID string

// UserID identifies a user in the external user service
type UserID string

// OrgID identifies an organization
type OrgID string

// ZoneID identifies a supply zone within an organization
type ZoneID string

// UnknownUserID is the sentinel identifier used when a user slot has no
// source identifier at all.
const UnknownUserID UserID = "unknown"

func (id IncidentID) String() string { return string(id) }
func (id UserID) String() string     { return string(id) }
func (id OrgID) String() string      { return string(id) }
func (id ZoneID) String() string     { return string(id) }
