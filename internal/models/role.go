package models

// Role is the organization-level role of a user. The numeric values are the
// user_type codes exposed on the wire.
type Role uint8

const (
	RoleAdmin  Role = 1
	RoleMember Role = 2
	RoleTester Role = 3
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleTester:
		return true
	}
	return false
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	case RoleTester:
		return "tester"
	}
	return "unknown"
}

// Lifecycle is the account state derived from the is_active/is_deleted flags.
type Lifecycle string

const (
	LifecycleActive    Lifecycle = "active"
	LifecycleSuspended Lifecycle = "suspended"
	LifecycleDeleted   Lifecycle = "deleted"
)
