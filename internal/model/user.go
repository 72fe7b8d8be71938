package model

// Role identifies which side of the marketplace an account is on.  Every
// account has exactly one role and it never changes at runtime.
type Role string

const (
	RoleSeeker Role = "SEEKER" // looks for rooms and requests bookings
	RoleOwner  Role = "OWNER"  // lists properties and decides on bookings
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSeeker, RoleOwner:
		return true
	}
	return false
}

// User is the authenticated identity attached to a request.  Accounts live
// in the identity service; this service only ever sees the (id, role) pair
// carried by the bearer token and trusts it as is.
//
// Fields:
//  ID   – account identifier (token subject).
//  Role – SEEKER or OWNER.
type User struct {
	ID   uint64 `json:"id"`
	Role Role   `json:"role"`
}
