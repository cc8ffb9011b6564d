package domain

// Role enumerates the authorization roles the backend issues. Role is the
// sole authorization axis; comparisons must go through Normalize because
// the backend mixes a legacy scheme with a localized one.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
	RoleUser       Role = "user"
)

// Team is a sub-group technicians may belong to.
type Team struct {
	ID   int64
	Name string
}

// User models an account as the backend reports it: requesters,
// technicians and the analyst listing all share this shape.
type User struct {
	ID    int64
	Login string
	Name  string
	Email string
	Role  Role
	Team  *Team
}

// Identity is the caller decoded from the session credential. A zero
// Identity means "not logged in".
type Identity struct {
	Login string
	Name  string
	Email string
	Role  Role
}

// IsZero reports whether no identity is present.
func (i Identity) IsZero() bool {
	return i == Identity{}
}

// IsTechnician reports whether the role matches the technician role under
// normalized comparison. Both the legacy "technician" literal and the
// localized "tecnico" variant qualify.
func (i Identity) IsTechnician() bool {
	return IsTechnicianRole(i.Role)
}

// IsEndUser reports whether the identity carries the plain user role.
func (i Identity) IsEndUser() bool {
	return Normalize(string(i.Role)) == string(RoleUser)
}
