package domain

import "time"

// Role enumerates the closed set of portal roles.
type Role string

const (
	RoleStudent  Role = "student"
	RoleStaff    Role = "staff"
	RoleResolver Role = "resolver"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleResolver, RoleAdmin:
		return true
	}
	return false
}

// IsPrivileged reports whether the role may see internal ticket material.
func (r Role) IsPrivileged() bool {
	return r == RoleResolver || r == RoleAdmin
}

// Profile is the stored identity for any portal user.
type Profile struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Department   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the capability handed into every core operation: who is acting,
// with which role, scoped to which department. Operations take it as an
// explicit parameter; there is no ambient session state.
type Actor struct {
	ID         string
	Role       Role
	Department *string
}

// Actor derives the acting capability from a stored profile.
func (p *Profile) Actor() Actor {
	return Actor{ID: p.ID, Role: p.Role, Department: p.Department}
}
