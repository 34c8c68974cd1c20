package models

import "fmt"

// Role is the closed set of account roles. Values are compared exactly.
type Role string

const (
	RolePatient Role = "Patient"
	RoleDoctor  Role = "Doctor"
	RoleAdmin   Role = "Admin"
)

// Roles lists every known role.
var Roles = []Role{RolePatient, RoleDoctor, RoleAdmin}

// ParseRole maps a wire value onto a Role. Matching is case-sensitive.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// SignupAllowed reports whether an account with this role may be self-registered.
func (r Role) SignupAllowed() bool {
	switch r {
	case RolePatient, RoleDoctor:
		return true
	default:
		return false
	}
}
