package user

import "time"

type Role string

const (
	RoleAdmin         Role = "admin"          // Full access, user management, audit trail
	RoleSeniorManager Role = "senior_manager" // Can approve leave and view team records
	RoleHR            Role = "hr"             // Employee records, payroll runs, leave decisions
	RoleEmployee      Role = "employee"       // Own records only
)

// ValidRoles lists every role an identity may hold.
var ValidRoles = []Role{RoleAdmin, RoleSeniorManager, RoleHR, RoleEmployee}

func IsValidRole(r string) bool {
	for _, role := range ValidRoles {
		if Role(r) == role {
			return true
		}
	}
	return false
}

// User is the authentication identity. It owns zero-or-one employee
// profile; the profile is created independently and cascades on delete.
type User struct {
	ID              string
	Email           string
	PasswordHash    *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	EmployeeID *string
}
