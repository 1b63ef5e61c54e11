package model

import "time"

// Roles carried by college staff accounts.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleGuard      = "guard"
)

// User is a staff account scoped to one college. Guards scan tickets at
// the door; admins manage halls, seminars and attendance; the superadmin
// is created together with the college and may add other users.
//
// Fields:
//  ID           – document key.
//  CollegeID    – owning college.
//  Username     – login name, unique within the college.
//  Role         – one of the Role* constants.
//  PasswordHash – bcrypt hash.
//  CreatedAt    – creation timestamp.
type User struct {
	ID           string    `json:"id"`        // colleges/{cid}/users/{id}
	CollegeID    string    `json:"collegeId"` // collegeId
	Username     string    `json:"username"`  // username
	Role         string    `json:"role"`      // role
	PasswordHash string    `json:"-"`         // passwordHash
	CreatedAt    time.Time `json:"createdAt"` // createdAt
}

// ValidRole reports whether role is one of the staff roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleGuard:
		return true
	}
	return false
}
