package domain

import (
	"time"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles. The numeric ids match the seeded roles table.
const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleMember  Role = "member"
)

var roleIDs = map[Role]int64{
	RoleAdmin:   1,
	RoleTrainer: 2,
	RoleMember:  3,
}

// Valid reports whether r is one of the fixed roles.
func (r Role) Valid() bool {
	_, ok := roleIDs[r]
	return ok
}

// ID returns the roles table key for r, or 0 for an unknown role.
func (r Role) ID() int64 {
	return roleIDs[r]
}

// User represents any account in the gym: member, trainer or admin.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this via JSON
	Role         Role      `json:"role"`
	DateOfBirth  *Date     `json:"dateOfBirth,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	ProfilePic   string    `json:"profilePic,omitempty"` // object key in file storage
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Populated by listings only.
	ActiveSessions int64 `json:"activeSessions"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsMember() bool {
	return u.Role == RoleMember
}

// UserPatch carries the fields of a partial user update. Nil means "leave unchanged".
type UserPatch struct {
	Name        *string
	Email       *string
	Role        *Role
	DateOfBirth *Date
	Phone       *string
	ProfilePic  *string
	IsActive    *bool
}

// IsEmpty reports whether the patch would change nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Role == nil && p.DateOfBirth == nil &&
		p.Phone == nil && p.ProfilePic == nil && p.IsActive == nil
}

// UserStats is the head count shown on the admin dashboard.
type UserStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalMembers  int64 `json:"totalMembers"`
	TotalTrainers int64 `json:"totalTrainers"`
	TotalAdmins   int64 `json:"totalAdmins"`
	ActiveUsers   int64 `json:"activeUsers"`
}
