package service

import "gymtracker/gym-api/internal/domain"

// Caller is the authenticated identity on whose behalf a service method runs.
type Caller struct {
	UserID int64
	Role   domain.Role
}

func (c Caller) IsAdmin() bool   { return c.Role == domain.RoleAdmin }
func (c Caller) IsTrainer() bool { return c.Role == domain.RoleTrainer }
func (c Caller) IsMember() bool  { return c.Role == domain.RoleMember }
