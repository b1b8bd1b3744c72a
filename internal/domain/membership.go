package domain

import (
	"time"
)

type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipExpired   MembershipStatus = "expired"
	MembershipCancelled MembershipStatus = "cancelled"
)

func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipActive, MembershipExpired, MembershipCancelled:
		return true
	}
	return false
}

// Membership is a paid, dated subscription of a user to the gym.
type Membership struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"userId"`
	Name      string           `json:"name"`
	StartDate Date             `json:"startDate"`
	EndDate   Date             `json:"endDate"`
	Price     float64          `json:"price"`
	Status    MembershipStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`

	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}

type MembershipPatch struct {
	Name      *string
	StartDate *Date
	EndDate   *Date
	Price     *float64
	Status    *MembershipStatus
}

func (p MembershipPatch) IsEmpty() bool {
	return p.Name == nil && p.StartDate == nil && p.EndDate == nil && p.Price == nil && p.Status == nil
}

// MembershipStats summarizes memberships and the revenue of the active ones.
type MembershipStats struct {
	TotalMemberships   int64   `json:"totalMemberships"`
	ActiveMemberships  int64   `json:"activeMemberships"`
	ExpiredMemberships int64   `json:"expiredMemberships"`
	TotalRevenue       float64 `json:"totalRevenue"`
}
