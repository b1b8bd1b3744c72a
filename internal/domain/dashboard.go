package domain

// MemberDashboard is the member's own overview. Membership is nil when none is active.
type MemberDashboard struct {
	Member     *User        `json:"member"`
	Membership *Membership  `json:"membership"`
	Sessions   SessionStats `json:"sessions"`
}

type TrainerDashboard struct {
	TotalSessions     int64   `json:"totalSessions"`
	CompletedSessions int64   `json:"completedSessions"`
	MissedSessions    int64   `json:"missedSessions"`
	ScheduledSessions int64   `json:"scheduledSessions"`
	ActiveMembers     int64   `json:"activeMembers"`
	Reviews           int64   `json:"reviews"`
	Rating            float64 `json:"rating"`
}

type AdminSessionStats struct {
	SessionStats
	CompletionRate float64 `json:"completionRate"` // percent, two decimals
}

type AdminDashboard struct {
	Users    UserStats         `json:"users"`
	Revenue  MembershipStats   `json:"revenue"`
	Sessions AdminSessionStats `json:"sessions"`
}
