package domain

import (
	"math"
	"time"
)

// SessionStatus tracks the lifecycle of a scheduled training session.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionMissed    SessionStatus = "missed"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionScheduled, SessionCompleted, SessionMissed:
		return true
	}
	return false
}

// CanTransitionTo reports whether a session in status s may move to next.
// Only scheduled sessions change status; keeping the current status is always allowed.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	if s == next {
		return true
	}
	return s == SessionScheduled && (next == SessionCompleted || next == SessionMissed)
}

// Session is a single training appointment of a member, optionally with a trainer and plan.
type Session struct {
	ID                 int64         `json:"id"`
	MemberID           int64         `json:"memberId"`
	TrainerID          *int64        `json:"trainerId"`
	WorkoutPlanID      *int64        `json:"workoutPlanId"`
	Date               Date          `json:"date"`
	StartTime          string        `json:"startTime,omitempty"` // HH:MM
	EndTime            string        `json:"endTime,omitempty"`   // HH:MM
	Status             SessionStatus `json:"status"`
	CompletedExercises []int64       `json:"completedExercises"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`

	MemberName         string     `json:"memberName,omitempty"`
	MemberEmail        string     `json:"memberEmail,omitempty"`
	MemberPhone        string     `json:"memberPhone,omitempty"`
	TrainerName        string     `json:"trainerName,omitempty"`
	TrainerEmail       string     `json:"trainerEmail,omitempty"`
	WorkoutPlanName    string     `json:"workoutPlanName,omitempty"`
	WorkoutDescription string     `json:"workoutDescription,omitempty"`
	TotalExercises     int64      `json:"totalExercises"`
	CompletedCount     int64      `json:"-"`
	CompletionRate     int        `json:"completionRate"`
	Exercises          []Exercise `json:"exercises,omitempty"`
}

// SessionPatch carries the fields of a partial session update.
type SessionPatch struct {
	Date               *Date
	StartTime          *string
	EndTime            *string
	Status             *SessionStatus
	TrainerID          *int64
	WorkoutPlanID      *int64
	CompletedExercises *[]int64
}

func (p SessionPatch) IsEmpty() bool {
	return p.Date == nil && p.StartTime == nil && p.EndTime == nil && p.Status == nil &&
		p.TrainerID == nil && p.WorkoutPlanID == nil && p.CompletedExercises == nil
}

// SessionStats counts sessions by status.
type SessionStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Missed    int64 `json:"missed"`
	Scheduled int64 `json:"scheduled"`
}

// SummarizeSessions folds a session listing into per-status counts.
func SummarizeSessions(sessions []Session) SessionStats {
	var stats SessionStats
	for _, s := range sessions {
		stats.Total++
		switch s.Status {
		case SessionCompleted:
			stats.Completed++
		case SessionMissed:
			stats.Missed++
		case SessionScheduled:
			stats.Scheduled++
		}
	}
	return stats
}

// CompletionRate returns the whole-number percentage of a plan's exercises that were completed.
// A plan without exercises yields 0.
func CompletionRate(completed, total int64) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// CountCompletedInPlan counts the distinct completed ids that belong to the plan's exercises.
func CountCompletedInPlan(completed []int64, exercises []Exercise) int64 {
	inPlan := make(map[int64]struct{}, len(exercises))
	for _, e := range exercises {
		inPlan[e.ID] = struct{}{}
	}
	var n int64
	seen := make(map[int64]struct{}, len(completed))
	for _, id := range completed {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := inPlan[id]; ok {
			n++
		}
	}
	return n
}
