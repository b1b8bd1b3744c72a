package domain

import (
	"time"
)

// DefaultDurationWeeks is used when a plan is created without a duration.
const DefaultDurationWeeks = 4

// WorkoutPlan represents a structured plan authored by a trainer. It owns its exercises.
type WorkoutPlan struct {
	ID            int64     `json:"id"`
	TrainerID     int64     `json:"trainerId"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	DurationWeeks int       `json:"durationWeeks"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	TrainerName   string     `json:"trainerName,omitempty"`
	TrainerEmail  string     `json:"trainerEmail,omitempty"`
	ExerciseCount int64      `json:"exerciseCount"`
	Exercises     []Exercise `json:"exercises,omitempty"` // single fetch only
}

type WorkoutPlanPatch struct {
	Name          *string
	Description   *string
	DurationWeeks *int
}

func (p WorkoutPlanPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.DurationWeeks == nil
}
