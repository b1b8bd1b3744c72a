package domain

import (
	"time"
)

// DefaultRestTime is applied when an exercise is created without a rest time (seconds).
const DefaultRestTime = 60

// Exercise is one prescribed movement inside a WorkoutPlan.
type Exercise struct {
	ID            int64     `json:"id"`
	WorkoutPlanID int64     `json:"workoutPlanId"`
	Name          string    `json:"name"`
	Sets          int       `json:"sets"`
	Reps          int       `json:"reps"`
	RestTime      int       `json:"restTime"`        // seconds
	Notes         string    `json:"notes,omitempty"` // muscle group or execution hints
	CreatedAt     time.Time `json:"createdAt"`
}

type ExercisePatch struct {
	Name     *string
	Sets     *int
	Reps     *int
	RestTime *int
	Notes    *string
}

func (p ExercisePatch) IsEmpty() bool {
	return p.Name == nil && p.Sets == nil && p.Reps == nil && p.RestTime == nil && p.Notes == nil
}
