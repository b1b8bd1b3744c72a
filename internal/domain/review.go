package domain

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a member's rating of a trainer, optionally about one of the trainer's plans.
type Review struct {
	ID            int64     `json:"id"`
	ClientID      int64     `json:"clientId"`
	TrainerID     *int64    `json:"trainerId"`
	WorkoutPlanID *int64    `json:"workoutPlanId"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	ClientName      string `json:"clientName,omitempty"`
	TrainerName     string `json:"trainerName,omitempty"`
	WorkoutPlanName string `json:"workoutPlanName,omitempty"`
}

type ReviewPatch struct {
	Rating  *int
	Comment *string
}

func (p ReviewPatch) IsEmpty() bool {
	return p.Rating == nil && p.Comment == nil
}

// TrainerRating is the mean rating of a trainer. Zero reviews yield a zero average.
type TrainerRating struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int64   `json:"totalReviews"`
}
