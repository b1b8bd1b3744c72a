package api

import (
	"net/http"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutPlanHandler struct {
	planService service.WorkoutPlanService
}

func NewWorkoutPlanHandler(planService service.WorkoutPlanService) *WorkoutPlanHandler {
	return &WorkoutPlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type ExerciseInput struct {
	Name     string `json:"name" binding:"required,max=100"`
	Sets     int    `json:"sets" binding:"required,min=1,max=20"`
	Reps     int    `json:"reps" binding:"required,min=1,max=100"`
	RestTime *int   `json:"restTime" binding:"omitempty,min=0,max=600"`
	Notes    string `json:"notes" binding:"omitempty,max=500"`
}

func (in ExerciseInput) toSpec() service.ExerciseSpec {
	return service.ExerciseSpec{
		Name:     in.Name,
		Sets:     in.Sets,
		Reps:     in.Reps,
		RestTime: in.RestTime,
		Notes:    in.Notes,
	}
}

type CreateWorkoutPlanRequest struct {
	TrainerID     int64           `json:"trainerId" binding:"omitempty,gt=0"` // admins only
	Name          string          `json:"name" binding:"required,min=2,max=100"`
	Description   string          `json:"description" binding:"omitempty,max=1000"`
	DurationWeeks int             `json:"durationWeeks" binding:"omitempty,min=1,max=52"`
	Exercises     []ExerciseInput `json:"exercises" binding:"omitempty,dive"`
}

type UpdateWorkoutPlanRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description   *string `json:"description" binding:"omitempty,max=1000"`
	DurationWeeks *int    `json:"durationWeeks" binding:"omitempty,min=1,max=52"`
}

type WorkoutPlanResponse struct {
	Message     string              `json:"message"`
	WorkoutPlan *domain.WorkoutPlan `json:"workoutPlan"`
}

// ListWorkoutPlans godoc
// @Summary List workout plans
// @Tags Workout Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.WorkoutPlan
// @Router /workout-plans [get]
func (h *WorkoutPlanHandler) ListWorkoutPlans(c *gin.Context) {
	plans, err := h.planService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch workout plans")
		return
	}
	c.JSON(http.StatusOK, nonNil(plans))
}

// GetWorkoutPlan godoc
// @Summary Get a workout plan with its exercises
// @Tags Workout Plans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workout plan ID"
// @Success 200 {object} domain.WorkoutPlan
// @Failure 404 {object} errorResponse
// @Router /workout-plans/{id} [get]
func (h *WorkoutPlanHandler) GetWorkoutPlan(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch workout plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetTrainerWorkoutPlans godoc
// @Summary List the plans authored by a trainer
// @Tags Workout Plans
// @Produce json
// @Security BearerAuth
// @Param trainerId path int true "Trainer ID"
// @Success 200 {array} domain.WorkoutPlan
// @Router /workout-plans/trainer/{trainerId} [get]
func (h *WorkoutPlanHandler) GetTrainerWorkoutPlans(c *gin.Context) {
	trainerID, ok := idParam(c, "trainerId")
	if !ok {
		return
	}

	plans, err := h.planService.ListByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to fetch trainer workout plans")
		return
	}
	c.JSON(http.StatusOK, nonNil(plans))
}

// CreateWorkoutPlan godoc
// @Summary Create a workout plan with its exercises (trainer, admin)
// @Description The plan and its exercises are stored atomically. Admins must name the trainer.
// @Tags Workout Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreateWorkoutPlanRequest true "Plan details"
// @Success 201 {object} WorkoutPlanResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /workout-plans [post]
func (h *WorkoutPlanHandler) CreateWorkoutPlan(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req CreateWorkoutPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	exercises := make([]service.ExerciseSpec, 0, len(req.Exercises))
	for _, e := range req.Exercises {
		exercises = append(exercises, e.toSpec())
	}

	plan, err := h.planService.Create(c.Request.Context(), caller, service.NewWorkoutPlan{
		TrainerID:     req.TrainerID,
		Name:          req.Name,
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
		Exercises:     exercises,
	})
	if err != nil {
		respondError(c, err, "Failed to create workout plan")
		return
	}
	c.JSON(http.StatusCreated, WorkoutPlanResponse{Message: "Workout plan created successfully", WorkoutPlan: plan})
}

// UpdateWorkoutPlan godoc
// @Summary Update a workout plan (owner trainer, admin)
// @Tags Workout Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workout plan ID"
// @Param plan body UpdateWorkoutPlanRequest true "Fields to change"
// @Success 200 {object} WorkoutPlanResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /workout-plans/{id} [put]
func (h *WorkoutPlanHandler) UpdateWorkoutPlan(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateWorkoutPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), caller, id, domain.WorkoutPlanPatch{
		Name:          req.Name,
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
	})
	if err != nil {
		respondError(c, err, "Failed to update workout plan")
		return
	}
	c.JSON(http.StatusOK, WorkoutPlanResponse{Message: "Workout plan updated successfully", WorkoutPlan: plan})
}

// DeleteWorkoutPlan godoc
// @Summary Delete a workout plan and its exercises (owner trainer, admin)
// @Tags Workout Plans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workout plan ID"
// @Success 200 {object} messageResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /workout-plans/{id} [delete]
func (h *WorkoutPlanHandler) DeleteWorkoutPlan(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.planService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err, "Failed to delete workout plan")
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Workout plan deleted successfully"})
}
