package api

import (
	"net/http"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler handles HTTP requests related to exercises.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request/Response Structs ---

type CreateExerciseRequest struct {
	WorkoutPlanID int64  `json:"workoutPlanId" binding:"required,gt=0"`
	Name          string `json:"name" binding:"required,max=100"`
	Sets          int    `json:"sets" binding:"required,min=1,max=20"`
	Reps          int    `json:"reps" binding:"required,min=1,max=100"`
	RestTime      *int   `json:"restTime" binding:"omitempty,min=0,max=600"`
	Notes         string `json:"notes" binding:"omitempty,max=500"`
}

type UpdateExerciseRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Sets     *int    `json:"sets" binding:"omitempty,min=1,max=20"`
	Reps     *int    `json:"reps" binding:"omitempty,min=1,max=100"`
	RestTime *int    `json:"restTime" binding:"omitempty,min=0,max=600"`
	Notes    *string `json:"notes" binding:"omitempty,max=500"`
}

type ExerciseResponse struct {
	Message  string           `json:"message"`
	Exercise *domain.Exercise `json:"exercise"`
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List exercises
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Exercise
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch exercises")
		return
	}
	c.JSON(http.StatusOK, nonNil(exercises))
}

// GetExercise godoc
// @Summary Get an exercise by id
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} domain.Exercise
// @Failure 404 {object} errorResponse
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch exercise")
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// GetWorkoutPlanExercises godoc
// @Summary List the exercises of a workout plan
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param workoutId path int true "Workout plan ID"
// @Success 200 {array} domain.Exercise
// @Router /exercises/workout/{workoutId} [get]
func (h *ExerciseHandler) GetWorkoutPlanExercises(c *gin.Context) {
	planID, ok := idParam(c, "workoutId")
	if !ok {
		return
	}

	exercises, err := h.exerciseService.ListByWorkoutPlan(c.Request.Context(), planID)
	if err != nil {
		respondError(c, err, "Failed to fetch workout plan exercises")
		return
	}
	c.JSON(http.StatusOK, nonNil(exercises))
}

// CreateExercise godoc
// @Summary Add an exercise to a workout plan (owner trainer, admin)
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body CreateExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse "Workout plan not found"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.Create(c.Request.Context(), caller, req.WorkoutPlanID, service.ExerciseSpec{
		Name:     req.Name,
		Sets:     req.Sets,
		Reps:     req.Reps,
		RestTime: req.RestTime,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, err, "Failed to create exercise")
		return
	}
	c.JSON(http.StatusCreated, ExerciseResponse{Message: "Exercise created successfully", Exercise: exercise})
}

// UpdateExercise godoc
// @Summary Update an exercise (owner trainer, admin)
// @Description Only the fields present in the body are changed; restTime 0 is a valid value.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Param exercise body UpdateExerciseRequest true "Fields to change"
// @Success 200 {object} ExerciseResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateExerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	exercise, err := h.exerciseService.Update(c.Request.Context(), caller, id, domain.ExercisePatch{
		Name:     req.Name,
		Sets:     req.Sets,
		Reps:     req.Reps,
		RestTime: req.RestTime,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, err, "Failed to update exercise")
		return
	}
	c.JSON(http.StatusOK, ExerciseResponse{Message: "Exercise updated successfully", Exercise: exercise})
}

// DeleteExercise godoc
// @Summary Delete an exercise (owner trainer, admin)
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} messageResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.exerciseService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err, "Failed to delete exercise")
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Exercise deleted successfully"})
}
