package api

import (
	"net/http"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type CreateReviewRequest struct {
	TrainerID     *int64 `json:"trainerId" binding:"omitempty,gt=0"`
	WorkoutPlanID *int64 `json:"workoutPlanId" binding:"omitempty,gt=0"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comment       string `json:"comment" binding:"omitempty,max=1000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=1000"`
}

type ReviewResponse struct {
	Message string         `json:"message"`
	Review  *domain.Review `json:"review"`
}

// ListReviews godoc
// @Summary List reviews
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Review
// @Router /reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviewService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch reviews")
		return
	}
	c.JSON(http.StatusOK, nonNil(reviews))
}

// GetReview godoc
// @Summary Get a review by id
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} domain.Review
// @Failure 404 {object} errorResponse
// @Router /reviews/{id} [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// GetTrainerReviews godoc
// @Summary List a trainer's reviews
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param trainerId path int true "Trainer ID"
// @Success 200 {array} domain.Review
// @Router /reviews/trainer/{trainerId} [get]
func (h *ReviewHandler) GetTrainerReviews(c *gin.Context) {
	trainerID, ok := idParam(c, "trainerId")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to fetch trainer reviews")
		return
	}
	c.JSON(http.StatusOK, nonNil(reviews))
}

// GetTrainerRating godoc
// @Summary Average rating of a trainer
// @Description A trainer without reviews has an average of 0.
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param trainerId path int true "Trainer ID"
// @Success 200 {object} domain.TrainerRating
// @Router /reviews/trainer/{trainerId}/rating [get]
func (h *ReviewHandler) GetTrainerRating(c *gin.Context) {
	trainerID, ok := idParam(c, "trainerId")
	if !ok {
		return
	}

	rating, err := h.reviewService.TrainerRating(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, err, "Failed to fetch trainer rating")
		return
	}
	c.JSON(http.StatusOK, rating)
}

// CreateReview godoc
// @Summary Review a trainer
// @Description The caller is recorded as the author. Without trainerId the plan's trainer is reviewed.
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param review body CreateReviewRequest true "Review"
// @Success 201 {object} ReviewResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), caller, service.NewReview{
		TrainerID:     req.TrainerID,
		WorkoutPlanID: req.WorkoutPlanID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		respondError(c, err, "Failed to create review")
		return
	}
	c.JSON(http.StatusCreated, ReviewResponse{Message: "Review created successfully", Review: review})
}

// UpdateReview godoc
// @Summary Update a review (author, admin)
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Param review body UpdateReviewRequest true "Fields to change"
// @Success 200 {object} ReviewResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), caller, id, domain.ReviewPatch{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, err, "Failed to update review")
		return
	}
	c.JSON(http.StatusOK, ReviewResponse{Message: "Review updated successfully", Review: review})
}

// DeleteReview godoc
// @Summary Delete a review (author, admin)
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} messageResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err, "Failed to delete review")
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Review deleted successfully"})
}
