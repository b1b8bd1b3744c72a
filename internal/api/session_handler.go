package api

import (
	"fmt"
	"net/http"
	"strconv"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"
	"gymtracker/gym-api/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- Request/Response Structs ---

type CreateSessionRequest struct {
	MemberID      int64        `json:"memberId" binding:"required,gt=0"`
	TrainerID     *int64       `json:"trainerId" binding:"omitempty,gt=0"`
	WorkoutPlanID *int64       `json:"workoutPlanId" binding:"omitempty,gt=0"`
	Date          *domain.Date `json:"date" binding:"required"`
	StartTime     string       `json:"startTime" binding:"omitempty,datetime=15:04"`
	EndTime       string       `json:"endTime" binding:"omitempty,datetime=15:04"`
}

type UpdateSessionRequest struct {
	Date               *domain.Date          `json:"date"`
	StartTime          *string               `json:"startTime" binding:"omitempty,datetime=15:04"`
	EndTime            *string               `json:"endTime" binding:"omitempty,datetime=15:04"`
	Status             *domain.SessionStatus `json:"status" binding:"omitempty,oneof=scheduled completed missed"`
	TrainerID          *int64                `json:"trainerId" binding:"omitempty,gt=0"`
	WorkoutPlanID      *int64                `json:"workoutPlanId" binding:"omitempty,gt=0"`
	CompletedExercises *[]int64              `json:"completedExercises"`
}

type CompleteSessionRequest struct {
	CompletedExercises []int64 `json:"completedExercises" binding:"dive,gt=0"`
}

type SessionResponse struct {
	Message string          `json:"message"`
	Session *domain.Session `json:"session"`
}

// ListSessions godoc
// @Summary List sessions
// @Description Members only see their own sessions, trainers the sessions assigned to them.
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Session status" Enums(scheduled, completed, missed)
// @Param memberId query int false "Member ID"
// @Param trainerId query int false "Trainer ID"
// @Param dateFrom query string false "First day (YYYY-MM-DD)"
// @Param dateTo query string false "Last day (YYYY-MM-DD)"
// @Success 200 {array} domain.Session
// @Failure 400 {object} errorResponse
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	filter, ok := sessionFilterFromQuery(c)
	if !ok {
		return
	}

	sessions, err := h.sessionService.List(c.Request.Context(), caller, filter)
	if err != nil {
		respondError(c, err, "Failed to fetch sessions")
		return
	}
	c.JSON(http.StatusOK, nonNil(sessions))
}

// GetMissedSessions godoc
// @Summary List missed sessions
// @Tags Sessions
// @Produce json
// @Success 200 {array} domain.Session
// @Router /sessions/missed [get]
func (h *SessionHandler) GetMissedSessions(c *gin.Context) {
	sessions, err := h.sessionService.Missed(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch missed sessions")
		return
	}
	c.JSON(http.StatusOK, nonNil(sessions))
}

// GetSession godoc
// @Summary Get a session with its plan's exercises
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} domain.Session
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err, "Failed to fetch session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetMemberStats godoc
// @Summary Session counts of a member
// @Description Without memberId the caller's own counts are returned. Members may only read their own.
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param memberId path int false "Member ID"
// @Success 200 {object} domain.SessionStats
// @Failure 403 {object} errorResponse
// @Router /sessions/stats/{memberId} [get]
func (h *SessionHandler) GetMemberStats(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	memberID, ok := optionalIDParam(c, "memberId")
	if !ok {
		return
	}

	stats, err := h.sessionService.MemberStats(c.Request.Context(), caller, memberID)
	if err != nil {
		respondError(c, err, "Failed to fetch session statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CreateSession godoc
// @Summary Schedule a session (trainer, admin)
// @Description A trainer is always recorded as the session's trainer.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body CreateSessionRequest true "Session details"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	var req CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.sessionService.Create(c.Request.Context(), caller, service.NewSession{
		MemberID:      req.MemberID,
		TrainerID:     req.TrainerID,
		WorkoutPlanID: req.WorkoutPlanID,
		Date:          *req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	})
	if err != nil {
		respondError(c, err, "Failed to create session")
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{Message: "Session created successfully", Session: session})
}

// UpdateSession godoc
// @Summary Update a session (trainer, admin)
// @Description Only the fields present in the body are changed. Status may only leave "scheduled".
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param session body UpdateSessionRequest true "Fields to change"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /sessions/{id} [put]
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.sessionService.Update(c.Request.Context(), caller, id, domain.SessionPatch{
		Date:               req.Date,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Status:             req.Status,
		TrainerID:          req.TrainerID,
		WorkoutPlanID:      req.WorkoutPlanID,
		CompletedExercises: req.CompletedExercises,
	})
	if err != nil {
		respondError(c, err, "Failed to update session")
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Message: "Session updated successfully", Session: session})
}

// CompleteSession godoc
// @Summary Mark a session completed
// @Description Allowed for the session's member, its trainer or an admin.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param exercises body CompleteSessionRequest true "Completed exercise ids"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /sessions/{id}/complete [put]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req CompleteSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.sessionService.Complete(c.Request.Context(), caller, id, req.CompletedExercises)
	if err != nil {
		respondError(c, err, "Failed to complete session")
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Message: "Session completed successfully", Session: session})
}

// DeleteSession godoc
// @Summary Delete a session (trainer, admin)
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} messageResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err, "Failed to delete session")
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Session deleted successfully"})
}

// sessionFilterFromQuery reads the listing filters. Malformed values are answered with 400.
func sessionFilterFromQuery(c *gin.Context) (repository.SessionFilter, bool) {
	var filter repository.SessionFilter

	if v := c.Query("status"); v != "" {
		status := domain.SessionStatus(v)
		filter.Status = &status
	}
	for name, dst := range map[string]**int64{"memberId": &filter.MemberID, "trainerId": &filter.TrainerID} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
			return filter, false
		}
		*dst = &id
	}
	for name, dst := range map[string]**domain.Date{"dateFrom": &filter.DateFrom, "dateTo": &filter.DateTo} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		d, err := domain.ParseDate(v)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %v", name, err))
			return filter, false
		}
		*dst = &d
	}
	return filter, true
}
