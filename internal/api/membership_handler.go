package api

import (
	"net/http"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/service"

	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	membershipService service.MembershipService
}

func NewMembershipHandler(membershipService service.MembershipService) *MembershipHandler {
	return &MembershipHandler{membershipService: membershipService}
}

type CreateMembershipRequest struct {
	UserID    int64                   `json:"userId" binding:"required,gt=0"`
	Name      string                  `json:"name" binding:"required,min=2,max=100"`
	StartDate *domain.Date            `json:"startDate" binding:"required"`
	EndDate   *domain.Date            `json:"endDate" binding:"required"`
	Price     float64                 `json:"price" binding:"gte=0"`
	Status    domain.MembershipStatus `json:"status" binding:"omitempty,oneof=active expired cancelled"`
}

type UpdateMembershipRequest struct {
	Name      *string                  `json:"name" binding:"omitempty,min=2,max=100"`
	StartDate *domain.Date             `json:"startDate"`
	EndDate   *domain.Date             `json:"endDate"`
	Price     *float64                 `json:"price" binding:"omitempty,gte=0"`
	Status    *domain.MembershipStatus `json:"status" binding:"omitempty,oneof=active expired cancelled"`
}

type MembershipResponse struct {
	Message    string             `json:"message"`
	Membership *domain.Membership `json:"membership"`
}

// ListMemberships godoc
// @Summary List all memberships (admin, trainer)
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Membership
// @Router /memberships [get]
func (h *MembershipHandler) ListMemberships(c *gin.Context) {
	memberships, err := h.membershipService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch memberships")
		return
	}
	c.JSON(http.StatusOK, nonNil(memberships))
}

// GetRevenue godoc
// @Summary Membership counts and revenue of active memberships (admin)
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.MembershipStats
// @Router /memberships/revenue [get]
func (h *MembershipHandler) GetRevenue(c *gin.Context) {
	stats, err := h.membershipService.Revenue(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch revenue statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetUserMemberships godoc
// @Summary List a user's memberships
// @Description Without userId the caller's own memberships are returned. Members may only read their own.
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param userId path int false "User ID"
// @Success 200 {array} domain.Membership
// @Failure 403 {object} errorResponse
// @Router /memberships/user/{userId} [get]
func (h *MembershipHandler) GetUserMemberships(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	userID, ok := optionalIDParam(c, "userId")
	if !ok {
		return
	}

	memberships, err := h.membershipService.ListByUser(c.Request.Context(), caller, userID)
	if err != nil {
		respondError(c, err, "Failed to fetch user memberships")
		return
	}
	c.JSON(http.StatusOK, nonNil(memberships))
}

// GetActiveMembership godoc
// @Summary Get a user's active membership
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param userId path int false "User ID"
// @Success 200 {object} domain.Membership
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /memberships/active/{userId} [get]
func (h *MembershipHandler) GetActiveMembership(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	userID, ok := optionalIDParam(c, "userId")
	if !ok {
		return
	}

	membership, err := h.membershipService.Active(c.Request.Context(), caller, userID)
	if err != nil {
		respondError(c, err, "Failed to fetch active membership")
		return
	}
	if membership == nil {
		abortWithError(c, http.StatusNotFound, "No active membership found")
		return
	}
	c.JSON(http.StatusOK, membership)
}

// GetMembership godoc
// @Summary Get a membership by id
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Membership ID"
// @Success 200 {object} domain.Membership
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /memberships/{id} [get]
func (h *MembershipHandler) GetMembership(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	membership, err := h.membershipService.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err, "Failed to fetch membership")
		return
	}
	c.JSON(http.StatusOK, membership)
}

// CreateMembership godoc
// @Summary Create a membership (admin)
// @Tags Memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param membership body CreateMembershipRequest true "Membership details"
// @Success 201 {object} MembershipResponse
// @Failure 400 {object} errorResponse
// @Router /memberships [post]
func (h *MembershipHandler) CreateMembership(c *gin.Context) {
	var req CreateMembershipRequest
	if !bindJSON(c, &req) {
		return
	}

	membership, err := h.membershipService.Create(c.Request.Context(), service.NewMembership{
		UserID:    req.UserID,
		Name:      req.Name,
		StartDate: *req.StartDate,
		EndDate:   *req.EndDate,
		Price:     req.Price,
		Status:    req.Status,
	})
	if err != nil {
		respondError(c, err, "Failed to create membership")
		return
	}
	c.JSON(http.StatusCreated, MembershipResponse{Message: "Membership created successfully", Membership: membership})
}

// UpdateMembership godoc
// @Summary Update a membership (admin)
// @Tags Memberships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Membership ID"
// @Param membership body UpdateMembershipRequest true "Fields to change"
// @Success 200 {object} MembershipResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /memberships/{id} [put]
func (h *MembershipHandler) UpdateMembership(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateMembershipRequest
	if !bindJSON(c, &req) {
		return
	}

	membership, err := h.membershipService.Update(c.Request.Context(), id, domain.MembershipPatch{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Price:     req.Price,
		Status:    req.Status,
	})
	if err != nil {
		respondError(c, err, "Failed to update membership")
		return
	}
	c.JSON(http.StatusOK, MembershipResponse{Message: "Membership updated successfully", Membership: membership})
}

// DeleteMembership godoc
// @Summary Delete a membership (admin)
// @Tags Memberships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Membership ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorResponse
// @Router /memberships/{id} [delete]
func (h *MembershipHandler) DeleteMembership(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.membershipService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete membership")
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Membership deleted successfully"})
}
