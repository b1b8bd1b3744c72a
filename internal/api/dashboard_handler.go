package api

import (
	"net/http"

	"gymtracker/gym-api/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetMemberDashboard godoc
// @Summary The member's profile, active membership and session counts
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.MemberDashboard
// @Router /dashboard/member [get]
func (h *DashboardHandler) GetMemberDashboard(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Member(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetTrainerDashboard godoc
// @Summary The trainer's session counts, active members and rating
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.TrainerDashboard
// @Router /dashboard/trainer [get]
func (h *DashboardHandler) GetTrainerDashboard(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Trainer(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetAdminDashboard godoc
// @Summary Gym-wide user, revenue and session figures
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.AdminDashboard
// @Router /dashboard/admin [get]
func (h *DashboardHandler) GetAdminDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.Admin(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
