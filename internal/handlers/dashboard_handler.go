package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/models"
	"fundledger/internal/services"
)

// DashboardHandler serves the partner dashboard.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
	now              func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, now: time.Now}
}

// GetPartnerDashboard returns one partner's dashboard
// @Summary     Partner dashboard
// @Description This month's expenses and freelancer payments, every drawing, the partner's salary, pending client income and the fund balances. Partners may only read their own dashboard.
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Partner ID"
// @Success     200 {object} services.PartnerDashboard "Dashboard"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Partner not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard/partner/{id} [get]
func (h *DashboardHandler) GetPartnerDashboard(c *gin.Context) {
	partnerID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if getRole(c) != models.RoleAdmin {
		userID, err := getUserID(c)
		if err != nil {
			respondWithError(c, err)
			return
		}
		if userID != partnerID {
			respondWithError(c, apperrors.ErrForbidden)
			return
		}
	}

	dash, err := h.dashboardService.GetPartnerDashboard(partnerID, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}
