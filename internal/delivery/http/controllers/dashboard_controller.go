package controllers

import (
	"log/slog"
	"net/http"

	"eventticketing/internal/delivery/http/helpers"
	"eventticketing/internal/domain"
)

type DashboardController struct {
	Logger  *slog.Logger
	Service domain.DashboardService
}

func NewDashboardController(logger *slog.Logger, svc domain.DashboardService) *DashboardController {
	return &DashboardController{Logger: logger, Service: svc}
}

// Admin godoc
// @Summary Admin dashboard
// @Description Platform totals plus daily bookings, popular events, users by role and events by category.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains summary and charts"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /dashboard/summary [get]
func (c *DashboardController) Admin(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r); !ok {
		return
	}
	d, err := c.Service.Admin(r.Context())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, d)
}

// Organizer godoc
// @Summary Organizer dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains summary, recentBookings and eventsWithBookings"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /dashboard/organizer [get]
func (c *DashboardController) Organizer(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	d, err := c.Service.Organizer(r.Context(), principal.ID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, d)
}

// User godoc
// @Summary User dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains summary and recentBookings"
// @Router /dashboard/user [get]
func (c *DashboardController) User(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	d, err := c.Service.User(r.Context(), principal.ID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, d)
}
