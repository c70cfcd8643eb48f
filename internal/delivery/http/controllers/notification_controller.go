package controllers

import (
	"log/slog"
	"net/http"

	"eventticketing/internal/delivery/http/helpers"
	"eventticketing/internal/domain"
)

const defaultNotificationPageSize = 20

// NotificationListResponse is the data of GET /notifications.
type NotificationListResponse struct {
	Notifications []*domain.Notification `json:"notifications"`
	TotalPages    int                    `json:"totalPages"`
	CurrentPage   int                    `json:"currentPage"`
	Total         int                    `json:"total"`
}

// UnreadCountResponse is the data of GET /notifications/unread-count.
type UnreadCountResponse struct {
	Count int `json:"count"`
}

type NotificationController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

func NewNotificationController(logger *slog.Logger, svc domain.NotificationService) *NotificationController {
	return &NotificationController{Logger: logger, Service: svc}
}

// List godoc
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains notifications, totalPages, currentPage, total"
// @Router /notifications [get]
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	page := helpers.ParsePagination(r, defaultNotificationPageSize)
	list, total, err := c.Service.List(r.Context(), principal.ID, page)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	if list == nil {
		list = []*domain.Notification{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, NotificationListResponse{
		Notifications: list,
		TotalPages:    page.TotalPages(total),
		CurrentPage:   page.Page,
		Total:         total,
	})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the notification"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /notifications/{id}/read [put]
func (c *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	n, err := c.Service.MarkRead(r.Context(), principal.ID, r.PathValue("id"))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, n)
}

// MarkAllRead godoc
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Router /notifications/mark-all-read [put]
func (c *NotificationController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if err := c.Service.MarkAllRead(r.Context(), principal.ID); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.MessageResponse{Message: "All notifications marked as read"})
}

// UnreadCount godoc
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains count"
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	count, err := c.Service.UnreadCount(r.Context(), principal.ID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UnreadCountResponse{Count: count})
}
