package controllers

import (
	"log/slog"
	"net/http"

	"eventticketing/internal/delivery/http/helpers"
	"eventticketing/internal/domain"
)

// CreateBookingRequest is the request body for POST /bookings.
type CreateBookingRequest struct {
	EventID       string `json:"eventId" validate:"required"`
	TicketsBooked int    `json:"ticketsBooked" validate:"min=1"`
}

func (req CreateBookingRequest) Validate() []string { return helpers.ValidateStruct(req) }

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Book tickets
// @Description Atomically reserves ticketsBooked tickets of an upcoming event and records a confirmed booking at the current price.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param booking body CreateBookingRequest true "Event and ticket count"
// @Success 201 {object} helpers.APIResponse "data contains the booking with event and user details"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, invalid_state or insufficient_inventory"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /bookings [post]
func (c *BookingController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	booking, err := c.Service.Create(r.Context(), principal, req.EventID, req.TicketsBooked)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, booking)
}

// List godoc
// @Summary List bookings
// @Description Users see their own bookings, organizers see bookings on their events, admins see all. Newest first.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the bookings"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /bookings [get]
func (c *BookingController) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	bookings, err := c.Service.List(r.Context(), principal)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	if bookings == nil {
		bookings = []*domain.BookingDetail{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, bookings)
}

// GetByID godoc
// @Summary Get a booking
// @Description Visible to the booking owner, the event organizer and admins.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the booking"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /bookings/{id} [get]
func (c *BookingController) GetByID(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	booking, err := c.Service.GetByID(r.Context(), principal, r.PathValue("id"))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking)
}

// Cancel godoc
// @Summary Cancel a booking
// @Description Owner or admin only. Returns the tickets to the event inventory.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the cancelled booking"
// @Failure 400 {object} helpers.APIResponse "error.code: already_cancelled"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /bookings/{id}/cancel [put]
func (c *BookingController) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	booking, err := c.Service.Cancel(r.Context(), principal, r.PathValue("id"))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, booking)
}
