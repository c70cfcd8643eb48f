package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"eventticketing/internal/delivery/http/helpers"
	"eventticketing/internal/domain"
)

const categories = "concert conference workshop sports festival other"

// parseEventDate accepts a calendar date or an RFC 3339 timestamp and keeps the date part.
func parseEventDate(s string) (time.Time, bool) {
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, true
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// CreateEventRequest is the request body for POST /events. Available tickets
// always start at capacity and cannot be set directly.
type CreateEventRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date" validate:"required"`
	Time        string  `json:"time"`
	Location    string  `json:"location" validate:"required"`
	Category    string  `json:"category" validate:"required,oneof=concert conference workshop sports festival other"`
	Image       string  `json:"image" validate:"omitempty,url"`
	Price       float64 `json:"price" validate:"gte=0"`
	Capacity    int     `json:"capacity" validate:"gte=0"`
}

func (req CreateEventRequest) Validate() []string {
	errs := helpers.ValidateStruct(req)
	if req.Date != "" {
		if _, ok := parseEventDate(req.Date); !ok {
			errs = append(errs, "date must be YYYY-MM-DD")
		}
	}
	return errs
}

// UpdateEventRequest is the request body for PUT /events/{id}. All fields are
// optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	Time        *string  `json:"time"`
	Location    *string  `json:"location"`
	Category    *string  `json:"category" validate:"omitempty,oneof=concert conference workshop sports festival other"`
	Image       *string  `json:"image" validate:"omitempty,url"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Capacity    *int     `json:"capacity" validate:"omitempty,gte=0"`
	Status      *string  `json:"status" validate:"omitempty,oneof=upcoming past cancelled"`
}

func (req UpdateEventRequest) Validate() []string {
	errs := helpers.ValidateStruct(req)
	if req.Date != nil {
		if _, ok := parseEventDate(*req.Date); !ok {
			errs = append(errs, "date must be YYYY-MM-DD")
		}
	}
	return errs
}

func (req UpdateEventRequest) patch() domain.EventPatch {
	p := domain.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Time:        req.Time,
		Location:    req.Location,
		Image:       req.Image,
		Price:       req.Price,
		Capacity:    req.Capacity,
	}
	if req.Date != nil {
		d, _ := parseEventDate(*req.Date)
		p.Date = &d
	}
	if req.Category != nil {
		c := domain.Category(*req.Category)
		p.Category = &c
	}
	if req.Status != nil {
		s := domain.EventStatus(*req.Status)
		p.Status = &s
	}
	return p
}

// EventListResponse is the data of GET /events/public.
type EventListResponse struct {
	Events      []*domain.Event `json:"events"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
	Total       int             `json:"total"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{Logger: logger, Service: svc}
}

// ListPublic godoc
// @Summary List upcoming events
// @Description Public, paginated listing of upcoming events ordered by date. Filters by category and a case-insensitive search over title, description and location.
// @Tags events
// @Produce json
// @Param category query string false "Category"
// @Param search query string false "Search text"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains events, totalPages, currentPage, total"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events/public [get]
func (c *EventController) ListPublic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.EventFilter
	if s := q.Get("category"); s != "" && s != "all" {
		category, ok := domain.ParseCategory(s)
		if !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "category must be one of: "+categories)
			return
		}
		filter.Category = category
	}
	filter.Search = q.Get("search")
	page := helpers.ParsePagination(r, helpers.DefaultPageSize)

	events, total, err := c.Service.ListPublic(r.Context(), filter, page)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Events:      events,
		TotalPages:  page.TotalPages(total),
		CurrentPage: page.Page,
		Total:       total,
	})
}

// GetByID godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [get]
func (c *EventController) GetByID(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListManaged godoc
// @Summary List managed events
// @Description Organizers see their own events; admins see all events.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events [get]
func (c *EventController) ListManaged(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	events, err := c.Service.ListManaged(r.Context(), principal)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// Create godoc
// @Summary Create an event
// @Description The caller becomes the organizer. availableTickets starts at capacity and status at upcoming.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	date, _ := parseEventDate(req.Date)
	event := domain.NewEvent(principal.ID, req.Title, req.Description, date, req.Time, req.Location,
		domain.Category(req.Category), req.Image, req.Price, req.Capacity, time.Now().UTC())
	if err := c.Service.Create(r.Context(), principal, event); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// Update godoc
// @Summary Update an event
// @Description Owner or admin only. A capacity change shifts availableTickets by the same amount and is rejected if fewer tickets would remain than are already sold.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_state"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	event, err := c.Service.Update(r.Context(), principal, r.PathValue("id"), req.patch())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Description Owner or admin only. Existing bookings are kept.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), principal, r.PathValue("id")); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.MessageResponse{Message: "Event deleted successfully"})
}
