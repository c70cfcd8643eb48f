package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventticketing/internal/domain"

	"github.com/google/uuid"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) ListPublic(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filter.Search = strings.TrimSpace(filter.Search)
	events, total, err := s.eventRepo.ListPublic(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list public events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ownerScope is the organizer filter for a manager: admins act on any event.
func ownerScope(principal domain.Principal) (string, error) {
	switch principal.Role {
	case domain.RoleAdmin:
		return "", nil
	case domain.RoleOrganizer:
		return principal.ID, nil
	}
	return "", domain.ErrForbidden
}

func (s *eventService) ListManaged(ctx context.Context, principal domain.Principal) ([]*domain.Event, error) {
	organizerID, err := ownerScope(principal)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list managed events: %w", err)
	}
	return events, nil
}

func (s *eventService) Create(ctx context.Context, principal domain.Principal, event *domain.Event) error {
	if _, err := ownerScope(principal); err != nil {
		return err
	}
	if err := validateEvent(event); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := time.Now()
	event.OrganizerID = principal.ID
	event.AvailableTickets = event.Capacity
	if event.Status == "" {
		event.Status = domain.EventStatusUpcoming
	}
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) Update(ctx context.Context, principal domain.Principal, id string, patch domain.EventPatch) (*domain.Event, error) {
	organizerID, err := ownerScope(principal)
	if err != nil {
		return nil, err
	}
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.Update(ctx, id, organizerID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidState) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// Delete removes the event. Bookings that reference it are kept.
func (s *eventService) Delete(ctx context.Context, principal domain.Principal, id string) error {
	organizerID, err := ownerScope(principal)
	if err != nil {
		return err
	}
	if uuid.Validate(id) != nil {
		return domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id, organizerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
}

func validateEvent(e *domain.Event) error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return invalid("title is required")
	case strings.TrimSpace(e.Location) == "":
		return invalid("location is required")
	case e.Date.IsZero():
		return invalid("date is required")
	case e.Price < 0:
		return invalid("price must not be negative")
	case e.Capacity < 0:
		return invalid("capacity must not be negative")
	}
	if _, ok := domain.ParseCategory(string(e.Category)); !ok {
		return invalid("unknown category %q", e.Category)
	}
	if e.Status != "" {
		if _, ok := domain.ParseEventStatus(string(e.Status)); !ok {
			return invalid("unknown status %q", e.Status)
		}
	}
	return nil
}

func validatePatch(p domain.EventPatch) error {
	switch {
	case p.Title != nil && strings.TrimSpace(*p.Title) == "":
		return invalid("title must not be empty")
	case p.Location != nil && strings.TrimSpace(*p.Location) == "":
		return invalid("location must not be empty")
	case p.Date != nil && p.Date.IsZero():
		return invalid("date must not be empty")
	case p.Price != nil && *p.Price < 0:
		return invalid("price must not be negative")
	case p.Capacity != nil && *p.Capacity < 0:
		return invalid("capacity must not be negative")
	}
	if p.Category != nil {
		if _, ok := domain.ParseCategory(string(*p.Category)); !ok {
			return invalid("unknown category %q", *p.Category)
		}
	}
	if p.Status != nil {
		if _, ok := domain.ParseEventStatus(string(*p.Status)); !ok {
			return invalid("unknown status %q", *p.Status)
		}
	}
	return nil
}
