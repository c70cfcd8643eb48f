package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventticketing/internal/domain"

	"github.com/google/uuid"
)

const (
	maxBookingAttempts  = 3
	defaultRetryBackoff = 25 * time.Millisecond
)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	publisher      domain.BookingEventPublisher
	metrics        domain.BookingMetrics
	logger         *slog.Logger
	contextTimeout time.Duration
	retryBackoff   time.Duration
	now            func() time.Time
}

// NewBookingService returns the inventory coordinator. Reservations and
// refunds are applied by the repository's atomic units; this service adds
// access checks, bounded retry on store conflicts and event publication.
func NewBookingService(bookingRepo domain.BookingRepository, publisher domain.BookingEventPublisher,
	metrics domain.BookingMetrics, logger *slog.Logger, timeout time.Duration) domain.BookingService {
	if metrics == nil {
		metrics = nopBookingMetrics{}
	}
	return &bookingService{
		bookingRepo:    bookingRepo,
		publisher:      publisher,
		metrics:        metrics,
		logger:         logger,
		contextTimeout: timeout,
		retryBackoff:   defaultRetryBackoff,
		now:            time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, principal domain.Principal, eventID string, tickets int) (*domain.BookingDetail, error) {
	if tickets < 1 {
		return nil, fmt.Errorf("%w: ticketsBooked must be at least 1", domain.ErrInvalidInput)
	}
	if uuid.Validate(eventID) != nil {
		return nil, fmt.Errorf("%w: eventId must be a valid id", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var booking *domain.BookingDetail
	err := s.retryOnConflict(ctx, "create", func() error {
		var err error
		booking, err = s.bookingRepo.Create(ctx, principal.ID, eventID, tickets, s.now())
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.metrics.BookingRejected("not_found")
			return nil, domain.ErrNotFound
		case errors.Is(err, domain.ErrInvalidState):
			s.metrics.BookingRejected("invalid_state")
			return nil, domain.ErrInvalidState
		case errors.Is(err, domain.ErrInsufficientInventory):
			s.metrics.BookingRejected("insufficient_inventory")
			return nil, domain.ErrInsufficientInventory
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.metrics.BookingCreated(tickets)
	s.publish(ctx, domain.BookingConfirmed, booking)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, principal domain.Principal, id string) (*domain.BookingDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != principal.ID && !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if current.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	var booking *domain.BookingDetail
	err = s.retryOnConflict(ctx, "cancel", func() error {
		var err error
		booking, err = s.bookingRepo.Cancel(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAlreadyCancelled) {
			return nil, err
		}
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	s.metrics.BookingCancelled(booking.TicketsBooked)
	s.publish(ctx, domain.BookingCancelled, booking)
	return booking, nil
}

// List scopes bookings by role: users see their own, organizers see the
// bookings of events they organize and admins see everything.
func (s *bookingService) List(ctx context.Context, principal domain.Principal) ([]*domain.BookingDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var scope domain.BookingScope
	switch principal.Role {
	case domain.RoleAdmin:
	case domain.RoleOrganizer:
		scope.OrganizerID = principal.ID
	case domain.RoleUser:
		scope.UserID = principal.ID
	default:
		return nil, domain.ErrForbidden
	}
	bookings, err := s.bookingRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) GetByID(ctx context.Context, principal domain.Principal, id string) (*domain.BookingDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	booking, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.VisibleTo(principal) {
		return nil, domain.ErrForbidden
	}
	return booking, nil
}

func (s *bookingService) get(ctx context.Context, id string) (*domain.BookingDetail, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

// retryOnConflict runs fn up to maxBookingAttempts times while it fails with
// domain.ErrConflict, backing off linearly between attempts.
func (s *bookingService) retryOnConflict(ctx context.Context, operation string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxBookingAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		s.metrics.ConflictRetried(operation)
		s.logger.WarnContext(ctx, "booking store conflict", "operation", operation, "attempt", attempt, "err", err)
		if attempt == maxBookingAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * s.retryBackoff):
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", maxBookingAttempts, err)
}

// publish emits the booking event once the transaction has committed. A failed
// publish is logged and never undoes the booking.
func (s *bookingService) publish(ctx context.Context, kind domain.BookingEventKind, booking *domain.BookingDetail) {
	if s.publisher == nil {
		return
	}
	evt := domain.NewBookingEvent(kind, booking, s.now())
	if err := s.publisher.Publish(context.WithoutCancel(ctx), evt); err != nil {
		s.logger.ErrorContext(ctx, "publish booking event failed",
			"kind", string(kind), "booking_id", booking.ID, "err", err)
	}
}

type nopBookingMetrics struct{}

func (nopBookingMetrics) BookingCreated(int)     {}
func (nopBookingMetrics) BookingCancelled(int)   {}
func (nopBookingMetrics) BookingRejected(string) {}
func (nopBookingMetrics) ConflictRetried(string) {}
