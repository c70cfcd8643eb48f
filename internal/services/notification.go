package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventticketing/internal/domain"

	"github.com/google/uuid"
)

type notificationService struct {
	notificationRepo domain.NotificationRepository
	contextTimeout   time.Duration
	now              func() time.Time
}

func NewNotificationService(notificationRepo domain.NotificationRepository, timeout time.Duration) domain.NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		contextTimeout:   timeout,
		now:              time.Now,
	}
}

// BookingMessage returns the inbox text for a booking event.
func BookingMessage(evt domain.BookingEvent) (string, error) {
	switch evt.Kind {
	case domain.BookingConfirmed:
		return fmt.Sprintf(`Your booking for "%s" has been confirmed!`, evt.EventTitle), nil
	case domain.BookingCancelled:
		return fmt.Sprintf(`Your booking for "%s" has been cancelled.`, evt.EventTitle), nil
	}
	return "", fmt.Errorf("%w: unknown booking event kind %q", domain.ErrInvalidInput, evt.Kind)
}

func (s *notificationService) NotifyBooking(ctx context.Context, evt domain.BookingEvent) (*domain.Notification, error) {
	message, err := BookingMessage(evt)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n := domain.NewNotification(evt.UserID, message, domain.NotificationTypeBooking, s.now())
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

func (s *notificationService) List(ctx context.Context, userID string, page domain.PaginationParams) ([]*domain.Notification, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, total, err := s.notificationRepo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return list, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	if uuid.Validate(id) != nil {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n, err := s.notificationRepo.MarkRead(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
