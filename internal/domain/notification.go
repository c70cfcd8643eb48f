package domain

import (
	"context"
	"time"
)

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationTypeBooking NotificationType = "booking"
	NotificationTypeOther   NotificationType = "other"
)

// Notification is an entry in a user's append-only message log.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewNotification returns an unread notification.
func NewNotification(userID, message string, typ NotificationType, createdAt time.Time) *Notification {
	return &Notification{UserID: userID, Message: message, Type: typ, CreatedAt: createdAt}
}

// NotificationRepository defines the interface for notification storage.
// Every operation is scoped to a user; notifications of other users are not found.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, page PaginationParams) ([]*Notification, int, error)
	MarkRead(ctx context.Context, userID, id string) (*Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int, error)
}

// NotificationService writes booking notifications and serves a user's inbox.
type NotificationService interface {
	NotifyBooking(ctx context.Context, evt BookingEvent) (*Notification, error)
	List(ctx context.Context, userID string, page PaginationParams) ([]*Notification, int, error)
	MarkRead(ctx context.Context, userID, id string) (*Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}
