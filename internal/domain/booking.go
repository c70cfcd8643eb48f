package domain

import (
	"context"
	"time"
)

// BookingStatus is the state of a booking. A booking moves from confirmed to
// cancelled exactly once and is never deleted.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a user's claim on a number of an event's tickets.
type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	EventID       string        `json:"eventId"`
	TicketsBooked int           `json:"ticketsBooked"`
	TotalAmount   float64       `json:"totalAmount"`
	BookingDate   time.Time     `json:"bookingDate"`
	Status        BookingStatus `json:"status"`
}

// BookingEventSummary is the event display data joined onto a booking.
type BookingEventSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	OrganizerID string    `json:"organizerId"`
}

// BookingDetail is a booking joined with event and user display fields.
// Event is nil when the referenced event has been deleted.
// swagger:model BookingDetail
type BookingDetail struct {
	Booking
	Event *BookingEventSummary `json:"event,omitempty"`
	User  *UserSummary         `json:"user,omitempty"`
}

// VisibleTo reports whether the principal may read the booking: its owner,
// the organizer of its event, or an admin.
func (b *BookingDetail) VisibleTo(p Principal) bool {
	if p.IsAdmin() || b.UserID == p.ID {
		return true
	}
	return b.Event != nil && b.Event.OrganizerID == p.ID
}

// BookingScope restricts a booking listing. Empty fields are not applied.
type BookingScope struct {
	UserID      string
	OrganizerID string
}

// BookingRepository is the booking ledger. Create and Cancel are the atomic
// units of the inventory coordinator: each changes the event counter and the
// ledger in one transaction or not at all.
type BookingRepository interface {
	// Create reserves tickets on an upcoming event and records a confirmed booking.
	// Fails with ErrNotFound, ErrInvalidState or ErrInsufficientInventory.
	Create(ctx context.Context, userID, eventID string, tickets int, bookedAt time.Time) (*BookingDetail, error)
	// Cancel flips a confirmed booking to cancelled and returns its tickets to the event.
	// Fails with ErrNotFound or ErrAlreadyCancelled.
	Cancel(ctx context.Context, id string) (*BookingDetail, error)
	GetByID(ctx context.Context, id string) (*BookingDetail, error)
	List(ctx context.Context, scope BookingScope) ([]*BookingDetail, error)
}

// BookingService creates, cancels and lists bookings on behalf of a principal.
type BookingService interface {
	Create(ctx context.Context, principal Principal, eventID string, tickets int) (*BookingDetail, error)
	Cancel(ctx context.Context, principal Principal, id string) (*BookingDetail, error)
	List(ctx context.Context, principal Principal) ([]*BookingDetail, error)
	GetByID(ctx context.Context, principal Principal, id string) (*BookingDetail, error)
}

// BookingMetrics observes coordinator outcomes.
type BookingMetrics interface {
	BookingCreated(tickets int)
	BookingCancelled(tickets int)
	BookingRejected(reason string)
	ConflictRetried(operation string)
}
