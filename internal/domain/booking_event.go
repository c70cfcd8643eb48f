package domain

import (
	"context"
	"time"
)

// BookingEventKind names a booking state change. It doubles as the message topic.
type BookingEventKind string

const (
	BookingConfirmed BookingEventKind = "booking.confirmed"
	BookingCancelled BookingEventKind = "booking.cancelled"
)

// BookingEvent is emitted after a booking transaction commits.
type BookingEvent struct {
	Kind          BookingEventKind `json:"kind"`
	BookingID     string           `json:"bookingId"`
	UserID        string           `json:"userId"`
	UserName      string           `json:"userName"`
	UserEmail     string           `json:"userEmail"`
	EventID       string           `json:"eventId"`
	EventTitle    string           `json:"eventTitle"`
	EventDate     time.Time        `json:"eventDate"`
	TicketsBooked int              `json:"ticketsBooked"`
	TotalAmount   float64          `json:"totalAmount"`
	OccurredAt    time.Time        `json:"occurredAt"`
}

// NewBookingEvent builds the event for a booking detail.
func NewBookingEvent(kind BookingEventKind, b *BookingDetail, occurredAt time.Time) BookingEvent {
	evt := BookingEvent{
		Kind:          kind,
		BookingID:     b.ID,
		UserID:        b.UserID,
		EventID:       b.EventID,
		TicketsBooked: b.TicketsBooked,
		TotalAmount:   b.TotalAmount,
		OccurredAt:    occurredAt,
	}
	if b.Event != nil {
		evt.EventTitle = b.Event.Title
		evt.EventDate = b.Event.Date
	}
	if b.User != nil {
		evt.UserName = b.User.Name
		evt.UserEmail = b.User.Email
	}
	return evt
}

// BookingEventPublisher hands booking events to their consumers.
type BookingEventPublisher interface {
	Publish(ctx context.Context, evt BookingEvent) error
}
