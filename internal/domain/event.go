package domain

import (
	"context"
	"strings"
	"time"
)

// Category is the closed set of event categories.
type Category string

const (
	CategoryConcert    Category = "concert"
	CategoryConference Category = "conference"
	CategoryWorkshop   Category = "workshop"
	CategorySports     Category = "sports"
	CategoryFestival   Category = "festival"
	CategoryOther      Category = "other"
)

// ParseCategory normalizes s and reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryConcert, CategoryConference, CategoryWorkshop, CategorySports, CategoryFestival, CategoryOther:
		return c, true
	}
	return "", false
}

// EventStatus is the lifecycle state of an event. Only upcoming events can be booked.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusPast      EventStatus = "past"
	EventStatusCancelled EventStatus = "cancelled"
)

// ParseEventStatus normalizes s and reports whether it names a known status.
func ParseEventStatus(s string) (EventStatus, bool) {
	switch st := EventStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case EventStatusUpcoming, EventStatusPast, EventStatusCancelled:
		return st, true
	}
	return "", false
}

// UserSummary is the minimal user display data joined onto other records.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event is a bookable occurrence with a finite ticket inventory.
// AvailableTickets stays within [0, Capacity]; it is only changed by the
// booking service or by a capacity edit that shifts it by the same delta.
// swagger:model Event
type Event struct {
	ID               string       `json:"id"`
	OrganizerID      string       `json:"organizerId"`
	Organizer        *UserSummary `json:"organizer,omitempty"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Date             time.Time    `json:"date"`
	Time             string       `json:"time"`
	Location         string       `json:"location"`
	Category         Category     `json:"category"`
	Image            string       `json:"image,omitempty"`
	Price            float64      `json:"price"`
	Capacity         int          `json:"capacity"`
	AvailableTickets int          `json:"availableTickets"`
	Status           EventStatus  `json:"status"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// NewEvent returns an upcoming Event whose whole capacity is available.
// ID is typically set by the repository on create.
func NewEvent(organizerID, title, description string, date time.Time, timeOfDay, location string,
	category Category, image string, price float64, capacity int, createdAt time.Time) *Event {
	return &Event{
		OrganizerID:      organizerID,
		Title:            title,
		Description:      description,
		Date:             date,
		Time:             timeOfDay,
		Location:         location,
		Category:         category,
		Image:            image,
		Price:            price,
		Capacity:         capacity,
		AvailableTickets: capacity,
		Status:           EventStatusUpcoming,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
}

// Bookable reports whether the event currently accepts bookings.
func (e *Event) Bookable() bool { return e.Status == EventStatusUpcoming }

// EventFilter narrows the public event listing.
type EventFilter struct {
	Category Category
	Search   string
}

// EventPatch holds the editable event fields; nil fields are left unchanged.
// Capacity edits shift AvailableTickets by the same delta.
type EventPatch struct {
	Title       *string
	Description *string
	Date        *time.Time
	Time        *string
	Location    *string
	Category    *Category
	Image       *string
	Price       *float64
	Status      *EventStatus
	Capacity    *int
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.Time == nil &&
		p.Location == nil && p.Category == nil && p.Image == nil && p.Price == nil &&
		p.Status == nil && p.Capacity == nil
}

// EventRepository defines the interface for event storage.
// An empty organizerID on Update, Delete and ListByOrganizer means "any organizer".
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListPublic(ctx context.Context, filter EventFilter, page PaginationParams) ([]*Event, int, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]*Event, error)
	Update(ctx context.Context, id, organizerID string, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id, organizerID string) error
}

// EventService defines event browsing and organizer/admin management.
type EventService interface {
	ListPublic(ctx context.Context, filter EventFilter, page PaginationParams) ([]*Event, int, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	ListManaged(ctx context.Context, principal Principal) ([]*Event, error)
	Create(ctx context.Context, principal Principal, event *Event) error
	Update(ctx context.Context, principal Principal, id string, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, principal Principal, id string) error
}
