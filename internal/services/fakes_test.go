package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"eventticketing/internal/domain"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory stand-in for the database shared by the fake
// repositories. Its mutex plays the role of the row lock taken by the
// conditional UPDATE statements.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	events   map[string]*domain.Event
	bookings map[string]*domain.Booking
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*domain.User),
		events:   make(map[string]*domain.Event),
		bookings: make(map[string]*domain.Booking),
	}
}

func (m *memStore) addUser(name string, role domain.Role) domain.Principal {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.users[id] = &domain.User{ID: id, Name: name, Email: strings.ToLower(name) + "@example.com", Role: role}
	return domain.Principal{ID: id, Role: role}
}

func (m *memStore) addEvent(organizerID string, title string, price float64, capacity int, status domain.EventStatus) *domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := domain.NewEvent(organizerID, title, "", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), "19:30", "Hall",
		domain.CategoryConcert, "", price, capacity, time.Now())
	e.ID = uuid.NewString()
	e.Status = status
	m.events[e.ID] = e
	return e
}

func (m *memStore) available(eventID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[eventID].AvailableTickets
}

// confirmedTickets sums the tickets of confirmed bookings for an event.
func (m *memStore) confirmedTickets(eventID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, b := range m.bookings {
		if b.EventID == eventID && b.Status == domain.BookingStatusConfirmed {
			total += b.TicketsBooked
		}
	}
	return total
}

func (m *memStore) detail(b *domain.Booking) *domain.BookingDetail {
	d := &domain.BookingDetail{Booking: *b}
	if e, ok := m.events[b.EventID]; ok {
		d.Event = &domain.BookingEventSummary{
			ID: e.ID, Title: e.Title, Date: e.Date, Time: e.Time, Location: e.Location,
			Price: e.Price, OrganizerID: e.OrganizerID,
		}
	}
	if u, ok := m.users[b.UserID]; ok {
		d.User = &domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return d
}

// fakeBookingRepo implements domain.BookingRepository on a memStore.
type fakeBookingRepo struct {
	store *memStore

	mu        sync.Mutex
	conflicts int // number of upcoming calls that fail with ErrConflict
	calls     int
	err       error
}

func newFakeBookingRepo(store *memStore) *fakeBookingRepo {
	return &fakeBookingRepo{store: store}
}

func (f *fakeBookingRepo) injected() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	if f.conflicts > 0 {
		f.conflicts--
		return domain.ErrConflict
	}
	return nil
}

func (f *fakeBookingRepo) Create(ctx context.Context, userID, eventID string, tickets int, bookedAt time.Time) (*domain.BookingDetail, error) {
	if err := f.injected(); err != nil {
		return nil, err
	}
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	switch {
	case !ok:
		return nil, domain.ErrNotFound
	case e.Status != domain.EventStatusUpcoming:
		return nil, domain.ErrInvalidState
	case e.AvailableTickets < tickets:
		return nil, domain.ErrInsufficientInventory
	}
	e.AvailableTickets -= tickets
	b := &domain.Booking{
		ID: uuid.NewString(), UserID: userID, EventID: eventID, TicketsBooked: tickets,
		TotalAmount: e.Price * float64(tickets), BookingDate: bookedAt, Status: domain.BookingStatusConfirmed,
	}
	m.bookings[b.ID] = b
	return m.detail(b), nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id string) (*domain.BookingDetail, error) {
	if err := f.injected(); err != nil {
		return nil, err
	}
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if b.Status != domain.BookingStatusConfirmed {
		return nil, domain.ErrAlreadyCancelled
	}
	b.Status = domain.BookingStatusCancelled
	if e, ok := m.events[b.EventID]; ok {
		e.AvailableTickets += b.TicketsBooked
	}
	return m.detail(b), nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*domain.BookingDetail, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.detail(b), nil
}

func (f *fakeBookingRepo) List(ctx context.Context, scope domain.BookingScope) ([]*domain.BookingDetail, error) {
	m := f.store
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.BookingDetail, 0)
	for _, b := range m.bookings {
		d := m.detail(b)
		if scope.UserID != "" && b.UserID != scope.UserID {
			continue
		}
		if scope.OrganizerID != "" && (d.Event == nil || d.Event.OrganizerID != scope.OrganizerID) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

// fakeEventRepo implements domain.EventRepository on a memStore.
type fakeEventRepo struct {
	store *memStore
	err   error
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	e.ID = uuid.NewString()
	f.store.events[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if e, ok := f.store.events[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListPublic(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.Event, int, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var matched []*domain.Event
	for _, e := range f.store.events {
		if e.Status != domain.EventStatusUpcoming {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.Title+" "+e.Description+" "+e.Location), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
	total := len(matched)
	start := min(page.Offset(), total)
	end := min(start+page.PageSize, total)
	return matched[start:end], total, nil
}

func (f *fakeEventRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	out := make([]*domain.Event, 0)
	for _, e := range f.store.events {
		if organizerID == "" || e.OrganizerID == organizerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id, organizerID string, patch domain.EventPatch) (*domain.Event, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	e, ok := f.store.events[id]
	if !ok || (organizerID != "" && e.OrganizerID != organizerID) {
		return nil, domain.ErrNotFound
	}
	if patch.Capacity != nil {
		shifted := e.AvailableTickets + (*patch.Capacity - e.Capacity)
		if shifted < 0 {
			return nil, domain.ErrInvalidState
		}
		e.Capacity, e.AvailableTickets = *patch.Capacity, shifted
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Price != nil {
		e.Price = *patch.Price
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	return e, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id, organizerID string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	e, ok := f.store.events[id]
	if !ok || (organizerID != "" && e.OrganizerID != organizerID) {
		return domain.ErrNotFound
	}
	delete(f.store.events, id)
	return nil
}

// fakePublisher records published booking events.
type fakePublisher struct {
	mu     sync.Mutex
	events []domain.BookingEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, evt domain.BookingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, evt)
	return nil
}

func (f *fakePublisher) kinds() []domain.BookingEventKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.BookingEventKind, len(f.events))
	for i, e := range f.events {
		out[i] = e.Kind
	}
	return out
}
