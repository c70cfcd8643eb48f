package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventticketing/internal/delivery/http/helpers"
	"eventticketing/internal/delivery/http/middleware"
	"eventticketing/internal/domain"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newRequest builds a request with an optional JSON body, principal and path id.
func newRequest(method, target, body string, principal *domain.Principal, id string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "http://test"+target, r)
	if principal != nil {
		req = req.WithContext(middleware.SetPrincipal(req.Context(), *principal))
	}
	if id != "" {
		req.SetPathValue("id", id)
	}
	return req
}

// decode unpacks the envelope and, on success, its data into dest.
func decode(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	if envelope.Error == nil && dest != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, dest))
	}
	return envelope.Error
}

var (
	userPrincipal      = domain.Principal{ID: "user-1", Role: domain.RoleUser}
	organizerPrincipal = domain.Principal{ID: "org-1", Role: domain.RoleOrganizer}
	adminPrincipal     = domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}
)

type fakeUserService struct {
	registered *domain.User
	lastRole   domain.Role
	token      string
	user       *domain.User
	err        error
}

func (f *fakeUserService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	f.lastRole = role
	if f.err != nil {
		return nil, f.err
	}
	return f.registered, nil
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.user, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUserService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	return f.err
}

type fakeEventService struct {
	events    []*domain.Event
	total     int
	event     *domain.Event
	err       error
	filter    domain.EventFilter
	page      domain.PaginationParams
	created   *domain.Event
	patch     domain.EventPatch
	deletedID string
}

func (f *fakeEventService) ListPublic(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.Event, int, error) {
	f.filter, f.page = filter, page
	return f.events, f.total, f.err
}

func (f *fakeEventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) ListManaged(ctx context.Context, principal domain.Principal) ([]*domain.Event, error) {
	return f.events, f.err
}

func (f *fakeEventService) Create(ctx context.Context, principal domain.Principal, event *domain.Event) error {
	f.created = event
	if f.err != nil {
		return f.err
	}
	event.ID = "event-1"
	return nil
}

func (f *fakeEventService) Update(ctx context.Context, principal domain.Principal, id string, patch domain.EventPatch) (*domain.Event, error) {
	f.patch = patch
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) Delete(ctx context.Context, principal domain.Principal, id string) error {
	f.deletedID = id
	return f.err
}

type fakeBookingService struct {
	booking   *domain.BookingDetail
	bookings  []*domain.BookingDetail
	err       error
	principal domain.Principal
	eventID   string
	tickets   int
	id        string
}

func (f *fakeBookingService) Create(ctx context.Context, principal domain.Principal, eventID string, tickets int) (*domain.BookingDetail, error) {
	f.principal, f.eventID, f.tickets = principal, eventID, tickets
	if f.err != nil {
		return nil, f.err
	}
	return f.booking, nil
}

func (f *fakeBookingService) Cancel(ctx context.Context, principal domain.Principal, id string) (*domain.BookingDetail, error) {
	f.principal, f.id = principal, id
	if f.err != nil {
		return nil, f.err
	}
	return f.booking, nil
}

func (f *fakeBookingService) List(ctx context.Context, principal domain.Principal) ([]*domain.BookingDetail, error) {
	f.principal = principal
	return f.bookings, f.err
}

func (f *fakeBookingService) GetByID(ctx context.Context, principal domain.Principal, id string) (*domain.BookingDetail, error) {
	f.principal, f.id = principal, id
	if f.err != nil {
		return nil, f.err
	}
	return f.booking, nil
}

type fakeNotificationService struct {
	list   []*domain.Notification
	total  int
	count  int
	marked *domain.Notification
	err    error
	userID string
	page   domain.PaginationParams
}

func (f *fakeNotificationService) NotifyBooking(ctx context.Context, evt domain.BookingEvent) (*domain.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationService) List(ctx context.Context, userID string, page domain.PaginationParams) ([]*domain.Notification, int, error) {
	f.userID, f.page = userID, page
	return f.list, f.total, f.err
}

func (f *fakeNotificationService) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.marked, nil
}

func (f *fakeNotificationService) MarkAllRead(ctx context.Context, userID string) error {
	f.userID = userID
	return f.err
}

func (f *fakeNotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	f.userID = userID
	return f.count, f.err
}

type fakeDashboardService struct {
	admin     *domain.AdminDashboard
	organizer *domain.OrganizerDashboard
	user      *domain.UserDashboard
	err       error
	id        string
}

func (f *fakeDashboardService) Admin(ctx context.Context) (*domain.AdminDashboard, error) {
	return f.admin, f.err
}

func (f *fakeDashboardService) Organizer(ctx context.Context, organizerID string) (*domain.OrganizerDashboard, error) {
	f.id = organizerID
	return f.organizer, f.err
}

func (f *fakeDashboardService) User(ctx context.Context, userID string) (*domain.UserDashboard, error) {
	f.id = userID
	return f.user, f.err
}
