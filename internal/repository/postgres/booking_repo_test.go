package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventticketing/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var bookingDetailColumns = []string{
	"id", "user_id", "event_id", "tickets_booked", "total_amount", "booking_date", "status",
	"e_id", "title", "date", "time", "location", "price", "organizer_id",
	"name", "email",
}

func bookingDetailRow(status domain.BookingStatus, bookedAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(bookingDetailColumns).AddRow(
		"bk-1", "user-1", "ev-1", 2, 40.0, bookedAt, string(status),
		"ev-1", "Jazz Night", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "19:30", "Main Hall", 20.0, "org-1",
		"Alice", "alice@example.com",
	)
}

func TestBookingRepository_Create(t *testing.T) {
	ctx := context.Background()
	bookedAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		tickets int
		mock    func(mock sqlmock.Sqlmock)
		errIs   error
	}{
		{
			name:    "success reserves and inserts in one transaction",
			tickets: 2,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE events\s+SET available_tickets = available_tickets - \$2`).
					WithArgs("ev-1", 2).
					WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(20.0))
				mock.ExpectQuery(`INSERT INTO bookings`).
					WithArgs("user-1", "ev-1", 2, 40.0, bookedAt, "confirmed").
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("bk-1"))
				mock.ExpectQuery(`SELECT b.id, b.user_id`).
					WithArgs("bk-1").
					WillReturnRows(bookingDetailRow(domain.BookingStatusConfirmed, bookedAt))
				mock.ExpectCommit()
			},
		},
		{
			name:    "insufficient inventory rolls back",
			tickets: 2,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE events`).
					WithArgs("ev-1", 2).
					WillReturnRows(sqlmock.NewRows([]string{"price"}))
				mock.ExpectQuery(`SELECT status, available_tickets FROM events`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"status", "available_tickets"}).AddRow("upcoming", 1))
				mock.ExpectRollback()
			},
			errIs: domain.ErrInsufficientInventory,
		},
		{
			name:    "event not upcoming",
			tickets: 1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE events`).
					WithArgs("ev-1", 1).
					WillReturnRows(sqlmock.NewRows([]string{"price"}))
				mock.ExpectQuery(`SELECT status, available_tickets FROM events`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"status", "available_tickets"}).AddRow("past", 10))
				mock.ExpectRollback()
			},
			errIs: domain.ErrInvalidState,
		},
		{
			name:    "refused while tickets were released concurrently is a conflict",
			tickets: 2,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE events`).
					WithArgs("ev-1", 2).
					WillReturnRows(sqlmock.NewRows([]string{"price"}))
				mock.ExpectQuery(`SELECT status, available_tickets FROM events`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"status", "available_tickets"}).AddRow("upcoming", 3))
				mock.ExpectRollback()
			},
			errIs: domain.ErrConflict,
		},
		{
			name:    "event missing",
			tickets: 1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE events`).
					WillReturnRows(sqlmock.NewRows([]string{"price"}))
				mock.ExpectQuery(`SELECT status, available_tickets FROM events`).
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			errIs: domain.ErrNotFound,
		},
		{
			name:    "serialization failure maps to conflict",
			tickets: 1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE events`).
					WillReturnError(&pq.Error{Code: "40001"})
				mock.ExpectRollback()
			},
			errIs: domain.ErrConflict,
		},
		{
			name:    "insert failure rolls back the reservation",
			tickets: 1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE events`).
					WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(20.0))
				mock.ExpectQuery(`INSERT INTO bookings`).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			errIs: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewBookingRepository(db)
			got, err := repo.Create(ctx, "user-1", "ev-1", tt.tickets, bookedAt)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				require.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.Equal(t, "bk-1", got.ID)
				require.Equal(t, 40.0, got.TotalAmount)
				require.Equal(t, domain.BookingStatusConfirmed, got.Status)
				require.Equal(t, "Jazz Night", got.Event.Title)
				require.Equal(t, "Alice", got.User.Name)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepository_Cancel(t *testing.T) {
	ctx := context.Background()
	bookedAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		errIs error
	}{
		{
			name: "success refunds the event",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE bookings SET status = \$2`).
					WithArgs("bk-1", "cancelled", "confirmed").
					WillReturnRows(sqlmock.NewRows([]string{"event_id", "tickets_booked"}).AddRow("ev-1", 2))
				mock.ExpectExec(`UPDATE events SET available_tickets = available_tickets \+ \$2`).
					WithArgs("ev-1", 2).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`SELECT b.id, b.user_id`).
					WithArgs("bk-1").
					WillReturnRows(bookingDetailRow(domain.BookingStatusCancelled, bookedAt))
				mock.ExpectCommit()
			},
		},
		{
			name: "already cancelled",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE bookings`).
					WillReturnRows(sqlmock.NewRows([]string{"event_id", "tickets_booked"}))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("bk-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
				mock.ExpectRollback()
			},
			errIs: domain.ErrAlreadyCancelled,
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE bookings`).
					WillReturnRows(sqlmock.NewRows([]string{"event_id", "tickets_booked"}))
				mock.ExpectQuery(`SELECT EXISTS`).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectRollback()
			},
			errIs: domain.ErrNotFound,
		},
		{
			name: "refund failure rolls back the status change",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE bookings`).
					WillReturnRows(sqlmock.NewRows([]string{"event_id", "tickets_booked"}).AddRow("ev-1", 2))
				mock.ExpectExec(`UPDATE events`).
					WillReturnError(&pq.Error{Code: "40P01"})
				mock.ExpectRollback()
			},
			errIs: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewBookingRepository(db)
			got, err := repo.Cancel(ctx, "bk-1")
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				require.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.Equal(t, domain.BookingStatusCancelled, got.Status)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepository_List(t *testing.T) {
	ctx := context.Background()
	bookedAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		scope domain.BookingScope
		mock  func(mock sqlmock.Sqlmock)
	}{
		{
			name:  "user scope",
			scope: domain.BookingScope{UserID: "user-1"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE b.user_id = \$1 ORDER BY b.booking_date DESC`).
					WithArgs("user-1").
					WillReturnRows(bookingDetailRow(domain.BookingStatusConfirmed, bookedAt))
			},
		},
		{
			name:  "organizer scope",
			scope: domain.BookingScope{OrganizerID: "org-1"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE e.organizer_id = \$1 ORDER BY b.booking_date DESC`).
					WithArgs("org-1").
					WillReturnRows(bookingDetailRow(domain.BookingStatusConfirmed, bookedAt))
			},
		},
		{
			name:  "no scope lists all",
			scope: domain.BookingScope{},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`LEFT JOIN users u ON u.id = b.user_id\s+ORDER BY b.booking_date DESC`).
					WithoutArgs().
					WillReturnRows(bookingDetailRow(domain.BookingStatusConfirmed, bookedAt))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewBookingRepository(db).List(ctx, tt.scope)
			require.NoError(t, err)
			require.Len(t, got, 1)
			require.Equal(t, "org-1", got[0].Event.OrganizerID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepository_GetByID_DeletedEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT b.id, b.user_id`).
		WithArgs("bk-1").
		WillReturnRows(sqlmock.NewRows(bookingDetailColumns).AddRow(
			"bk-1", "user-1", "ev-gone", 1, 20.0, time.Now(), "confirmed",
			nil, nil, nil, nil, nil, nil, nil,
			"Alice", "alice@example.com",
		))

	got, err := NewBookingRepository(db).GetByID(context.Background(), "bk-1")
	require.NoError(t, err)
	require.Nil(t, got.Event)
	require.Equal(t, "ev-gone", got.EventID)
	require.NoError(t, mock.ExpectationsWereMet())
}
