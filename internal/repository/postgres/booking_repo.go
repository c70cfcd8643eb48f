package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"eventticketing/internal/domain"
)

const bookingDetailSelect = `
		SELECT b.id, b.user_id, b.event_id, b.tickets_booked, b.total_amount, b.booking_date, b.status,
		       e.id, e.title, e.date, e.time, e.location, e.price, e.organizer_id,
		       u.name, u.email
		FROM bookings b
		LEFT JOIN events e ON e.id = b.event_id
		LEFT JOIN users u ON u.id = b.user_id
	`

// reserveTickets decrements inventory only when the event is bookable and has
// enough tickets left. Zero rows means the reservation was refused.
const reserveTickets = `
		UPDATE events
		SET available_tickets = available_tickets - $2, updated_at = NOW()
		WHERE id = $1 AND status = 'upcoming' AND available_tickets >= $2
		RETURNING price
	`

type bookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) domain.BookingRepository {
	return &bookingRepository{DB: db}
}

func scanBookingDetail(row rowScanner) (*domain.BookingDetail, error) {
	b := &domain.BookingDetail{}
	var (
		eventID, title, timeOfDay, location, organizerID sql.NullString
		date                                             sql.NullTime
		price                                            sql.NullFloat64
		userName, userEmail                              sql.NullString
	)
	err := row.Scan(
		&b.ID, &b.UserID, &b.EventID, &b.TicketsBooked, &b.TotalAmount, &b.BookingDate, &b.Status,
		&eventID, &title, &date, &timeOfDay, &location, &price, &organizerID,
		&userName, &userEmail,
	)
	if err != nil {
		return nil, err
	}
	if eventID.Valid {
		b.Event = &domain.BookingEventSummary{
			ID:          eventID.String,
			Title:       title.String,
			Date:        date.Time,
			Time:        timeOfDay.String,
			Location:    location.String,
			Price:       price.Float64,
			OrganizerID: organizerID.String,
		}
	}
	if userName.Valid {
		b.User = &domain.UserSummary{ID: b.UserID, Name: userName.String, Email: userEmail.String}
	}
	return b, nil
}

func getBookingDetail(ctx context.Context, q queryer, id string) (*domain.BookingDetail, error) {
	b, err := scanBookingDetail(q.QueryRowContext(ctx, bookingDetailSelect+`WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError(err)
	}
	return b, nil
}

func listBookingDetails(ctx context.Context, q queryer, query string, args ...any) ([]*domain.BookingDetail, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	bookings := make([]*domain.BookingDetail, 0)
	for rows.Next() {
		b, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Create runs the reservation and the ledger insert in one transaction.
func (r *bookingRepository) Create(ctx context.Context, userID, eventID string, tickets int, bookedAt time.Time) (detail *domain.BookingDetail, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var price float64
	err = tx.QueryRowContext(ctx, reserveTickets, eventID, tickets).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		err = classifyRefusedReservation(ctx, tx, eventID, tickets)
		return nil, err
	}
	if err != nil {
		err = mapError(err)
		return nil, fmt.Errorf("reserve tickets: %w", err)
	}

	var id string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, event_id, tickets_booked, total_amount, booking_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, userID, eventID, tickets, roundCents(price*float64(tickets)), bookedAt, domain.BookingStatusConfirmed).Scan(&id)
	if err != nil {
		err = mapError(err)
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	detail, err = getBookingDetail(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = mapError(err)
		return nil, fmt.Errorf("commit booking: %w", err)
	}
	return detail, nil
}

// classifyRefusedReservation explains why the conditional decrement matched no row.
// If the event now has enough tickets a concurrent cancel raced the check and the
// caller may retry.
func classifyRefusedReservation(ctx context.Context, tx *sql.Tx, eventID string, tickets int) error {
	var status domain.EventStatus
	var available int
	err := tx.QueryRowContext(ctx, `SELECT status, available_tickets FROM events WHERE id = $1`, eventID).Scan(&status, &available)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrNotFound
	case err != nil:
		return mapError(err)
	case status != domain.EventStatusUpcoming:
		return domain.ErrInvalidState
	case available < tickets:
		return domain.ErrInsufficientInventory
	}
	return domain.ErrConflict
}

// Cancel flips the status and refunds the event in one transaction. The
// status guard makes a second cancel of the same booking match no row.
func (r *bookingRepository) Cancel(ctx context.Context, id string) (detail *domain.BookingDetail, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var eventID string
	var tickets int
	err = tx.QueryRowContext(ctx, `
		UPDATE bookings SET status = $2
		WHERE id = $1 AND status = $3
		RETURNING event_id, tickets_booked
	`, id, domain.BookingStatusCancelled, domain.BookingStatusConfirmed).Scan(&eventID, &tickets)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); err != nil {
			err = mapError(err)
			return nil, err
		}
		if !exists {
			err = domain.ErrNotFound
			return nil, err
		}
		err = domain.ErrAlreadyCancelled
		return nil, err
	}
	if err != nil {
		err = mapError(err)
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	// A deleted event has nothing to refund.
	_, err = tx.ExecContext(ctx, `
		UPDATE events SET available_tickets = available_tickets + $2, updated_at = NOW()
		WHERE id = $1
	`, eventID, tickets)
	if err != nil {
		err = mapError(err)
		return nil, fmt.Errorf("refund tickets: %w", err)
	}

	detail, err = getBookingDetail(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = mapError(err)
		return nil, fmt.Errorf("commit cancellation: %w", err)
	}
	return detail, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.BookingDetail, error) {
	return getBookingDetail(ctx, r.DB, id)
}

func (r *bookingRepository) List(ctx context.Context, scope domain.BookingScope) ([]*domain.BookingDetail, error) {
	where := []string{}
	args := []any{}
	if scope.UserID != "" {
		args = append(args, scope.UserID)
		where = append(where, fmt.Sprintf("b.user_id = $%d", len(args)))
	}
	if scope.OrganizerID != "" {
		args = append(args, scope.OrganizerID)
		where = append(where, fmt.Sprintf("e.organizer_id = $%d", len(args)))
	}
	query := bookingDetailSelect
	if len(where) > 0 {
		query += "WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY b.booking_date DESC`
	return listBookingDetails(ctx, r.DB, query, args...)
}
