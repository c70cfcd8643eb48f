package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventticketing/internal/domain"
)

const eventSelect = `
		SELECT e.id, e.organizer_id, u.name, u.email, e.title, e.description, e.date, e.time,
		       e.location, e.category, e.image, e.price, e.capacity, e.available_tickets,
		       e.status, e.created_at, e.updated_at
		FROM events e
		LEFT JOIN users u ON u.id = e.organizer_id
	`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var orgName, orgEmail, image sql.NullString
	err := row.Scan(
		&e.ID, &e.OrganizerID, &orgName, &orgEmail, &e.Title, &e.Description, &e.Date, &e.Time,
		&e.Location, &e.Category, &image, &e.Price, &e.Capacity, &e.AvailableTickets,
		&e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if orgName.Valid {
		e.Organizer = &domain.UserSummary{ID: e.OrganizerID, Name: orgName.String, Email: orgEmail.String}
	}
	if image.Valid {
		e.Image = image.String
	}
	return e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (organizer_id, title, description, date, time, location, category, image,
		                    price, capacity, available_tickets, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10, $11, $12, $13)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.OrganizerID, e.Title, e.Description, e.Date, e.Time, e.Location, e.Category, nullString(e.Image),
		e.Price, e.Capacity, e.Status, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return mapError(err)
	}
	e.AvailableTickets = e.Capacity
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx, eventSelect+`WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, mapError(err)
	}
	return e, nil
}

// escapeLike escapes the LIKE wildcards so search text matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *eventRepository) ListPublic(ctx context.Context, filter domain.EventFilter, page domain.PaginationParams) ([]*domain.Event, int, error) {
	where := []string{"e.status = 'upcoming'"}
	args := []any{}
	n := 1
	if filter.Category != "" {
		where = append(where, fmt.Sprintf("e.category = $%d", n))
		args = append(args, filter.Category)
		n++
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		where = append(where, fmt.Sprintf("(e.title ILIKE $%[1]d OR e.description ILIKE $%[1]d OR e.location ILIKE $%[1]d)", n))
		args = append(args, "%"+escapeLike(s)+"%")
		n++
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events e`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", mapError(err))
	}

	query := eventSelect + clause + fmt.Sprintf(" ORDER BY e.date ASC, e.created_at ASC LIMIT $%d OFFSET $%d", n, n+1)
	args = append(args, page.PageSize, page.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", mapError(err))
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	query := eventSelect
	args := []any{}
	if organizerID != "" {
		query += `WHERE e.organizer_id = $1`
		args = append(args, organizerID)
	}
	query += ` ORDER BY e.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update applies the patch in one statement. A capacity change moves
// available_tickets by the same delta; the range CHECK rejects a shrink
// below the number of tickets already sold.
func (r *eventRepository) Update(ctx context.Context, id, organizerID string, patch domain.EventPatch) (*domain.Event, error) {
	if patch.Empty() {
		e, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if organizerID != "" && e.OrganizerID != organizerID {
			return nil, domain.ErrNotFound
		}
		return e, nil
	}

	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Date != nil {
		set("date", *patch.Date)
	}
	if patch.Time != nil {
		set("time", *patch.Time)
	}
	if patch.Location != nil {
		set("location", *patch.Location)
	}
	if patch.Category != nil {
		set("category", *patch.Category)
	}
	if patch.Image != nil {
		set("image", nullString(*patch.Image))
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Capacity != nil {
		setClauses = append(setClauses,
			fmt.Sprintf("capacity = $%d", n),
			fmt.Sprintf("available_tickets = available_tickets + ($%d - capacity)", n))
		args = append(args, *patch.Capacity)
		n++
	}

	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), n)
	args = append(args, id)
	n++
	if organizerID != "" {
		query += fmt.Sprintf(` AND organizer_id = $%d`, n)
		args = append(args, organizerID)
	}
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if rows == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *eventRepository) Delete(ctx context.Context, id, organizerID string) error {
	query := `DELETE FROM events WHERE id = $1`
	args := []any{id}
	if organizerID != "" {
		query += ` AND organizer_id = $2`
		args = append(args, organizerID)
	}
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
