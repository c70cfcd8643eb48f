package postgres

import (
	"context"
	"database/sql"

	"eventticketing/internal/domain"
)

type dashboardRepository struct {
	DB *sql.DB
}

func NewDashboardRepository(db *sql.DB) domain.DashboardRepository {
	return &dashboardRepository{DB: db}
}

func (r *dashboardRepository) AdminSummary(ctx context.Context) (domain.AdminSummary, error) {
	var s domain.AdminSummary
	err := r.DB.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM users),
		       (SELECT COUNT(*) FROM events),
		       (SELECT COUNT(*) FROM bookings),
		       (SELECT COALESCE(SUM(total_amount), 0) FROM bookings WHERE status = 'confirmed')
	`).Scan(&s.TotalUsers, &s.TotalEvents, &s.TotalBookings, &s.TotalRevenue)
	return s, err
}

// DailyBookings returns the most recent days with confirmed bookings, oldest first.
func (r *dashboardRepository) DailyBookings(ctx context.Context, days int) ([]domain.DailyBookings, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT day, count, revenue FROM (
			SELECT to_char(date_trunc('day', booking_date), 'YYYY-MM-DD') AS day,
			       COUNT(*) AS count,
			       COALESCE(SUM(total_amount), 0) AS revenue
			FROM bookings
			WHERE status = 'confirmed'
			GROUP BY 1
			ORDER BY 1 DESC
			LIMIT $1
		) recent
		ORDER BY day ASC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.DailyBookings, 0)
	for rows.Next() {
		var d domain.DailyBookings
		if err := rows.Scan(&d.Date, &d.Count, &d.Revenue); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *dashboardRepository) PopularEvents(ctx context.Context, limit int) ([]domain.PopularEvent, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT e.id, e.title, COUNT(b.id), COALESCE(SUM(b.tickets_booked), 0), COALESCE(SUM(b.total_amount), 0)
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE b.status = 'confirmed'
		GROUP BY e.id, e.title
		ORDER BY 3 DESC, e.title ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.PopularEvent, 0)
	for rows.Next() {
		var p domain.PopularEvent
		if err := rows.Scan(&p.EventID, &p.Title, &p.TotalBookings, &p.TotalTickets, &p.TotalRevenue); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *dashboardRepository) UsersByRole(ctx context.Context) ([]domain.RoleCount, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role ORDER BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.RoleCount, 0)
	for rows.Next() {
		var c domain.RoleCount
		if err := rows.Scan(&c.Role, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *dashboardRepository) EventsByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT category, COUNT(*) FROM events GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.CategoryCount, 0)
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *dashboardRepository) OrganizerSummary(ctx context.Context, organizerID string) (domain.OrganizerSummary, error) {
	var s domain.OrganizerSummary
	err := r.DB.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM events WHERE organizer_id = $1),
		       (SELECT COUNT(*) FROM events WHERE organizer_id = $1 AND status = 'upcoming'),
		       COUNT(b.id),
		       COALESCE(SUM(b.total_amount), 0)
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE e.organizer_id = $1 AND b.status = 'confirmed'
	`, organizerID).Scan(&s.TotalEvents, &s.UpcomingEvents, &s.TotalBookings, &s.TotalRevenue)
	return s, mapError(err)
}

func (r *dashboardRepository) RecentOrganizerBookings(ctx context.Context, organizerID string, limit int) ([]*domain.BookingDetail, error) {
	return listBookingDetails(ctx, r.DB,
		bookingDetailSelect+`WHERE e.organizer_id = $1 AND b.status = 'confirmed' ORDER BY b.booking_date DESC LIMIT $2`,
		organizerID, limit)
}

func (r *dashboardRepository) OrganizerEventStats(ctx context.Context, organizerID string) ([]domain.EventBookingStats, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT e.id, e.title, to_char(e.date, 'YYYY-MM-DD'), e.status, e.available_tickets,
		       COUNT(b.id),
		       COALESCE(SUM(b.tickets_booked) FILTER (WHERE b.status = 'confirmed'), 0)
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id
		WHERE e.organizer_id = $1
		GROUP BY e.id
		ORDER BY e.date ASC
	`, organizerID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	out := make([]domain.EventBookingStats, 0)
	for rows.Next() {
		var s domain.EventBookingStats
		if err := rows.Scan(&s.EventID, &s.Title, &s.Date, &s.Status, &s.AvailableTickets, &s.TotalBookings, &s.TotalTicketsSold); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *dashboardRepository) UserSummary(ctx context.Context, userID string) (domain.UserSummaryStats, error) {
	var s domain.UserSummaryStats
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'confirmed'),
		       COALESCE(SUM(total_amount) FILTER (WHERE status = 'confirmed'), 0),
		       (SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE)
		FROM bookings
		WHERE user_id = $1
	`, userID).Scan(&s.TotalBookings, &s.UpcomingBookings, &s.TotalSpent, &s.UnreadNotifications)
	return s, mapError(err)
}

func (r *dashboardRepository) RecentUserBookings(ctx context.Context, userID string, limit int) ([]*domain.BookingDetail, error) {
	return listBookingDetails(ctx, r.DB,
		bookingDetailSelect+`WHERE b.user_id = $1 ORDER BY b.booking_date DESC LIMIT $2`,
		userID, limit)
}
