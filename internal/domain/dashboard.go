package domain

import "context"

// DailyBookings is the confirmed booking count and revenue for one calendar day.
type DailyBookings struct {
	Date    string  `json:"date"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// PopularEvent ranks an event by confirmed bookings.
type PopularEvent struct {
	EventID       string  `json:"eventId"`
	Title         string  `json:"title"`
	TotalBookings int     `json:"totalBookings"`
	TotalTickets  int     `json:"totalTickets"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// RoleCount is the number of users holding a role.
type RoleCount struct {
	Role  Role `json:"role"`
	Count int  `json:"count"`
}

// CategoryCount is the number of events in a category.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

type AdminSummary struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalEvents   int     `json:"totalEvents"`
	TotalBookings int     `json:"totalBookings"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

type AdminCharts struct {
	RecentBookings []DailyBookings `json:"recentBookings"`
	PopularEvents  []PopularEvent  `json:"popularEvents"`
	UserStats      []RoleCount     `json:"userStats"`
	EventStats     []CategoryCount `json:"eventStats"`
}

// AdminDashboard aggregates the whole system.
type AdminDashboard struct {
	Summary AdminSummary `json:"summary"`
	Charts  AdminCharts  `json:"charts"`
}

type OrganizerSummary struct {
	TotalEvents    int     `json:"totalEvents"`
	UpcomingEvents int     `json:"upcomingEvents"`
	TotalBookings  int     `json:"totalBookings"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

// EventBookingStats is one organizer event with its booking totals.
// TotalBookings counts every booking; TotalTicketsSold only confirmed ones.
type EventBookingStats struct {
	EventID          string      `json:"eventId"`
	Title            string      `json:"title"`
	Date             string      `json:"date"`
	Status           EventStatus `json:"status"`
	AvailableTickets int         `json:"availableTickets"`
	TotalBookings    int         `json:"totalBookings"`
	TotalTicketsSold int         `json:"totalTicketsSold"`
}

// OrganizerDashboard aggregates the events of one organizer.
type OrganizerDashboard struct {
	Summary            OrganizerSummary    `json:"summary"`
	RecentBookings     []*BookingDetail    `json:"recentBookings"`
	EventsWithBookings []EventBookingStats `json:"eventsWithBookings"`
}

type UserSummaryStats struct {
	TotalBookings       int     `json:"totalBookings"`
	UpcomingBookings    int     `json:"upcomingBookings"`
	TotalSpent          float64 `json:"totalSpent"`
	UnreadNotifications int     `json:"unreadNotifications"`
}

// UserDashboard aggregates the bookings and inbox of one user.
type UserDashboard struct {
	Summary        UserSummaryStats `json:"summary"`
	RecentBookings []*BookingDetail `json:"recentBookings"`
}

// DashboardRepository runs the aggregate queries behind the dashboards.
type DashboardRepository interface {
	AdminSummary(ctx context.Context) (AdminSummary, error)
	DailyBookings(ctx context.Context, days int) ([]DailyBookings, error)
	PopularEvents(ctx context.Context, limit int) ([]PopularEvent, error)
	UsersByRole(ctx context.Context) ([]RoleCount, error)
	EventsByCategory(ctx context.Context) ([]CategoryCount, error)
	OrganizerSummary(ctx context.Context, organizerID string) (OrganizerSummary, error)
	RecentOrganizerBookings(ctx context.Context, organizerID string, limit int) ([]*BookingDetail, error)
	OrganizerEventStats(ctx context.Context, organizerID string) ([]EventBookingStats, error)
	UserSummary(ctx context.Context, userID string) (UserSummaryStats, error)
	RecentUserBookings(ctx context.Context, userID string, limit int) ([]*BookingDetail, error)
}

// DashboardService builds the role-specific dashboards.
type DashboardService interface {
	Admin(ctx context.Context) (*AdminDashboard, error)
	Organizer(ctx context.Context, organizerID string) (*OrganizerDashboard, error)
	User(ctx context.Context, userID string) (*UserDashboard, error)
}
