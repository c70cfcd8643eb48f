package services

import (
	"context"
	"fmt"
	"time"

	"eventticketing/internal/domain"
)

const (
	dashboardDays               = 30
	dashboardPopularEvents      = 10
	organizerRecentBookings     = 10
	userDashboardRecentBookings = 5
)

type dashboardService struct {
	repo           domain.DashboardRepository
	contextTimeout time.Duration
}

func NewDashboardService(repo domain.DashboardRepository, timeout time.Duration) domain.DashboardService {
	return &dashboardService{repo: repo, contextTimeout: timeout}
}

func (s *dashboardService) Admin(ctx context.Context) (*domain.AdminDashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	summary, err := s.repo.AdminSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin summary: %w", err)
	}
	daily, err := s.repo.DailyBookings(ctx, dashboardDays)
	if err != nil {
		return nil, fmt.Errorf("daily bookings: %w", err)
	}
	popular, err := s.repo.PopularEvents(ctx, dashboardPopularEvents)
	if err != nil {
		return nil, fmt.Errorf("popular events: %w", err)
	}
	roles, err := s.repo.UsersByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("users by role: %w", err)
	}
	categories, err := s.repo.EventsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("events by category: %w", err)
	}
	return &domain.AdminDashboard{
		Summary: summary,
		Charts: domain.AdminCharts{
			RecentBookings: daily,
			PopularEvents:  popular,
			UserStats:      roles,
			EventStats:     categories,
		},
	}, nil
}

func (s *dashboardService) Organizer(ctx context.Context, organizerID string) (*domain.OrganizerDashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	summary, err := s.repo.OrganizerSummary(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("organizer summary: %w", err)
	}
	recent, err := s.repo.RecentOrganizerBookings(ctx, organizerID, organizerRecentBookings)
	if err != nil {
		return nil, fmt.Errorf("recent organizer bookings: %w", err)
	}
	stats, err := s.repo.OrganizerEventStats(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("organizer event stats: %w", err)
	}
	return &domain.OrganizerDashboard{
		Summary:            summary,
		RecentBookings:     recent,
		EventsWithBookings: stats,
	}, nil
}

func (s *dashboardService) User(ctx context.Context, userID string) (*domain.UserDashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	summary, err := s.repo.UserSummary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user summary: %w", err)
	}
	recent, err := s.repo.RecentUserBookings(ctx, userID, userDashboardRecentBookings)
	if err != nil {
		return nil, fmt.Errorf("recent user bookings: %w", err)
	}
	return &domain.UserDashboard{Summary: summary, RecentBookings: recent}, nil
}
