package service

import (
	"context"

	"github.com/alumnet/alumni-backend/internal/model"
)

// recentRegistrations is the number of newest accounts shown on the dashboard.
const recentRegistrations = 5

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	accounts AccountStore
	requests MentorshipStore
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(accounts AccountStore, requests MentorshipStore) *DashboardService {
	return &DashboardService{accounts: accounts, requests: requests}
}

// GetDashboardData gathers account and mentorship counts.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*model.DashboardStats, error) {
	counts, err := s.accounts.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.DashboardStats{
		AccountsByRole:     make(map[model.Role]int, len(model.AllRoles)),
		RecentRegistration: make([]model.AccountSummary, 0, recentRegistrations),
	}
	for _, r := range model.AllRoles {
		stats.AccountsByRole[r] = 0
	}
	for _, c := range counts {
		stats.AccountsByRole[c.Role] = c.Total
		stats.TotalAccounts += c.Total
		stats.EligibleMentors += c.Mentors
		stats.CompletedProfiles += c.Completed
	}

	stats.RequestsByStatus, err = s.requests.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.accounts.Recent(ctx, recentRegistrations)
	if err != nil {
		return nil, err
	}
	for i := range recent {
		stats.RecentRegistration = append(stats.RecentRegistration, recent[i].Summary())
	}

	return stats, nil
}
