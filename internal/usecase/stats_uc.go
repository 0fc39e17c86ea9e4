package usecase

import (
	"context"
	"time"

	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/domain/ports/repository"
)

// Stats is the admin dashboard snapshot.
type Stats struct {
	TotalUsers            int                  `json:"total_users"`
	TotalCompanies        int                  `json:"total_companies"`
	SubscriptionsByStatus map[model.Status]int `json:"subscriptions_by_status"`
	RevenueMonth          float64              `json:"revenue_month"`
	RevenueYear           float64              `json:"revenue_year"`
}

// StatsUseCase aggregates platform-wide totals for the admin dashboard.
type StatsUseCase interface {
	Totals(ctx context.Context) (*Stats, error)
}

var _ StatsUseCase = (*statsUC)(nil)

type statsUC struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	subs      repository.SubscriptionRepository
}

// NewStatsUseCase constructs the stats use case.
func NewStatsUseCase(
	users repository.UserRepository,
	companies repository.CompanyRepository,
	subs repository.SubscriptionRepository,
) StatsUseCase {
	return &statsUC{users: users, companies: companies, subs: subs}
}

func (s *statsUC) Totals(ctx context.Context) (*Stats, error) {
	users, err := s.users.Count(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	companies, err := s.companies.ListAll(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.subs.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	month, err := s.subs.RevenueSince(ctx, repository.NoTX, now.AddDate(0, -1, 0))
	if err != nil {
		return nil, err
	}
	year, err := s.subs.RevenueSince(ctx, repository.NoTX, now.AddDate(-1, 0, 0))
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalUsers:            users,
		TotalCompanies:        len(companies),
		SubscriptionsByStatus: byStatus,
		RevenueMonth:          month,
		RevenueYear:           year,
	}, nil
}
