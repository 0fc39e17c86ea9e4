package web

import (
	"context"
	"time"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/usecase"
)

// --- Mock use cases ---
//
// Each mock embeds its interface so only the methods a test exercises need
// overriding; calling anything else panics loudly.

type mockUserUC struct {
	usecase.UserUseCase
	users map[string]*model.User // keyed by email, password checked verbatim
}

func (m *mockUserUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, ok := m.users[email]
	if !ok || password != "s3cret-pass" {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (m *mockUserUC) FindByID(ctx context.Context, id string) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

type mockPlanUC struct {
	usecase.PlanUseCase
	plans []*model.Plan
}

func (m *mockPlanUC) List(ctx context.Context) ([]*model.Plan, error) { return m.plans, nil }

func (m *mockPlanUC) Create(ctx context.Context, name string, maxSpaceMB int64, price float64) (*model.Plan, error) {
	return model.NewPlan("plan-new", name, maxSpaceMB, price)
}

type mockSubUC struct {
	usecase.SubscriptionUseCase
	subs  map[string]*model.Subscription
	quote model.RenewalQuote
}

func (m *mockSubUC) Get(ctx context.Context, id string) (*model.Subscription, error) {
	if s, ok := m.subs[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockSubUC) Quote(ctx context.Context, id, planID string, mode model.RenewalMode, discountPct, customPrice float64) (model.RenewalQuote, error) {
	if _, ok := m.subs[id]; !ok {
		return model.RenewalQuote{}, domain.ErrNotFound
	}
	return m.quote, nil
}

func (m *mockSubUC) ListForCompany(ctx context.Context, companyID string) ([]*model.Subscription, error) {
	var out []*model.Subscription
	for _, s := range m.subs {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSubUC) CurrentForCompany(ctx context.Context, companyID string) (*model.Subscription, model.DerivedStatus, error) {
	subs, _ := m.ListForCompany(ctx, companyID)
	if len(subs) == 0 {
		return nil, model.DerivedNone, nil
	}
	return subs[0], subs[0].DerivedStatus(time.Now()), nil
}

type mockCompanyUC struct {
	usecase.CompanyUseCase
	companies map[string]*model.Company
}

func (m *mockCompanyUC) Get(ctx context.Context, id string) (*model.Company, error) {
	if c, ok := m.companies[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

type mockStatsUC struct {
	usecase.StatsUseCase
	stats usecase.Stats
}

func (m *mockStatsUC) Totals(ctx context.Context) (*usecase.Stats, error) {
	return &m.stats, nil
}
