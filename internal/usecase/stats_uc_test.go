package usecase_test

import (
	"context"
	"testing"
	"time"

	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/usecase"
)

func TestStatsUC_Totals(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	users := newMemUserRepo()
	companies := newMemCompanyRepo()
	subs := newMemSubscriptionRepo(companies)
	plans := newMemPlanRepo()

	userUC := usecase.NewUserUseCase(users)
	companyUC := usecase.NewCompanyUseCase(companies, nil, nil, nil)
	subUC := usecase.NewSubscriptionUseCase(subs, plans, nil, nil, nil)

	if _, err := userUC.Register(ctx, "admin@plateforme.fr", "s3cret-pass", model.RoleAdmin, ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := companyUC.Create(ctx, "Boulangerie Dupont", "", "acct-1", ""); err != nil {
		t.Fatalf("create company: %v", err)
	}

	plan, _ := model.NewPlan("p1", "Standard", 1024, 1000)
	_ = plans.Save(ctx, nil, plan)

	sub, err := subUC.Create(ctx, "c1", "p1", time.Now(), time.Now().AddDate(1, 0, 0), 0, model.TypeInitial)
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if _, err := subUC.Validate(ctx, sub.ID); err != nil {
		t.Fatalf("validate: %v", err)
	}

	statsUC := usecase.NewStatsUseCase(users, companies, subs)
	stats, err := statsUC.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if stats.TotalUsers != 1 || stats.TotalCompanies != 1 {
		t.Fatalf("counts: %+v", stats)
	}
	if stats.SubscriptionsByStatus[model.StatusActive] != 1 {
		t.Fatalf("active subs: %+v", stats.SubscriptionsByStatus)
	}
	if stats.RevenueMonth != 1000 || stats.RevenueYear != 1000 {
		t.Fatalf("revenue: month=%v year=%v", stats.RevenueMonth, stats.RevenueYear)
	}
}

func TestUserUC_RegisterAndAuthenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	uc := usecase.NewUserUseCase(newMemUserRepo())

	u, err := uc.Register(ctx, "  Comptable@Cabinet.FR ", "motdepasse", model.RoleAccountant, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "comptable@cabinet.fr" {
		t.Fatalf("email not normalized: %q", u.Email)
	}

	if _, err := uc.Authenticate(ctx, "comptable@cabinet.fr", "motdepasse"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if _, err := uc.Authenticate(ctx, "comptable@cabinet.fr", "wrong"); err == nil {
		t.Fatalf("bad password must fail")
	}
	if _, err := uc.Authenticate(ctx, "ghost@cabinet.fr", "motdepasse"); err == nil {
		t.Fatalf("unknown email must fail")
	}
	// duplicate email
	if _, err := uc.Register(ctx, "comptable@cabinet.fr", "motdepasse", model.RoleAccountant, ""); err == nil {
		t.Fatalf("duplicate email must fail")
	}
	// short password
	if _, err := uc.Register(ctx, "x@y.fr", "short", model.RoleAccountant, ""); err == nil {
		t.Fatalf("short password must fail")
	}
}
