package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/domain/ports/repository"
)

// PlanUseCase exposes CRUD over the plan catalogue. Plans are reference data:
// subscriptions point at them by id and copy the price at signup time.
type PlanUseCase interface {
	Create(ctx context.Context, name string, maxSpaceMB int64, price float64) (*model.Plan, error)
	Get(ctx context.Context, id string) (*model.Plan, error)
	GetByName(ctx context.Context, name string) (*model.Plan, error)
	List(ctx context.Context) ([]*model.Plan, error)
	Update(ctx context.Context, id string, name *string, maxSpaceMB *int64, price *float64) (*model.Plan, error)
	Delete(ctx context.Context, id string) error
}

var _ PlanUseCase = (*planUC)(nil)

type planUC struct {
	plans repository.PlanRepository
}

// NewPlanUseCase constructs the plan use case.
func NewPlanUseCase(plans repository.PlanRepository) PlanUseCase {
	return &planUC{plans: plans}
}

func (p *planUC) Create(ctx context.Context, name string, maxSpaceMB int64, price float64) (*model.Plan, error) {
	name = strings.TrimSpace(name)
	if existing, err := p.plans.FindByName(ctx, repository.NoTX, name); err == nil && !existing.IsZero() {
		return nil, domain.ErrAlreadyExists
	}
	plan, err := model.NewPlan(uuid.NewString(), name, maxSpaceMB, price)
	if err != nil {
		return nil, err
	}
	if err := p.plans.Save(ctx, repository.NoTX, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *planUC) Get(ctx context.Context, id string) (*model.Plan, error) {
	return p.plans.FindByID(ctx, repository.NoTX, id)
}

func (p *planUC) GetByName(ctx context.Context, name string) (*model.Plan, error) {
	return p.plans.FindByName(ctx, repository.NoTX, strings.TrimSpace(name))
}

func (p *planUC) List(ctx context.Context) ([]*model.Plan, error) {
	return p.plans.ListAll(ctx, repository.NoTX)
}

// Update mutates fields in place; nil pointers mean "no change".
func (p *planUC) Update(ctx context.Context, id string, name *string, maxSpaceMB *int64, price *float64) (*model.Plan, error) {
	plan, err := p.plans.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		if strings.TrimSpace(*name) == "" {
			return nil, domain.ErrInvalidArgument
		}
		plan.Name = strings.TrimSpace(*name)
	}
	if maxSpaceMB != nil {
		if *maxSpaceMB <= 0 {
			return nil, domain.ErrInvalidArgument
		}
		plan.MaxSpaceMB = *maxSpaceMB
	}
	if price != nil {
		if *price < 0 {
			return nil, domain.ErrInvalidArgument
		}
		plan.Price = *price
	}
	if err := p.plans.Save(ctx, repository.NoTX, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *planUC) Delete(ctx context.Context, id string) error {
	return p.plans.Delete(ctx, repository.NoTX, id)
}
