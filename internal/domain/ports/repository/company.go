package repository

import (
	"context"

	"compta-billing-platform/internal/domain/model"
)

// CompanyRepository is the port for company (tenant) persistence.
type CompanyRepository interface {
	Save(ctx context.Context, tx Tx, company *model.Company) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Company, error)
	ListByAccountant(ctx context.Context, tx Tx, accountantID string) ([]*model.Company, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Company, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
