package repository

import (
	"context"

	"compta-billing-platform/internal/domain/model"
)

// UserRepository is the port for account persistence.
type UserRepository interface {
	Save(ctx context.Context, tx Tx, user *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
