package repository

import (
	"context"

	"compta-billing-platform/internal/domain/model"
)

// DeletionRequestRepository is the port for account-deletion requests.
type DeletionRequestRepository interface {
	Save(ctx context.Context, tx Tx, req *model.DeletionRequest) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.DeletionRequest, error)
	ListByStatus(ctx context.Context, tx Tx, status model.DeletionRequestStatus) ([]*model.DeletionRequest, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.DeletionRequest, error)
}
