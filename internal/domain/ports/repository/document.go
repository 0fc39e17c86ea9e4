package repository

import (
	"context"

	"compta-billing-platform/internal/domain/model"
)

// DocumentRepository is the port for document metadata persistence. File bytes
// live in storage.FileStore; only the path is recorded here.
type DocumentRepository interface {
	Save(ctx context.Context, tx Tx, doc *model.Document) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Document, error)
	ListByCompany(ctx context.Context, tx Tx, companyID string) ([]*model.Document, error)
	// TotalSizeByCompany sums stored bytes for quota enforcement.
	TotalSizeByCompany(ctx context.Context, tx Tx, companyID string) (int64, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
