package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/domain/ports/repository"
)

var _ repository.DocumentRepository = (*documentRepo)(nil)

type documentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *documentRepo {
	return &documentRepo{pool: pool}
}

const documentColumns = `id, company_id, uploaded_by, label, path, size_bytes, mime_type, created_at`

func (r *documentRepo) Save(ctx context.Context, tx repository.Tx, doc *model.Document) error {
	const q = `
INSERT INTO documents (` + documentColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  label     = EXCLUDED.label,
  mime_type = EXCLUDED.mime_type;`

	_, err := execSQL(ctx, r.pool, tx, q,
		doc.ID, doc.CompanyID, doc.UploadedBy, doc.Label, doc.Path, doc.SizeBytes, doc.MimeType, doc.CreatedAt,
	)
	return mapSaveErr(err)
}

func (r *documentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var d model.Document
	if err := row.Scan(&d.ID, &d.CompanyID, &d.UploadedBy, &d.Label, &d.Path, &d.SizeBytes, &d.MimeType, &d.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &d, nil
}

func (r *documentRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.Document, error) {
	const q = `
SELECT ` + documentColumns + `
  FROM documents
 WHERE company_id = $1
 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, companyID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	var out []*model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.UploadedBy, &d.Label, &d.Path, &d.SizeBytes, &d.MimeType, &d.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *documentRepo) TotalSizeByCompany(ctx context.Context, tx repository.Tx, companyID string) (int64, error) {
	const q = `SELECT COALESCE(SUM(size_bytes), 0) FROM documents WHERE company_id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, companyID)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return total, nil
}

func (r *documentRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM documents WHERE id = $1;`
	ct, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
