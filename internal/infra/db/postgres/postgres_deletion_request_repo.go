package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/domain/ports/repository"
)

var _ repository.DeletionRequestRepository = (*deletionRequestRepo)(nil)

type deletionRequestRepo struct {
	pool *pgxpool.Pool
}

func NewDeletionRequestRepo(pool *pgxpool.Pool) *deletionRequestRepo {
	return &deletionRequestRepo{pool: pool}
}

const deletionRequestColumns = `id, company_id, requested_by, reason, status, created_at, decided_at`

func (r *deletionRequestRepo) Save(ctx context.Context, tx repository.Tx, req *model.DeletionRequest) error {
	const q = `
INSERT INTO deletion_requests (` + deletionRequestColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  status     = EXCLUDED.status,
  decided_at = EXCLUDED.decided_at;`

	_, err := execSQL(ctx, r.pool, tx, q,
		req.ID, req.CompanyID, req.RequestedBy, req.Reason, string(req.Status), req.CreatedAt, req.DecidedAt,
	)
	return mapSaveErr(err)
}

func (r *deletionRequestRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.DeletionRequest, error) {
	const q = `SELECT ` + deletionRequestColumns + ` FROM deletion_requests WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanDeletionRequest(row)
}

func (r *deletionRequestRepo) ListByStatus(ctx context.Context, tx repository.Tx, status model.DeletionRequestStatus) ([]*model.DeletionRequest, error) {
	const q = `
SELECT ` + deletionRequestColumns + `
  FROM deletion_requests
 WHERE status = $1
 ORDER BY created_at ASC;`
	return r.queryMany(ctx, tx, q, string(status))
}

func (r *deletionRequestRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.DeletionRequest, error) {
	const q = `SELECT ` + deletionRequestColumns + ` FROM deletion_requests ORDER BY created_at DESC;`
	return r.queryMany(ctx, tx, q)
}

func (r *deletionRequestRepo) queryMany(ctx context.Context, tx repository.Tx, sql string, args ...any) ([]*model.DeletionRequest, error) {
	rows, err := queryRows(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	var out []*model.DeletionRequest
	for rows.Next() {
		req, err := scanDeletionRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanDeletionRequest(row pgx.Row) (*model.DeletionRequest, error) {
	var req model.DeletionRequest
	var status string
	if err := row.Scan(&req.ID, &req.CompanyID, &req.RequestedBy, &req.Reason, &status, &req.CreatedAt, &req.DecidedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	req.Status = model.DeletionRequestStatus(status)
	return &req, nil
}
