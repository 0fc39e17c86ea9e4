package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/domain/ports/repository"
)

var _ repository.CompanyRepository = (*companyRepo)(nil)

type companyRepo struct {
	pool *pgxpool.Pool
}

func NewCompanyRepo(pool *pgxpool.Pool) *companyRepo {
	return &companyRepo{pool: pool}
}

const companyColumns = `id, name, siret, accountant_id, email, phone, address, validation_state, rejection_reason, created_at, updated_at`

func (r *companyRepo) Save(ctx context.Context, tx repository.Tx, c *model.Company) error {
	const q = `
INSERT INTO companies (` + companyColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
  name             = EXCLUDED.name,
  siret            = EXCLUDED.siret,
  email            = EXCLUDED.email,
  phone            = EXCLUDED.phone,
  address          = EXCLUDED.address,
  validation_state = EXCLUDED.validation_state,
  rejection_reason = EXCLUDED.rejection_reason,
  updated_at       = EXCLUDED.updated_at;`

	_, err := execSQL(ctx, r.pool, tx, q,
		c.ID, c.Name, c.Siret, c.AccountantID, c.Email, c.Phone, c.Address,
		string(c.Validation), c.RejectionReason, c.CreatedAt, c.UpdatedAt,
	)
	return mapSaveErr(err)
}

func (r *companyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Company, error) {
	const q = `SELECT ` + companyColumns + ` FROM companies WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanCompany(row)
}

func (r *companyRepo) ListByAccountant(ctx context.Context, tx repository.Tx, accountantID string) ([]*model.Company, error) {
	const q = `
SELECT ` + companyColumns + `
  FROM companies
 WHERE accountant_id = $1
 ORDER BY created_at DESC;`
	return r.queryMany(ctx, tx, q, accountantID)
}

func (r *companyRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Company, error) {
	const q = `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC;`
	return r.queryMany(ctx, tx, q)
}

func (r *companyRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM companies WHERE id = $1;`
	ct, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *companyRepo) queryMany(ctx context.Context, tx repository.Tx, sql string, args ...any) ([]*model.Company, error) {
	rows, err := queryRows(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	var out []*model.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanCompany(row pgx.Row) (*model.Company, error) {
	var c model.Company
	var state string
	if err := row.Scan(&c.ID, &c.Name, &c.Siret, &c.AccountantID, &c.Email, &c.Phone, &c.Address,
		&state, &c.RejectionReason, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	c.Validation = model.CompanyValidationState(state)
	return &c, nil
}
