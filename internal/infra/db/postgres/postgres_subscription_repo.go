package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*subscriptionRepo)(nil)

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *subscriptionRepo {
	return &subscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, company_id, plan_id, start_date, end_date, amount, status, validation_state, subscription_type, justificatif_path, rejection_reason, created_at`

func (r *subscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (` + subscriptionColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
  plan_id           = EXCLUDED.plan_id,
  start_date        = EXCLUDED.start_date,
  end_date          = EXCLUDED.end_date,
  amount            = EXCLUDED.amount,
  status            = EXCLUDED.status,
  validation_state  = EXCLUDED.validation_state,
  subscription_type = EXCLUDED.subscription_type,
  justificatif_path = EXCLUDED.justificatif_path,
  rejection_reason  = EXCLUDED.rejection_reason;`

	_, err := execSQL(ctx, r.pool, tx, q,
		s.ID, s.CompanyID, s.PlanID, s.StartDate, s.EndDate, s.Amount,
		string(s.Status), string(s.Validation), string(s.Type),
		s.JustificatifPath, s.RejectionReason, s.CreatedAt,
	)
	return mapSaveErr(err)
}

func (r *subscriptionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Subscription, error) {
	const q = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *subscriptionRepo) FindLatestByCompany(ctx context.Context, tx repository.Tx, companyID string) (*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE company_id = $1
 ORDER BY created_at DESC
 LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, companyID)
	if err != nil {
		return nil, err
	}
	return scanSubscription(row)
}

func (r *subscriptionRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE company_id = $1
 ORDER BY created_at DESC;`
	return r.queryMany(ctx, tx, q, companyID)
}

func (r *subscriptionRepo) ListByAccountant(ctx context.Context, tx repository.Tx, accountantID string) ([]*model.Subscription, error) {
	const q = `
SELECT s.id, s.company_id, s.plan_id, s.start_date, s.end_date, s.amount,
       s.status, s.validation_state, s.subscription_type,
       s.justificatif_path, s.rejection_reason, s.created_at
  FROM subscriptions s
  JOIN companies c ON c.id = s.company_id
 WHERE c.accountant_id = $1
 ORDER BY s.created_at DESC;`
	return r.queryMany(ctx, tx, q, accountantID)
}

func (r *subscriptionRepo) FindOverdueValidated(ctx context.Context, tx repository.Tx, asOf time.Time) ([]*model.Subscription, error) {
	const q = `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE validation_state = 'valide'
   AND status = 'actif'
   AND end_date < $1
 ORDER BY end_date ASC;`
	return r.queryMany(ctx, tx, q, asOf)
}

func (r *subscriptionRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.Status]int, error) {
	const q = `SELECT status, COUNT(*) FROM subscriptions GROUP BY status;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	counts := make(map[model.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}

func (r *subscriptionRepo) RevenueSince(ctx context.Context, tx repository.Tx, since time.Time) (float64, error) {
	const q = `
SELECT COALESCE(SUM(amount), 0)
  FROM subscriptions
 WHERE validation_state = 'valide'
   AND created_at >= $1;`
	row, err := pickRow(ctx, r.pool, tx, q, since)
	if err != nil {
		return 0, err
	}
	var total float64
	if err := row.Scan(&total); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return total, nil
}

func (r *subscriptionRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM subscriptions WHERE id = $1;`
	ct, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subscriptionRepo) queryMany(ctx context.Context, tx repository.Tx, sql string, args ...any) ([]*model.Subscription, error) {
	rows, err := queryRows(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var s model.Subscription
	var status, validation, typ string
	if err := row.Scan(&s.ID, &s.CompanyID, &s.PlanID, &s.StartDate, &s.EndDate, &s.Amount,
		&status, &validation, &typ, &s.JustificatifPath, &s.RejectionReason, &s.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	s.Status = model.Status(status)
	s.Validation = model.ValidationState(validation)
	s.Type = model.SubscriptionType(typ)
	return &s, nil
}
