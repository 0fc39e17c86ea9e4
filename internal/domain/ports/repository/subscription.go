package repository

import (
	"context"
	"time"

	"compta-billing-platform/internal/domain/model"
)

// SubscriptionRepository is the port for subscription persistence.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, sub *model.Subscription) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	// FindLatestByCompany returns the company's most recently created
	// subscription, or ErrNotFound when the company never subscribed.
	FindLatestByCompany(ctx context.Context, tx Tx, companyID string) (*model.Subscription, error)
	ListByCompany(ctx context.Context, tx Tx, companyID string) ([]*model.Subscription, error)
	// ListByAccountant returns subscriptions of every company managed by the
	// given accountant, newest first.
	ListByAccountant(ctx context.Context, tx Tx, accountantID string) ([]*model.Subscription, error)
	// FindOverdueValidated returns approved subscriptions whose end date has
	// passed but whose persisted statut is still actif.
	FindOverdueValidated(ctx context.Context, tx Tx, asOf time.Time) ([]*model.Subscription, error)
	CountByStatus(ctx context.Context, tx Tx) (map[model.Status]int, error)
	// RevenueSince sums the montant of approved subscriptions created at or
	// after the given instant.
	RevenueSince(ctx context.Context, tx Tx, since time.Time) (float64, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
