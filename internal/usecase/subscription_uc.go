package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/domain/ports/repository"
)

// SubscriptionUseCase implements the subscription lifecycle: creation,
// moderation, renewal pricing and the expiry sweep.
type SubscriptionUseCase interface {
	Create(ctx context.Context, companyID, planID string, start, end time.Time, amount float64, typ model.SubscriptionType) (*model.Subscription, error)
	Get(ctx context.Context, id string) (*model.Subscription, error)
	ListForAccountant(ctx context.Context, accountantID string) ([]*model.Subscription, error)
	ListForCompany(ctx context.Context, companyID string) ([]*model.Subscription, error)
	// CurrentForCompany returns the latest subscription and its display
	// status. A company that never subscribed yields (nil, aucun, nil).
	CurrentForCompany(ctx context.Context, companyID string) (*model.Subscription, model.DerivedStatus, error)
	Update(ctx context.Context, id string, start, end *time.Time, amount *float64) (*model.Subscription, error)
	// Quote previews the renewal price without touching the subscription.
	Quote(ctx context.Context, id, planID string, mode model.RenewalMode, discountPct, customPrice float64) (model.RenewalQuote, error)
	// Renew extends the subscription by one year at the quoted price and
	// resets it to an active, approved state.
	Renew(ctx context.Context, id, planID string, mode model.RenewalMode, discountPct, customPrice float64) (*model.Subscription, model.RenewalQuote, error)
	Validate(ctx context.Context, id string) (*model.Subscription, error)
	Reject(ctx context.Context, id, reason string) (*model.Subscription, error)
	AttachJustificatif(ctx context.Context, id, path string) (*model.Subscription, error)
	Delete(ctx context.Context, id string) error
	// FinishExpired converges the persisted statut of overdue approved
	// subscriptions and returns how many rows were updated.
	FinishExpired(ctx context.Context) (int, error)
}

var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type subscriptionUC struct {
	subs   repository.SubscriptionRepository
	plans  repository.PlanRepository
	txm    repository.TransactionManager
	locker Locker
	log    *zerolog.Logger
}

// NewSubscriptionUseCase constructs the use case. txm and locker may be nil
// (in-memory repositories in tests need neither).
func NewSubscriptionUseCase(
	subs repository.SubscriptionRepository,
	plans repository.PlanRepository,
	txm repository.TransactionManager,
	locker Locker,
	logger *zerolog.Logger,
) SubscriptionUseCase {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "SubscriptionUC").Logger()
	return &subscriptionUC{subs: subs, plans: plans, txm: txm, locker: locker, log: &l}
}

func (uc *subscriptionUC) Create(ctx context.Context, companyID, planID string, start, end time.Time, amount float64, typ model.SubscriptionType) (*model.Subscription, error) {
	plan, err := uc.plans.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		amount = plan.Price
	}
	sub, err := model.NewSubscription(uuid.NewString(), companyID, plan, start, end, amount, typ)
	if err != nil {
		return nil, err
	}
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	uc.log.Info().Str("subscription_id", sub.ID).Str("company_id", companyID).
		Str("statut", string(sub.Status)).Msg("subscription created")
	return sub, nil
}

func (uc *subscriptionUC) Get(ctx context.Context, id string) (*model.Subscription, error) {
	return uc.subs.FindByID(ctx, repository.NoTX, id)
}

func (uc *subscriptionUC) ListForAccountant(ctx context.Context, accountantID string) ([]*model.Subscription, error) {
	return uc.subs.ListByAccountant(ctx, repository.NoTX, accountantID)
}

func (uc *subscriptionUC) ListForCompany(ctx context.Context, companyID string) ([]*model.Subscription, error) {
	return uc.subs.ListByCompany(ctx, repository.NoTX, companyID)
}

func (uc *subscriptionUC) CurrentForCompany(ctx context.Context, companyID string) (*model.Subscription, model.DerivedStatus, error) {
	sub, err := uc.subs.FindLatestByCompany(ctx, repository.NoTX, companyID)
	if err == domain.ErrNotFound {
		return nil, model.DerivedNone, nil
	}
	if err != nil {
		return nil, model.DerivedNone, err
	}
	return sub, sub.DerivedStatus(time.Now()), nil
}

// Update mutates the period or amount; nil pointers mean "no change".
func (uc *subscriptionUC) Update(ctx context.Context, id string, start, end *time.Time, amount *float64) (*model.Subscription, error) {
	sub, err := uc.subs.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if start != nil {
		sub.StartDate = *start
	}
	if end != nil {
		sub.EndDate = *end
	}
	if sub.EndDate.Before(sub.StartDate) {
		return nil, domain.ErrInvalidArgument
	}
	if amount != nil {
		sub.Amount = *amount
	}
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (uc *subscriptionUC) Quote(ctx context.Context, id, planID string, mode model.RenewalMode, discountPct, customPrice float64) (model.RenewalQuote, error) {
	sub, plan, err := uc.loadForRenewal(ctx, id, planID)
	if err != nil {
		return model.RenewalQuote{}, err
	}
	return model.QuoteSubscriptionRenewal(sub, plan.Price, mode, discountPct, customPrice, time.Now())
}

func (uc *subscriptionUC) Renew(ctx context.Context, id, planID string, mode model.RenewalMode, discountPct, customPrice float64) (*model.Subscription, model.RenewalQuote, error) {
	var renewed *model.Subscription
	var quote model.RenewalQuote

	err := withEntityLock(ctx, uc.locker, "renewal:subscription:"+id, func() error {
		return uc.inTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			sub, err := uc.subs.FindByID(ctx, tx, id)
			if err != nil {
				return err
			}
			plan, err := uc.plans.FindByID(ctx, tx, sub.PlanID)
			if planID != "" && planID != sub.PlanID {
				plan, err = uc.plans.FindByID(ctx, tx, planID)
			}
			if err != nil {
				return err
			}

			now := time.Now()
			quote = model.QuoteRenewal(sub.EndDate, plan.Price, mode, discountPct, customPrice, now)

			// A renewal before expiry continues from the current end date;
			// an expired subscription restarts today.
			start := now
			if sub.EndDate.After(now) {
				start = sub.EndDate
			}
			if err := sub.Renew(start, start.AddDate(1, 0, 0), quote.FinalPrice); err != nil {
				return err
			}
			if planID != "" {
				sub.PlanID = plan.ID
			}
			if err := uc.subs.Save(ctx, tx, sub); err != nil {
				return err
			}
			renewed = sub
			return nil
		})
	})
	if err != nil {
		return nil, model.RenewalQuote{}, err
	}
	uc.log.Info().Str("subscription_id", id).Float64("final_price", quote.FinalPrice).
		Str("mode", string(mode)).Msg("subscription renewed")
	return renewed, quote, nil
}

func (uc *subscriptionUC) Validate(ctx context.Context, id string) (*model.Subscription, error) {
	var out *model.Subscription
	err := withEntityLock(ctx, uc.locker, "validation:subscription:"+id, func() error {
		return uc.inTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			sub, err := uc.subs.FindByID(ctx, tx, id)
			if err != nil {
				return err
			}
			if err := sub.Validate(); err != nil {
				return err
			}
			if err := uc.subs.Save(ctx, tx, sub); err != nil {
				return err
			}
			out = sub
			return nil
		})
	})
	return out, err
}

func (uc *subscriptionUC) Reject(ctx context.Context, id, reason string) (*model.Subscription, error) {
	var out *model.Subscription
	err := withEntityLock(ctx, uc.locker, "validation:subscription:"+id, func() error {
		return uc.inTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			sub, err := uc.subs.FindByID(ctx, tx, id)
			if err != nil {
				return err
			}
			if err := sub.Reject(reason); err != nil {
				return err
			}
			if err := uc.subs.Save(ctx, tx, sub); err != nil {
				return err
			}
			out = sub
			return nil
		})
	})
	return out, err
}

func (uc *subscriptionUC) AttachJustificatif(ctx context.Context, id, path string) (*model.Subscription, error) {
	sub, err := uc.subs.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	sub.JustificatifPath = path
	if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (uc *subscriptionUC) Delete(ctx context.Context, id string) error {
	return uc.subs.Delete(ctx, repository.NoTX, id)
}

func (uc *subscriptionUC) FinishExpired(ctx context.Context) (int, error) {
	overdue, err := uc.subs.FindOverdueValidated(ctx, repository.NoTX, time.Now())
	if err != nil {
		if err == domain.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	n := 0
	for _, sub := range overdue {
		sub.Status = model.StatusExpired
		if err := uc.subs.Save(ctx, repository.NoTX, sub); err != nil {
			uc.log.Error().Err(err).Str("subscription_id", sub.ID).Msg("expiry sweep save failed")
			continue
		}
		n++
	}
	return n, nil
}

func (uc *subscriptionUC) loadForRenewal(ctx context.Context, id, planID string) (*model.Subscription, *model.Plan, error) {
	sub, err := uc.subs.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, nil, err
	}
	if planID == "" {
		planID = sub.PlanID
	}
	plan, err := uc.plans.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		return nil, nil, err
	}
	return sub, plan, nil
}

// inTx runs fn inside a transaction when a manager is configured, otherwise
// directly with NoTX (in-memory repositories in tests).
func (uc *subscriptionUC) inTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if uc.txm == nil {
		return fn(ctx, repository.NoTX)
	}
	return uc.txm.WithTx(ctx, pgx.TxOptions{}, fn)
}
