package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"compta-billing-platform/internal/domain/ports/repository"
	"compta-billing-platform/internal/infra/metrics"
	"compta-billing-platform/internal/usecase"
)

// ExpiryWorker periodically marks overdue subscriptions expired via the use
// case, so persisted rows catch up with the date-derived status. It also
// refreshes the per-statut subscription gauge on each tick.
type ExpiryWorker struct {
	interval time.Duration
	subUC    usecase.SubscriptionUseCase
	subs     repository.SubscriptionRepository
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, subUC usecase.SubscriptionUseCase, subs repository.SubscriptionRepository, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		subUC:    subUC,
		subs:     subs,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.subUC.FinishExpired(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("expiry worker error")
			}
			if n > 0 {
				metrics.IncSubscriptionsExpired(n)
				w.log.Info().Int("count", n).Msg("expired subscriptions finished")
			}
			if counts, err := w.subs.CountByStatus(ctx, repository.NoTX); err == nil {
				metrics.SetSubscriptionsTotal(counts)
			}
		}
	}
}
