package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/domain/ports/repository"
)

// DeletionUseCase handles the two-step account removal: a company files a
// request, an admin approves (which deletes the tenant) or refuses it.
type DeletionUseCase interface {
	Request(ctx context.Context, companyID, requestedBy, reason string) (*model.DeletionRequest, error)
	Get(ctx context.Context, id string) (*model.DeletionRequest, error)
	ListPending(ctx context.Context) ([]*model.DeletionRequest, error)
	ListAll(ctx context.Context) ([]*model.DeletionRequest, error)
	Approve(ctx context.Context, id string) (*model.DeletionRequest, error)
	Refuse(ctx context.Context, id string) (*model.DeletionRequest, error)
}

var _ DeletionUseCase = (*deletionUC)(nil)

type deletionUC struct {
	requests  repository.DeletionRequestRepository
	companies repository.CompanyRepository
	txm       repository.TransactionManager
	log       *zerolog.Logger
}

// NewDeletionUseCase constructs the use case. txm may be nil.
func NewDeletionUseCase(
	requests repository.DeletionRequestRepository,
	companies repository.CompanyRepository,
	txm repository.TransactionManager,
	logger *zerolog.Logger,
) DeletionUseCase {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "DeletionUC").Logger()
	return &deletionUC{requests: requests, companies: companies, txm: txm, log: &l}
}

func (uc *deletionUC) Request(ctx context.Context, companyID, requestedBy, reason string) (*model.DeletionRequest, error) {
	// The company must exist; a dangling request helps nobody.
	if _, err := uc.companies.FindByID(ctx, repository.NoTX, companyID); err != nil {
		return nil, err
	}
	req, err := model.NewDeletionRequest(uuid.NewString(), companyID, requestedBy, reason)
	if err != nil {
		return nil, err
	}
	if err := uc.requests.Save(ctx, repository.NoTX, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (uc *deletionUC) Get(ctx context.Context, id string) (*model.DeletionRequest, error) {
	return uc.requests.FindByID(ctx, repository.NoTX, id)
}

func (uc *deletionUC) ListPending(ctx context.Context) ([]*model.DeletionRequest, error) {
	return uc.requests.ListByStatus(ctx, repository.NoTX, model.DeletionPending)
}

func (uc *deletionUC) ListAll(ctx context.Context) ([]*model.DeletionRequest, error) {
	return uc.requests.ListAll(ctx, repository.NoTX)
}

// Approve removes the company and marks the request approved in one
// transaction so a crash cannot leave a deleted tenant with a pending request.
func (uc *deletionUC) Approve(ctx context.Context, id string) (*model.DeletionRequest, error) {
	var out *model.DeletionRequest
	err := uc.inTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		req, err := uc.requests.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := req.Approve(); err != nil {
			return err
		}
		if err := uc.companies.Delete(ctx, tx, req.CompanyID); err != nil {
			return err
		}
		if err := uc.requests.Save(ctx, tx, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("request_id", id).Str("company_id", out.CompanyID).Msg("deletion request approved")
	return out, nil
}

func (uc *deletionUC) Refuse(ctx context.Context, id string) (*model.DeletionRequest, error) {
	req, err := uc.requests.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if err := req.Refuse(); err != nil {
		return nil, err
	}
	if err := uc.requests.Save(ctx, repository.NoTX, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (uc *deletionUC) inTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if uc.txm == nil {
		return fn(ctx, repository.NoTX)
	}
	return uc.txm.WithTx(ctx, pgx.TxOptions{}, fn)
}
