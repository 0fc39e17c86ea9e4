package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/domain/ports/repository"
)

// CompanyUpdate carries editable company fields; nil pointers mean "no change".
type CompanyUpdate struct {
	Name    *string
	Siret   *string
	Email   *string
	Phone   *string
	Address *string
}

// CompanyUseCase manages tenants and their moderation workflow.
type CompanyUseCase interface {
	Create(ctx context.Context, name, siret, accountantID, email string) (*model.Company, error)
	Get(ctx context.Context, id string) (*model.Company, error)
	ListForAccountant(ctx context.Context, accountantID string) ([]*model.Company, error)
	ListAll(ctx context.Context) ([]*model.Company, error)
	// Update applies edits and resets the company to the moderation queue.
	Update(ctx context.Context, id string, upd CompanyUpdate) (*model.Company, error)
	Validate(ctx context.Context, id string) (*model.Company, error)
	Reject(ctx context.Context, id, reason string) (*model.Company, error)
	Delete(ctx context.Context, id string) error
}

var _ CompanyUseCase = (*companyUC)(nil)

type companyUC struct {
	companies repository.CompanyRepository
	txm       repository.TransactionManager
	locker    Locker
	log       *zerolog.Logger
}

// NewCompanyUseCase constructs the use case. txm and locker may be nil.
func NewCompanyUseCase(
	companies repository.CompanyRepository,
	txm repository.TransactionManager,
	locker Locker,
	logger *zerolog.Logger,
) CompanyUseCase {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "CompanyUC").Logger()
	return &companyUC{companies: companies, txm: txm, locker: locker, log: &l}
}

func (uc *companyUC) Create(ctx context.Context, name, siret, accountantID, email string) (*model.Company, error) {
	company, err := model.NewCompany(uuid.NewString(), name, siret, accountantID, email)
	if err != nil {
		return nil, err
	}
	if err := uc.companies.Save(ctx, repository.NoTX, company); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", company.ID).Str("accountant_id", accountantID).Msg("company created")
	return company, nil
}

func (uc *companyUC) Get(ctx context.Context, id string) (*model.Company, error) {
	return uc.companies.FindByID(ctx, repository.NoTX, id)
}

func (uc *companyUC) ListForAccountant(ctx context.Context, accountantID string) ([]*model.Company, error) {
	return uc.companies.ListByAccountant(ctx, repository.NoTX, accountantID)
}

func (uc *companyUC) ListAll(ctx context.Context) ([]*model.Company, error) {
	return uc.companies.ListAll(ctx, repository.NoTX)
}

func (uc *companyUC) Update(ctx context.Context, id string, upd CompanyUpdate) (*model.Company, error) {
	company, err := uc.companies.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, domain.ErrInvalidArgument
		}
		company.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Siret != nil {
		company.Siret = *upd.Siret
	}
	if upd.Email != nil {
		company.Email = *upd.Email
	}
	if upd.Phone != nil {
		company.Phone = *upd.Phone
	}
	if upd.Address != nil {
		company.Address = *upd.Address
	}
	// Any edit re-enters moderation.
	company.ResetValidation()
	if err := uc.companies.Save(ctx, repository.NoTX, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (uc *companyUC) Validate(ctx context.Context, id string) (*model.Company, error) {
	var out *model.Company
	err := withEntityLock(ctx, uc.locker, "validation:company:"+id, func() error {
		return uc.inTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			company, err := uc.companies.FindByID(ctx, tx, id)
			if err != nil {
				return err
			}
			if err := company.Validate(); err != nil {
				return err
			}
			if err := uc.companies.Save(ctx, tx, company); err != nil {
				return err
			}
			out = company
			return nil
		})
	})
	return out, err
}

func (uc *companyUC) Reject(ctx context.Context, id, reason string) (*model.Company, error) {
	var out *model.Company
	err := withEntityLock(ctx, uc.locker, "validation:company:"+id, func() error {
		return uc.inTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			company, err := uc.companies.FindByID(ctx, tx, id)
			if err != nil {
				return err
			}
			if err := company.Reject(reason); err != nil {
				return err
			}
			if err := uc.companies.Save(ctx, tx, company); err != nil {
				return err
			}
			out = company
			return nil
		})
	})
	return out, err
}

func (uc *companyUC) Delete(ctx context.Context, id string) error {
	return uc.companies.Delete(ctx, repository.NoTX, id)
}

func (uc *companyUC) inTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if uc.txm == nil {
		return fn(ctx, repository.NoTX)
	}
	return uc.txm.WithTx(ctx, pgx.TxOptions{}, fn)
}
