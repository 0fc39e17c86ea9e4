package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/domain/ports/repository"
	"compta-billing-platform/internal/domain/ports/storage"
)

// DocumentUseCase stores company documents and enforces the plan's storage
// quota (espace_max). File bytes go to the FileStore; only metadata hits the
// database.
type DocumentUseCase interface {
	Upload(ctx context.Context, companyID, uploadedBy, label, originalName, mimeType string, r io.Reader) (*model.Document, error)
	// UploadJustificatif stores a proof-of-payment file and attaches its path
	// to the subscription.
	UploadJustificatif(ctx context.Context, subscriptionID, uploadedBy, originalName string, r io.Reader) (*model.Subscription, error)
	Get(ctx context.Context, id string) (*model.Document, error)
	Open(ctx context.Context, id string) (*model.Document, io.ReadCloser, error)
	ListForCompany(ctx context.Context, companyID string) ([]*model.Document, error)
	StorageUsed(ctx context.Context, companyID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

var _ DocumentUseCase = (*documentUC)(nil)

type documentUC struct {
	docs  repository.DocumentRepository
	subs  repository.SubscriptionRepository
	plans repository.PlanRepository
	store storage.FileStore
	subUC SubscriptionUseCase
	log   *zerolog.Logger
}

// NewDocumentUseCase constructs the use case.
func NewDocumentUseCase(
	docs repository.DocumentRepository,
	subs repository.SubscriptionRepository,
	plans repository.PlanRepository,
	store storage.FileStore,
	subUC SubscriptionUseCase,
	logger *zerolog.Logger,
) DocumentUseCase {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "DocumentUC").Logger()
	return &documentUC{docs: docs, subs: subs, plans: plans, store: store, subUC: subUC, log: &l}
}

func (uc *documentUC) Upload(ctx context.Context, companyID, uploadedBy, label, originalName, mimeType string, r io.Reader) (*model.Document, error) {
	quota, err := uc.quotaFor(ctx, companyID)
	if err != nil {
		return nil, err
	}
	used, err := uc.docs.TotalSizeByCompany(ctx, repository.NoTX, companyID)
	if err != nil {
		return nil, err
	}

	stored, err := uc.store.Save(ctx, originalName, r)
	if err != nil {
		return nil, err
	}
	if used+stored.SizeBytes > quota {
		_ = uc.store.Remove(ctx, stored.Path)
		return nil, domain.ErrQuotaExceeded
	}

	doc, err := model.NewDocument(uuid.NewString(), companyID, uploadedBy, label, stored.Path, stored.SizeBytes, mimeType)
	if err != nil {
		_ = uc.store.Remove(ctx, stored.Path)
		return nil, err
	}
	if err := uc.docs.Save(ctx, repository.NoTX, doc); err != nil {
		_ = uc.store.Remove(ctx, stored.Path)
		return nil, err
	}
	uc.log.Info().Str("document_id", doc.ID).Str("company_id", companyID).
		Int64("size_bytes", doc.SizeBytes).Msg("document stored")
	return doc, nil
}

func (uc *documentUC) UploadJustificatif(ctx context.Context, subscriptionID, uploadedBy, originalName string, r io.Reader) (*model.Subscription, error) {
	stored, err := uc.store.Save(ctx, originalName, r)
	if err != nil {
		return nil, err
	}
	sub, err := uc.subUC.AttachJustificatif(ctx, subscriptionID, stored.Path)
	if err != nil {
		_ = uc.store.Remove(ctx, stored.Path)
		return nil, err
	}
	return sub, nil
}

func (uc *documentUC) Get(ctx context.Context, id string) (*model.Document, error) {
	return uc.docs.FindByID(ctx, repository.NoTX, id)
}

func (uc *documentUC) Open(ctx context.Context, id string) (*model.Document, io.ReadCloser, error) {
	doc, err := uc.docs.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := uc.store.Open(ctx, doc.Path)
	if err != nil {
		return nil, nil, err
	}
	return doc, rc, nil
}

func (uc *documentUC) ListForCompany(ctx context.Context, companyID string) ([]*model.Document, error) {
	return uc.docs.ListByCompany(ctx, repository.NoTX, companyID)
}

func (uc *documentUC) StorageUsed(ctx context.Context, companyID string) (int64, error) {
	return uc.docs.TotalSizeByCompany(ctx, repository.NoTX, companyID)
}

func (uc *documentUC) Delete(ctx context.Context, id string) error {
	doc, err := uc.docs.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return err
	}
	if err := uc.docs.Delete(ctx, repository.NoTX, id); err != nil {
		return err
	}
	// Metadata is the source of truth; a failed byte removal only leaks disk.
	if err := uc.store.Remove(ctx, doc.Path); err != nil {
		uc.log.Warn().Err(err).Str("path", doc.Path).Msg("orphaned stored file")
	}
	return nil
}

// quotaFor resolves the storage quota from the company's latest approved
// subscription. Companies without one cannot store documents.
func (uc *documentUC) quotaFor(ctx context.Context, companyID string) (int64, error) {
	sub, err := uc.subs.FindLatestByCompany(ctx, repository.NoTX, companyID)
	if err == domain.ErrNotFound {
		return 0, domain.ErrNoSubscription
	}
	if err != nil {
		return 0, err
	}
	if sub.Validation != model.ValidationApproved {
		return 0, domain.ErrNoSubscription
	}
	plan, err := uc.plans.FindByID(ctx, repository.NoTX, sub.PlanID)
	if err != nil {
		return 0, err
	}
	return plan.MaxSpaceBytes(), nil
}
