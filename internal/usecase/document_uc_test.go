package usecase_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/usecase"
)

type docFixture struct {
	uc    usecase.DocumentUseCase
	subUC usecase.SubscriptionUseCase
	store *memFileStore
	docs  *memDocumentRepo
}

// newDocFixture provisions a company with an approved subscription on a plan
// with a 1 MB quota.
func newDocFixture(t *testing.T) *docFixture {
	t.Helper()
	ctx := context.Background()

	companies := newMemCompanyRepo()
	subs := newMemSubscriptionRepo(companies)
	plans := newMemPlanRepo()
	docs := newMemDocumentRepo()
	store := newMemFileStore()

	plan, err := model.NewPlan("plan-tiny", "Tiny", 1, 100)
	if err != nil {
		t.Fatalf("NewPlan: %v", err)
	}
	if err := plans.Save(ctx, nil, plan); err != nil {
		t.Fatalf("save plan: %v", err)
	}

	subUC := usecase.NewSubscriptionUseCase(subs, plans, nil, nil, nil)
	sub, err := subUC.Create(ctx, "c1", plan.ID, time.Now(), time.Now().AddDate(1, 0, 0), 0, model.TypeInitial)
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if _, err := subUC.Validate(ctx, sub.ID); err != nil {
		t.Fatalf("validate subscription: %v", err)
	}

	return &docFixture{
		uc:    usecase.NewDocumentUseCase(docs, subs, plans, store, subUC, nil),
		subUC: subUC,
		store: store,
		docs:  docs,
	}
}

func TestDocumentUC_UploadAndOpen(t *testing.T) {
	t.Parallel()

	f := newDocFixture(t)
	ctx := context.Background()

	doc, err := f.uc.Upload(ctx, "c1", "user-1", "facture mars", "facture-mars.pdf", "application/pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.SizeBytes != int64(len("pdf bytes")) {
		t.Fatalf("size = %d", doc.SizeBytes)
	}

	got, rc, err := f.uc.Open(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "pdf bytes" {
		t.Fatalf("content = %q", b)
	}
	if got.Label != "facture mars" {
		t.Fatalf("label = %q", got.Label)
	}
}

func TestDocumentUC_QuotaExceeded(t *testing.T) {
	t.Parallel()

	f := newDocFixture(t)
	ctx := context.Background()

	// The Tiny plan allows 1 MB total.
	big := strings.Repeat("x", 700*1024)
	if _, err := f.uc.Upload(ctx, "c1", "user-1", "a", "a.bin", "application/octet-stream", strings.NewReader(big)); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	_, err := f.uc.Upload(ctx, "c1", "user-1", "b", "b.bin", "application/octet-stream", strings.NewReader(big))
	if err != domain.ErrQuotaExceeded {
		t.Fatalf("second upload: got %v, want ErrQuotaExceeded", err)
	}
	// the rejected file must not linger in the store
	if _, err := f.store.Open(ctx, "b.bin"); err != domain.ErrNotFound {
		t.Fatalf("rejected upload must be removed from storage, got %v", err)
	}
}

func TestDocumentUC_UploadWithoutApprovedSubscription(t *testing.T) {
	t.Parallel()

	f := newDocFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Upload(ctx, "c-unknown", "user-1", "x", "x.pdf", "application/pdf", strings.NewReader("x")); err != domain.ErrNoSubscription {
		t.Fatalf("got %v, want ErrNoSubscription", err)
	}
}

func TestDocumentUC_UploadJustificatif(t *testing.T) {
	t.Parallel()

	f := newDocFixture(t)
	ctx := context.Background()

	sub, _, err := f.subUC.CurrentForCompany(ctx, "c1")
	if err != nil || sub == nil {
		t.Fatalf("fixture subscription missing: %v", err)
	}

	updated, err := f.uc.UploadJustificatif(ctx, sub.ID, "user-1", "virement.pdf", strings.NewReader("proof"))
	if err != nil {
		t.Fatalf("UploadJustificatif: %v", err)
	}
	if updated.JustificatifPath == "" {
		t.Fatalf("justificatif path not attached")
	}
	if _, err := f.store.Open(ctx, updated.JustificatifPath); err != nil {
		t.Fatalf("stored justificatif unreadable: %v", err)
	}
}

func TestDocumentUC_DeleteRemovesBytes(t *testing.T) {
	t.Parallel()

	f := newDocFixture(t)
	ctx := context.Background()

	doc, err := f.uc.Upload(ctx, "c1", "user-1", "x", "x.pdf", "application/pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := f.uc.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.uc.Get(ctx, doc.ID); err != domain.ErrNotFound {
		t.Fatalf("metadata must be gone, got %v", err)
	}
	if _, err := f.store.Open(ctx, doc.Path); err != domain.ErrNotFound {
		t.Fatalf("bytes must be gone, got %v", err)
	}
}
