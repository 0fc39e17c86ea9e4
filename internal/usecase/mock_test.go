package usecase_test

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/domain/ports/repository"
	"compta-billing-platform/internal/domain/ports/storage"
)

// =============================
// In-memory repositories
// =============================

type memPlanRepo struct {
	mu    sync.Mutex
	plans map[string]*model.Plan
}

var _ repository.PlanRepository = (*memPlanRepo)(nil)

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: map[string]*model.Plan{}}
}

func (r *memPlanRepo) Save(_ context.Context, _ repository.Tx, plan *model.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *plan
	r.plans[plan.ID] = &cp
	return nil
}

func (r *memPlanRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.plans[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memPlanRepo) FindByName(_ context.Context, _ repository.Tx, name string) (*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if strings.EqualFold(p.Name, name) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memPlanRepo) ListAll(_ context.Context, _ repository.Tx) ([]*model.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memPlanRepo) Delete(_ context.Context, _ repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

type memCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*model.Company
}

var _ repository.CompanyRepository = (*memCompanyRepo)(nil)

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{companies: map[string]*model.Company{}}
}

func (r *memCompanyRepo) Save(_ context.Context, _ repository.Tx, c *model.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

func (r *memCompanyRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memCompanyRepo) ListByAccountant(_ context.Context, _ repository.Tx, accountantID string) ([]*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Company
	for _, c := range r.companies {
		if c.AccountantID == accountantID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCompanyRepo) ListAll(_ context.Context, _ repository.Tx) ([]*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Company
	for _, c := range r.companies {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memCompanyRepo) Delete(_ context.Context, _ repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.companies, id)
	return nil
}

type memSubscriptionRepo struct {
	mu        sync.Mutex
	subs      map[string]*model.Subscription
	companies *memCompanyRepo // for ListByAccountant joins; may be nil
}

var _ repository.SubscriptionRepository = (*memSubscriptionRepo)(nil)

func newMemSubscriptionRepo(companies *memCompanyRepo) *memSubscriptionRepo {
	return &memSubscriptionRepo{subs: map[string]*model.Subscription{}, companies: companies}
}

func (r *memSubscriptionRepo) Save(_ context.Context, _ repository.Tx, s *model.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.subs[s.ID] = &cp
	return nil
}

func (r *memSubscriptionRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.subs[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memSubscriptionRepo) FindLatestByCompany(_ context.Context, _ repository.Tx, companyID string) (*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.Subscription
	for _, s := range r.subs {
		if s.CompanyID != companyID {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *memSubscriptionRepo) ListByCompany(_ context.Context, _ repository.Tx, companyID string) ([]*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Subscription
	for _, s := range r.subs {
		if s.CompanyID == companyID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memSubscriptionRepo) ListByAccountant(ctx context.Context, tx repository.Tx, accountantID string) ([]*model.Subscription, error) {
	if r.companies == nil {
		return nil, nil
	}
	companies, err := r.companies.ListByAccountant(ctx, tx, accountantID)
	if err != nil {
		return nil, err
	}
	owned := map[string]bool{}
	for _, c := range companies {
		owned[c.ID] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Subscription
	for _, s := range r.subs {
		if owned[s.CompanyID] {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memSubscriptionRepo) FindOverdueValidated(_ context.Context, _ repository.Tx, asOf time.Time) ([]*model.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Subscription
	for _, s := range r.subs {
		if s.Validation == model.ValidationApproved && s.Status == model.StatusActive && s.EndDate.Before(asOf) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memSubscriptionRepo) CountByStatus(_ context.Context, _ repository.Tx) (map[model.Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[model.Status]int{}
	for _, s := range r.subs {
		counts[s.Status]++
	}
	return counts, nil
}

func (r *memSubscriptionRepo) RevenueSince(_ context.Context, _ repository.Tx, since time.Time) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total float64
	for _, s := range r.subs {
		if s.Validation == model.ValidationApproved && !s.CreatedAt.Before(since) {
			total += s.Amount
		}
	}
	return total, nil
}

func (r *memSubscriptionRepo) Delete(_ context.Context, _ repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.subs, id)
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (r *memUserRepo) Save(_ context.Context, _ repository.Tx, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) FindByEmail(_ context.Context, _ repository.Tx, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) Count(_ context.Context, _ repository.Tx) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

type memDocumentRepo struct {
	mu   sync.Mutex
	docs map[string]*model.Document
}

var _ repository.DocumentRepository = (*memDocumentRepo)(nil)

func newMemDocumentRepo() *memDocumentRepo {
	return &memDocumentRepo{docs: map[string]*model.Document{}}
}

func (r *memDocumentRepo) Save(_ context.Context, _ repository.Tx, d *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.docs[d.ID] = &cp
	return nil
}

func (r *memDocumentRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.docs[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memDocumentRepo) ListByCompany(_ context.Context, _ repository.Tx, companyID string) ([]*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Document
	for _, d := range r.docs {
		if d.CompanyID == companyID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memDocumentRepo) TotalSizeByCompany(_ context.Context, _ repository.Tx, companyID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, d := range r.docs {
		if d.CompanyID == companyID {
			total += d.SizeBytes
		}
	}
	return total, nil
}

func (r *memDocumentRepo) Delete(_ context.Context, _ repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

type memDeletionRepo struct {
	mu   sync.Mutex
	reqs map[string]*model.DeletionRequest
}

var _ repository.DeletionRequestRepository = (*memDeletionRepo)(nil)

func newMemDeletionRepo() *memDeletionRepo {
	return &memDeletionRepo{reqs: map[string]*model.DeletionRequest{}}
}

func (r *memDeletionRepo) Save(_ context.Context, _ repository.Tx, req *model.DeletionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *req
	r.reqs[req.ID] = &cp
	return nil
}

func (r *memDeletionRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.DeletionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req, ok := r.reqs[id]; ok {
		cp := *req
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memDeletionRepo) ListByStatus(_ context.Context, _ repository.Tx, status model.DeletionRequestStatus) ([]*model.DeletionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.DeletionRequest
	for _, req := range r.reqs {
		if req.Status == status {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memDeletionRepo) ListAll(_ context.Context, _ repository.Tx) ([]*model.DeletionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.DeletionRequest
	for _, req := range r.reqs {
		cp := *req
		out = append(out, &cp)
	}
	return out, nil
}

// =============================
// In-memory file store
// =============================

type memFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
	n     int
}

var _ storage.FileStore = (*memFileStore)(nil)

func newMemFileStore() *memFileStore {
	return &memFileStore{files: map[string][]byte{}}
}

func (s *memFileStore) Save(_ context.Context, originalName string, r io.Reader) (storage.StoredFile, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return storage.StoredFile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	path := strings.ReplaceAll(originalName, " ", "_")
	for existing := range s.files {
		if existing == path {
			path = path + "-dup"
		}
	}
	s.files[path] = b
	return storage.StoredFile{Path: path, SizeBytes: int64(len(b))}, nil
}

func (s *memFileStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memFileStore) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

// =============================
// Recording locker
// =============================

type recordingLocker struct {
	mu     sync.Mutex
	held   map[string]bool
	Locked []string
}

func newRecordingLocker() *recordingLocker {
	return &recordingLocker{held: map[string]bool{}}
}

func (l *recordingLocker) TryLock(_ context.Context, key string, _ time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return "", domain.ErrEntityLocked
	}
	l.held[key] = true
	l.Locked = append(l.Locked, key)
	return "tok-" + key, nil
}

func (l *recordingLocker) Unlock(_ context.Context, key, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
