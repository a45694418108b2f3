// Package documenttest provides in-memory fakes for document and catalog
// repositories. The fakes deliberately do NOT filter by tenant, so tests can
// prove the service layer's defensive re-filtering on its own.
package documenttest

import (
	"context"
	"sync"
	"time"

	"billhub/internal/core/apperror"
	"billhub/internal/core/entity"
	"billhub/internal/core/id"
	"billhub/internal/core/types"
	"billhub/internal/domain"
	"billhub/internal/domain/catalogs/business"
	"billhub/internal/domain/catalogs/client"
	"billhub/internal/domain/documents"
)

// PassThroughTx runs the function directly, no transaction semantics.
type PassThroughTx struct{}

func (PassThroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NewDocument builds a minimal stored document for seeding fakes.
func NewDocument(kind documents.Kind, tenantID string, at time.Time) *documents.Document {
	doc := documents.New(kind, tenantID,
		documents.PartySnapshot{Name: "Seed Client"},
		documents.PartySnapshot{Name: "Seed Business", Company: "Seed Business Ltd"},
		at)
	doc.AddLine(nil, "Seed line", 1, types.MustMoney("100"))
	return doc
}

// --- document repository ---

// FakeRepo is an in-memory documents.Repository.
type FakeRepo struct {
	mu    sync.Mutex
	docs  map[id.ID]*documents.Document
	lines map[id.ID][]documents.LineItem
}

// NewFakeRepo creates an empty FakeRepo.
func NewFakeRepo() *FakeRepo {
	return &FakeRepo{
		docs:  make(map[id.ID]*documents.Document),
		lines: make(map[id.ID][]documents.LineItem),
	}
}

// Seed stores a document (with its lines) directly.
func (r *FakeRepo) Seed(doc *documents.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *doc
	r.docs[doc.ID] = &cp
	r.lines[doc.ID] = append([]documents.LineItem(nil), doc.Lines...)
}

// CountByKind returns the number of stored documents of the kind.
func (r *FakeRepo) CountByKind(kind documents.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.docs {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func (r *FakeRepo) Create(ctx context.Context, doc *documents.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *FakeRepo) GetByID(ctx context.Context, docID id.ID) (*documents.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("document", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *FakeRepo) GetByCode(ctx context.Context, code string) (*documents.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range r.docs {
		if doc.Code == code {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("document", code)
}

func (r *FakeRepo) Update(ctx context.Context, doc *documents.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("document", doc.ID.String())
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *FakeRepo) GetByLinkedID(ctx context.Context, originID id.ID, kind documents.Kind) (*documents.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range r.docs {
		if doc.Kind == kind && doc.LinkedDocumentID != nil && *doc.LinkedDocumentID == originID {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("document", originID.String())
}

func (r *FakeRepo) GetLines(ctx context.Context, docID id.ID) ([]documents.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]documents.LineItem(nil), r.lines[docID]...), nil
}

func (r *FakeRepo) SaveLines(ctx context.Context, docID id.ID, lines []documents.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[docID] = append([]documents.LineItem(nil), lines...)
	return nil
}

func (r *FakeRepo) List(ctx context.Context, f documents.ListFilter) (domain.ListResult[*documents.Document], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []*documents.Document
	for _, doc := range r.docs {
		if f.Kind != nil && doc.Kind != *f.Kind {
			continue
		}
		if f.Status != nil && doc.Status != *f.Status {
			continue
		}
		if f.ClientID != nil && doc.ClientID != *f.ClientID {
			continue
		}
		cp := *doc
		items = append(items, &cp)
	}

	return domain.ListResult[*documents.Document]{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      f.Limit,
		Offset:     f.Offset,
	}, nil
}

func (r *FakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*documents.Document, error) {
	return r.GetByID(ctx, docID)
}

var _ documents.Repository = (*FakeRepo)(nil)

// --- catalog repositories ---

type catalogRecord interface {
	entity.Validatable
	GetID() id.ID
	GetCode() string
}

type fakeCatalog[T catalogRecord] struct {
	mu    sync.Mutex
	items map[id.ID]T
}

func (r *fakeCatalog[T]) store(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.GetID()] = item
}

func (r *fakeCatalog[T]) Create(ctx context.Context, item T) error {
	r.store(item)
	return nil
}

func (r *fakeCatalog[T]) GetByID(ctx context.Context, itemID id.ID) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound("record", itemID.String())
	}
	return item, nil
}

func (r *fakeCatalog[T]) GetByCode(ctx context.Context, code string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.GetCode() == code {
			return item, nil
		}
	}
	var zero T
	return zero, apperror.NewNotFound("record", code)
}

func (r *fakeCatalog[T]) Update(ctx context.Context, item T) error {
	r.store(item)
	return nil
}

func (r *fakeCatalog[T]) SetDeletionMark(ctx context.Context, itemID id.ID, marked bool) error {
	return nil
}

func (r *fakeCatalog[T]) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]T, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	return domain.ListResult[T]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeCatalog[T]) Exists(ctx context.Context, itemID id.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[itemID]
	return ok, nil
}

func (r *fakeCatalog[T]) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByCode(ctx, code)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// FakeClientRepo is an in-memory client.Repository.
type FakeClientRepo struct {
	fakeCatalog[*client.Client]
}

// NewFakeClientRepo creates a FakeClientRepo seeded with the given clients.
func NewFakeClientRepo(clients ...*client.Client) *FakeClientRepo {
	r := &FakeClientRepo{fakeCatalog[*client.Client]{items: make(map[id.ID]*client.Client)}}
	for _, c := range clients {
		r.store(c)
	}
	return r
}

func (r *FakeClientRepo) FindByEmail(ctx context.Context, email string) (*client.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, apperror.NewNotFound("client", email)
}

func (r *FakeClientRepo) GetForUpdate(ctx context.Context, itemID id.ID) (*client.Client, error) {
	return r.GetByID(ctx, itemID)
}

var _ client.Repository = (*FakeClientRepo)(nil)

// FakeBusinessRepo is an in-memory business.Repository.
type FakeBusinessRepo struct {
	fakeCatalog[*business.Business]
}

// NewFakeBusinessRepo creates a FakeBusinessRepo seeded with the given profiles.
func NewFakeBusinessRepo(profiles ...*business.Business) *FakeBusinessRepo {
	r := &FakeBusinessRepo{fakeCatalog[*business.Business]{items: make(map[id.ID]*business.Business)}}
	for _, b := range profiles {
		r.store(b)
	}
	return r
}

func (r *FakeBusinessRepo) GetForUpdate(ctx context.Context, itemID id.ID) (*business.Business, error) {
	return r.GetByID(ctx, itemID)
}

var _ business.Repository = (*FakeBusinessRepo)(nil)
