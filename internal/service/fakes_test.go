package service_test

import (
	"context"
	"strings"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

// memStore backs the fake repositories used across the service tests.
type memStore struct {
	suppliers map[uuid.UUID]*model.Supplier
	orders    map[string]*model.Order
	entries   []model.BalanceEntry
	archives  []model.OrderArchive
	audits    []model.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		suppliers: make(map[uuid.UUID]*model.Supplier),
		orders:    make(map[string]*model.Order),
	}
}

// --- supplier repo ---

type fakeSupplierRepo struct{ s *memStore }

func (f *fakeSupplierRepo) Create(_ context.Context, supplier *model.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	cp := *supplier
	f.s.suppliers[supplier.ID] = &cp
	return nil
}

func (f *fakeSupplierRepo) Update(_ context.Context, supplier *model.Supplier) error {
	cp := *supplier
	f.s.suppliers[supplier.ID] = &cp
	return nil
}

func (f *fakeSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.s.suppliers, id)
	return nil
}

func (f *fakeSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	supplier, ok := f.s.suppliers[id]
	if !ok {
		return nil, apperr.NotFound("supplier %s not found", id)
	}
	cp := *supplier
	return &cp, nil
}

func (f *fakeSupplierRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeSupplierRepo) FindByName(_ context.Context, name string) (*model.Supplier, error) {
	for _, supplier := range f.s.suppliers {
		if strings.EqualFold(supplier.Name, name) {
			cp := *supplier
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("supplier %q not found", name)
}

func (f *fakeSupplierRepo) List(_ context.Context, search, _ string, _, _ int) ([]model.Supplier, int64, error) {
	var out []model.Supplier
	for _, supplier := range f.s.suppliers {
		if search == "" || strings.Contains(strings.ToLower(supplier.Name), strings.ToLower(search)) {
			out = append(out, *supplier)
		}
	}
	return out, int64(len(out)), nil
}

// --- order repo ---

type fakeOrderRepo struct{ s *memStore }

func (f *fakeOrderRepo) Create(_ context.Context, order *model.Order) error {
	cp := *order
	f.s.orders[order.OrderID] = &cp
	return nil
}

func (f *fakeOrderRepo) Update(_ context.Context, order *model.Order) error {
	cp := *order
	f.s.orders[order.OrderID] = &cp
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, orderID string) (*model.Order, error) {
	order, ok := f.s.orders[orderID]
	if !ok {
		return nil, apperr.NotFound("order %s not found", orderID)
	}
	cp := *order
	return &cp, nil
}

func (f *fakeOrderRepo) FindByIDForUpdate(ctx context.Context, orderID string) (*model.Order, error) {
	return f.FindByID(ctx, orderID)
}

func (f *fakeOrderRepo) Exists(_ context.Context, orderID string) (bool, error) {
	_, ok := f.s.orders[orderID]
	return ok, nil
}

func (f *fakeOrderRepo) List(_ context.Context, filter repository.OrderFilter, _, _ int) ([]model.Order, int64, error) {
	var out []model.Order
	for _, order := range f.s.orders {
		if filter.SupplierID != nil && order.SupplierID != *filter.SupplierID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		out = append(out, *order)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderRepo) FindBySupplierID(_ context.Context, supplierID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, order := range f.s.orders {
		if order.SupplierID == supplierID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) DeleteBySupplierID(_ context.Context, supplierID uuid.UUID) error {
	for id, order := range f.s.orders {
		if order.SupplierID == supplierID {
			delete(f.s.orders, id)
		}
	}
	return nil
}

// --- balance entry repo ---

type fakeBalanceRepo struct{ s *memStore }

func (f *fakeBalanceRepo) Create(_ context.Context, entry *model.BalanceEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	f.s.entries = append(f.s.entries, *entry)
	return nil
}

func (f *fakeBalanceRepo) ListBySupplierID(_ context.Context, supplierID uuid.UUID, _, _ int) ([]model.BalanceEntry, int64, error) {
	var out []model.BalanceEntry
	for _, e := range f.s.entries {
		if e.SupplierID == supplierID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeBalanceRepo) DeleteBySupplierID(_ context.Context, supplierID uuid.UUID) error {
	kept := f.s.entries[:0]
	for _, e := range f.s.entries {
		if e.SupplierID != supplierID {
			kept = append(kept, e)
		}
	}
	f.s.entries = kept
	return nil
}

// --- archive repo ---

type fakeArchiveRepo struct{ s *memStore }

func (f *fakeArchiveRepo) Create(_ context.Context, archive *model.OrderArchive) error {
	if archive.ID == uuid.Nil {
		archive.ID = uuid.New()
	}
	f.s.archives = append(f.s.archives, *archive)
	return nil
}

func (f *fakeArchiveRepo) ListBySupplierID(_ context.Context, supplierID uuid.UUID) ([]model.OrderArchive, error) {
	var out []model.OrderArchive
	for _, a := range f.s.archives {
		if a.SupplierID == supplierID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArchiveRepo) DeleteBySupplierID(_ context.Context, supplierID uuid.UUID) error {
	kept := f.s.archives[:0]
	for _, a := range f.s.archives {
		if a.SupplierID != supplierID {
			kept = append(kept, a)
		}
	}
	f.s.archives = kept
	return nil
}

// --- audit repo ---

type fakeAuditRepo struct{ s *memStore }

func (f *fakeAuditRepo) Create(_ context.Context, entry *model.AuditLog) error {
	f.s.audits = append(f.s.audits, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	return f.s.audits, int64(len(f.s.audits)), nil
}

// --- tx manager / notifier ---

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Publish(event string, _ any) {
	n.events = append(n.events, event)
}
