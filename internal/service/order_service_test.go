package service_test

import (
	"context"
	"strings"
	"testing"

	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc      service.OrderService
	store    *memStore
	notifier *recordingNotifier
}

func newOrderFixture() orderFixture {
	store := newMemStore()
	notifier := &recordingNotifier{}
	svc := service.NewOrderService(
		&fakeOrderRepo{s: store},
		&fakeSupplierRepo{s: store},
		&fakeAuditRepo{s: store},
		passthroughTx{},
		notifier,
	)
	return orderFixture{svc: svc, store: store, notifier: notifier}
}

func (f orderFixture) seedSupplier(t *testing.T, name, initial, current string) model.Supplier {
	t.Helper()
	supplier := &model.Supplier{
		ID:            uuid.New(),
		Name:          name,
		InitialAmount: dec(initial),
		CurrentAmount: dec(current),
	}
	require.NoError(t, (&fakeSupplierRepo{s: f.store}).Create(context.Background(), supplier))
	return *supplier
}

func TestSubmitOrder(t *testing.T) {
	t.Run("creates a pending order without touching the balance", func(t *testing.T) {
		f := newOrderFixture()
		supplier := f.seedSupplier(t, "Acme", "1000", "1000")

		resp, err := f.svc.SubmitOrder(context.Background(), service.SubmitOrderRequest{
			SupplierID: supplier.ID.String(),
			Title:      "Office chairs",
			Category:   "Office Supplies",
			Amount:     dec("300"),
			OrderDate:  "2026-08-15",
			OrderedBy:  "bob",
		})

		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusPending, resp.Status)
		assert.Equal(t, "Acme", resp.SupplierName)
		assert.Empty(t, resp.Handler)

		// balance moves only on approval
		assert.True(t, dec("1000").Equal(f.store.suppliers[supplier.ID].CurrentAmount))

		require.Len(t, f.store.audits, 1)
		assert.Equal(t, model.ActionSubmitOrder, f.store.audits[0].Action)
		assert.Contains(t, f.notifier.events, service.EventOrderSubmitted)
	})

	t.Run("order id carries the supplier short id", func(t *testing.T) {
		f := newOrderFixture()
		supplier := f.seedSupplier(t, "Acme", "1000", "1000")

		resp, err := f.svc.SubmitOrder(context.Background(), service.SubmitOrderRequest{
			SupplierID: supplier.ID.String(),
			Title:      "Water",
			Amount:     dec("10"),
			OrderDate:  "2026-08-15",
			OrderedBy:  "bob",
		})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.OrderID, "ORD-"+supplier.ID.String()[:8]+"-"), "got %s", resp.OrderID)
	})

	t.Run("accepts RFC3339 dates", func(t *testing.T) {
		f := newOrderFixture()
		supplier := f.seedSupplier(t, "Acme", "1000", "1000")

		resp, err := f.svc.SubmitOrder(context.Background(), service.SubmitOrderRequest{
			SupplierID: supplier.ID.String(),
			Title:      "Water",
			Amount:     dec("10"),
			OrderDate:  "2026-08-15T10:30:00Z",
			OrderedBy:  "bob",
		})

		require.NoError(t, err)
		assert.Equal(t, 2026, resp.OrderDate.Year())
	})

	t.Run("unknown supplier not found", func(t *testing.T) {
		f := newOrderFixture()

		_, err := f.svc.SubmitOrder(context.Background(), service.SubmitOrderRequest{
			SupplierID: uuid.NewString(),
			Title:      "Water",
			Amount:     dec("10"),
			OrderDate:  "2026-08-15",
			OrderedBy:  "bob",
		})

		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("validation failures", func(t *testing.T) {
		f := newOrderFixture()
		supplier := f.seedSupplier(t, "Acme", "1000", "1000")

		base := service.SubmitOrderRequest{
			SupplierID: supplier.ID.String(),
			Title:      "Water",
			Amount:     dec("10"),
			OrderDate:  "2026-08-15",
			OrderedBy:  "bob",
		}

		tests := []struct {
			name   string
			mutate func(*service.SubmitOrderRequest)
		}{
			{"bad supplier id", func(r *service.SubmitOrderRequest) { r.SupplierID = "not-a-uuid" }},
			{"blank title", func(r *service.SubmitOrderRequest) { r.Title = "  " }},
			{"blank ordered_by", func(r *service.SubmitOrderRequest) { r.OrderedBy = "" }},
			{"zero amount", func(r *service.SubmitOrderRequest) { r.Amount = dec("0") }},
			{"negative amount", func(r *service.SubmitOrderRequest) { r.Amount = dec("-5") }},
			{"bad date", func(r *service.SubmitOrderRequest) { r.OrderDate = "15/08/2026" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := base
				tt.mutate(&req)
				_, err := f.svc.SubmitOrder(context.Background(), req)
				require.Error(t, err)
				assert.True(t, apperr.IsValidation(err))
			})
		}
	})
}

func TestListOrders(t *testing.T) {
	f := newOrderFixture()
	supplier := f.seedSupplier(t, "Acme", "1000", "1000")
	other := f.seedSupplier(t, "Globex", "500", "500")

	orderRepo := &fakeOrderRepo{s: f.store}
	require.NoError(t, orderRepo.Create(context.Background(), &model.Order{
		OrderID: "ORD-1", SupplierID: supplier.ID, Amount: dec("100"), Status: model.OrderStatusPending,
	}))
	require.NoError(t, orderRepo.Create(context.Background(), &model.Order{
		OrderID: "ORD-2", SupplierID: supplier.ID, Amount: dec("200"), Status: model.OrderStatusApproved,
	}))
	require.NoError(t, orderRepo.Create(context.Background(), &model.Order{
		OrderID: "ORD-3", SupplierID: other.ID, Amount: dec("50"), Status: model.OrderStatusPending,
	}))

	t.Run("filter by supplier", func(t *testing.T) {
		orders, total, err := f.svc.ListOrders(context.Background(), service.OrderListFilter{
			SupplierID: supplier.ID.String(), Page: 1, Limit: 20,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, orders, 2)
	})

	t.Run("filter by status", func(t *testing.T) {
		orders, total, err := f.svc.ListOrders(context.Background(), service.OrderListFilter{
			Status: model.OrderStatusPending, Page: 1, Limit: 20,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, o := range orders {
			assert.Equal(t, model.OrderStatusPending, o.Status)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, _, err := f.svc.ListOrders(context.Background(), service.OrderListFilter{Status: "shipped"})
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestGetOrder(t *testing.T) {
	f := newOrderFixture()
	supplier := f.seedSupplier(t, "Acme", "1000", "1000")
	orderRepo := &fakeOrderRepo{s: f.store}
	require.NoError(t, orderRepo.Create(context.Background(), &model.Order{
		OrderID: "ORD-1", SupplierID: supplier.ID, Amount: dec("100"), Status: model.OrderStatusPending,
	}))

	resp, err := f.svc.GetOrder(context.Background(), "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", resp.OrderID)

	_, err = f.svc.GetOrder(context.Background(), "ORD-missing")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
