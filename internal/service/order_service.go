package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type SubmitOrderRequest struct {
	SupplierID string          `json:"supplier_id" binding:"required"`
	Title      string          `json:"title" binding:"required"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	OrderDate  string          `json:"order_date" binding:"required"` // RFC3339 or YYYY-MM-DD
	OrderedBy  string          `json:"ordered_by" binding:"required"`
	Notes      string          `json:"notes"`
}

type OrderListFilter struct {
	SupplierID string
	Status     string
	Page       int
	Limit      int
}

type OrderResponse struct {
	OrderID      string          `json:"order_id"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name,omitempty"`
	Title        string          `json:"title"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	OrderDate    time.Time       `json:"order_date"`
	OrderedBy    string          `json:"ordered_by"`
	Notes        string          `json:"notes"`
	Status       string          `json:"status"`
	Handler      string          `json:"handler"`
	CreatedAt    time.Time       `json:"created_at"`
}

// --- Interface ---

type OrderService interface {
	SubmitOrder(ctx context.Context, req SubmitOrderRequest) (OrderResponse, error)
	ListOrders(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error)
	GetOrder(ctx context.Context, orderID string) (OrderResponse, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	notifier     Notifier
	now          func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	supplierRepo repository.SupplierRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier Notifier,
) OrderService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &orderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		notifier:     notifier,
		now:          time.Now,
	}
}

// SubmitOrder creates a Pending order. The supplier's balance is untouched:
// balance only moves when an admin approves.
func (s *orderService) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (OrderResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return OrderResponse{}, apperr.Validation("invalid supplier id")
	}
	if strings.TrimSpace(req.Title) == "" {
		return OrderResponse{}, apperr.Validation("title is required")
	}
	if strings.TrimSpace(req.OrderedBy) == "" {
		return OrderResponse{}, apperr.Validation("ordered_by is required")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return OrderResponse{}, apperr.Validation("amount must be greater than zero")
	}
	orderDate, err := parseOrderDate(req.OrderDate)
	if err != nil {
		return OrderResponse{}, err
	}

	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return OrderResponse{}, err
	}

	orderID, err := s.newOrderID(ctx, supplierID)
	if err != nil {
		return OrderResponse{}, err
	}

	order := &model.Order{
		OrderID:    orderID,
		SupplierID: supplierID,
		Title:      strings.TrimSpace(req.Title),
		Category:   req.Category,
		Amount:     req.Amount,
		OrderDate:  orderDate,
		OrderedBy:  strings.TrimSpace(req.OrderedBy),
		Notes:      req.Notes,
		Status:     model.OrderStatusPending,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orderRepo.Create(txCtx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return writeOrderAudit(txCtx, s.auditRepo, order.OrderedBy, model.ActionSubmitOrder, order)
	})
	if err != nil {
		return OrderResponse{}, err
	}

	resp := toOrderResponse(*order)
	resp.SupplierName = supplier.Name
	s.notifier.Publish(EventOrderSubmitted, resp)

	return resp, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	repoFilter := repository.OrderFilter{}
	if filter.SupplierID != "" {
		uid, err := uuid.Parse(filter.SupplierID)
		if err != nil {
			return nil, 0, apperr.Validation("invalid supplier id")
		}
		repoFilter.SupplierID = &uid
	}
	if filter.Status != "" {
		if !validOrderStatus(filter.Status) {
			return nil, 0, apperr.Validation("status must be one of: Pending, Approved, Rejected")
		}
		repoFilter.Status = filter.Status
	}

	orders, total, err := s.orderRepo.List(ctx, repoFilter, filter.Page, filter.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	res := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		res = append(res, toOrderResponse(o))
	}
	return res, total, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return OrderResponse{}, err
	}
	return toOrderResponse(*order), nil
}

// --- Helpers ---

// newOrderID builds a time-derived identifier prefixed with the supplier's
// short id, retrying on the unlikely same-millisecond collision.
func (s *orderService) newOrderID(ctx context.Context, supplierID uuid.UUID) (string, error) {
	prefix := supplierID.String()[:8]
	for attempt := 0; attempt < 5; attempt++ {
		id := fmt.Sprintf("ORD-%s-%d", prefix, s.now().UnixMilli()+int64(attempt))
		exists, err := s.orderRepo.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check order id: %w", err)
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique order id")
}

func parseOrderDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperr.Validation("order_date is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Validation("order_date must be RFC3339 or YYYY-MM-DD")
}

func validOrderStatus(status string) bool {
	return status == model.OrderStatusPending ||
		status == model.OrderStatusApproved ||
		status == model.OrderStatusRejected
}

func toOrderResponse(o model.Order) OrderResponse {
	resp := OrderResponse{
		OrderID:    o.OrderID,
		SupplierID: o.SupplierID,
		Title:      o.Title,
		Category:   o.Category,
		Amount:     o.Amount,
		OrderDate:  o.OrderDate,
		OrderedBy:  o.OrderedBy,
		Notes:      o.Notes,
		Status:     o.Status,
		Handler:    o.Handler,
		CreatedAt:  o.CreatedAt,
	}
	if o.Supplier != nil {
		resp.SupplierName = o.Supplier.Name
	}
	return resp
}
