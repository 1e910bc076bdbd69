package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"
)

// ApprovalService drives the order lifecycle: Pending orders transition
// exactly once to Approved or Rejected, and only approval moves the
// supplier's balance. Both outcomes are terminal, which guarantees at most
// one balance mutation per order.
type ApprovalService interface {
	Approve(ctx context.Context, orderID, handlerName string) (OrderResponse, error)
	Reject(ctx context.Context, orderID, handlerName string) (OrderResponse, error)
}

type approvalService struct {
	orderRepo    repository.OrderRepository
	supplierRepo repository.SupplierRepository
	balanceRepo  repository.BalanceEntryRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	notifier     Notifier
}

func NewApprovalService(
	orderRepo repository.OrderRepository,
	supplierRepo repository.SupplierRepository,
	balanceRepo repository.BalanceEntryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier Notifier,
) ApprovalService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &approvalService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		balanceRepo:  balanceRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		notifier:     notifier,
	}
}

// Approve marks the order Approved and deducts its amount from the owning
// supplier. Order and supplier rows are locked inside one transaction, so a
// concurrent handler of the same order waits, re-reads a terminal status,
// and fails with a conflict instead of double-applying.
func (s *approvalService) Approve(ctx context.Context, orderID, handlerName string) (OrderResponse, error) {
	handlerName = strings.TrimSpace(handlerName)
	if handlerName == "" {
		return OrderResponse{}, apperr.Validation("handler_name is required")
	}

	var order *model.Order
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderStatusPending {
			return apperr.Conflict("order %s is already %s", orderID, order.Status)
		}

		supplier, err := s.supplierRepo.FindByIDForUpdate(txCtx, order.SupplierID)
		if err != nil {
			return err
		}

		supplier.CurrentAmount = ApplyApproval(supplier.CurrentAmount, order.Amount)
		if err := s.supplierRepo.Update(txCtx, supplier); err != nil {
			return fmt.Errorf("failed to update supplier balance: %w", err)
		}

		order.Status = model.OrderStatusApproved
		order.Handler = handlerName
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		entry := &model.BalanceEntry{
			SupplierID:   supplier.ID,
			EntryType:    model.BalanceEntryApproval,
			Amount:       order.Amount.Neg(),
			BalanceAfter: supplier.CurrentAmount,
			Description:  fmt.Sprintf("order %s approved by %s", order.OrderID, handlerName),
		}
		if err := s.balanceRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("failed to record balance entry: %w", err)
		}

		return writeOrderAudit(txCtx, s.auditRepo, handlerName, model.ActionApproveOrder, order)
	})
	if err != nil {
		return OrderResponse{}, err
	}

	resp := toOrderResponse(*order)
	s.notifier.Publish(EventOrderApproved, resp)
	return resp, nil
}

// Reject marks the order Rejected. Rejection never touches the supplier's
// balance: the amount was never deducted, so there is nothing to reinstate.
func (s *approvalService) Reject(ctx context.Context, orderID, handlerName string) (OrderResponse, error) {
	handlerName = strings.TrimSpace(handlerName)
	if handlerName == "" {
		return OrderResponse{}, apperr.Validation("handler_name is required")
	}

	var order *model.Order
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return err
		}
		if order.Status != model.OrderStatusPending {
			return apperr.Conflict("order %s is already %s", orderID, order.Status)
		}

		order.Status = model.OrderStatusRejected
		order.Handler = handlerName
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return writeOrderAudit(txCtx, s.auditRepo, handlerName, model.ActionRejectOrder, order)
	})
	if err != nil {
		return OrderResponse{}, err
	}

	resp := toOrderResponse(*order)
	s.notifier.Publish(EventOrderRejected, resp)
	return resp, nil
}

func writeOrderAudit(ctx context.Context, repo repository.AuditRepository, actor, action string, order *model.Order) error {
	details, _ := json.Marshal(map[string]any{
		"supplier_id": order.SupplierID.String(),
		"title":       order.Title,
		"amount":      order.Amount.StringFixed(2),
		"status":      order.Status,
	})
	entry := &model.AuditLog{
		Actor:    actor,
		Action:   action,
		EntityID: order.OrderID,
		Details:  string(details),
	}
	if err := repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
