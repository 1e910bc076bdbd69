package service

import (
	"context"
	"encoding/json"
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

type CreateSupplierRequest struct {
	Name          string           `json:"name" binding:"required"`
	InitialAmount decimal.Decimal  `json:"initial_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"` // defaults to initial_amount
}

type UpdateSupplierRequest struct {
	Name          *string          `json:"name"`
	InitialAmount *decimal.Decimal `json:"initial_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
}

type InitializeSupplierRequest struct {
	InitialAmount decimal.Decimal  `json:"initial_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	ExportHistory bool             `json:"export_history"`
}

type SupplierResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type BalanceEntryResponse struct {
	ID           uuid.UUID       `json:"id"`
	EntryType    string          `json:"entry_type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
}

type SupplierBalanceResponse struct {
	SupplierID    uuid.UUID              `json:"supplier_id"`
	SupplierName  string                 `json:"supplier_name"`
	CurrentAmount decimal.Decimal        `json:"current_amount"`
	Entries       []BalanceEntryResponse `json:"entries"`
}

type OrderArchiveResponse struct {
	ID             uuid.UUID       `json:"id"`
	SupplierID     uuid.UUID       `json:"supplier_id"`
	OrderCount     int             `json:"order_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	Snapshot       json.RawMessage `json:"snapshot"`
	ResetBy        string          `json:"reset_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// --- Interface ---

type SupplierService interface {
	CreateSupplier(ctx context.Context, actor string, req CreateSupplierRequest) (SupplierResponse, error)
	UpdateSupplier(ctx context.Context, actor, id string, req UpdateSupplierRequest) (SupplierResponse, error)
	DeleteSupplier(ctx context.Context, actor, id string) error
	InitializeSupplier(ctx context.Context, actor, id string, req InitializeSupplierRequest) (SupplierResponse, error)
	GetSupplier(ctx context.Context, id string) (SupplierResponse, error)
	ListSuppliers(ctx context.Context, search, sort string, page, limit int) ([]SupplierResponse, int64, error)
	GetBalance(ctx context.Context, id string, page, limit int) (SupplierBalanceResponse, int64, error)
	ListArchives(ctx context.Context, id string) ([]OrderArchiveResponse, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	orderRepo    repository.OrderRepository
	balanceRepo  repository.BalanceEntryRepository
	archiveRepo  repository.ArchiveRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	notifier     Notifier
}

func NewSupplierService(
	supplierRepo repository.SupplierRepository,
	orderRepo repository.OrderRepository,
	balanceRepo repository.BalanceEntryRepository,
	archiveRepo repository.ArchiveRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier Notifier,
) SupplierService {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &supplierService{
		supplierRepo: supplierRepo,
		orderRepo:    orderRepo,
		balanceRepo:  balanceRepo,
		archiveRepo:  archiveRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		notifier:     notifier,
	}
}

// --- CRUD ---

func (s *supplierService) CreateSupplier(ctx context.Context, actor string, req CreateSupplierRequest) (SupplierResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return SupplierResponse{}, apperr.Validation("name is required")
	}
	if req.InitialAmount.IsNegative() {
		return SupplierResponse{}, apperr.Validation("initial amount cannot be negative")
	}

	current := req.InitialAmount
	if req.CurrentAmount != nil {
		if req.CurrentAmount.IsNegative() {
			return SupplierResponse{}, apperr.Validation("current amount cannot be negative")
		}
		if req.CurrentAmount.GreaterThan(req.InitialAmount) {
			return SupplierResponse{}, apperr.Validation("current amount cannot exceed initial amount")
		}
		current = *req.CurrentAmount
	}

	if err := s.checkNameConflict(ctx, name, uuid.Nil); err != nil {
		return SupplierResponse{}, err
	}

	supplier := &model.Supplier{
		Name:          name,
		InitialAmount: req.InitialAmount,
		CurrentAmount: current,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.supplierRepo.Create(txCtx, supplier); err != nil {
			return fmt.Errorf("failed to create supplier: %w", err)
		}
		return s.writeAudit(txCtx, actor, model.ActionCreateSupplier, supplier.ID.String(), map[string]any{
			"name":           supplier.Name,
			"initial_amount": supplier.InitialAmount.StringFixed(2),
		})
	})
	if err != nil {
		return SupplierResponse{}, err
	}

	return toSupplierResponse(*supplier), nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, actor, id string, req UpdateSupplierRequest) (SupplierResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return SupplierResponse{}, apperr.Validation("invalid supplier id")
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return SupplierResponse{}, apperr.Validation("name cannot be empty")
		}
		req.Name = &trimmed
	}
	if req.InitialAmount != nil && req.InitialAmount.IsNegative() {
		return SupplierResponse{}, apperr.Validation("initial amount cannot be negative")
	}
	if req.CurrentAmount != nil && req.CurrentAmount.IsNegative() {
		return SupplierResponse{}, apperr.Validation("current amount cannot be negative")
	}

	var supplier *model.Supplier
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		supplier, err = s.supplierRepo.FindByIDForUpdate(txCtx, uid)
		if err != nil {
			return err
		}

		if req.Name != nil && !strings.EqualFold(*req.Name, supplier.Name) {
			if err := s.checkNameConflict(txCtx, *req.Name, supplier.ID); err != nil {
				return err
			}
		}

		oldCurrent := supplier.CurrentAmount
		if req.Name != nil {
			supplier.Name = *req.Name
		}
		if req.InitialAmount != nil {
			supplier.InitialAmount = *req.InitialAmount
		}
		if req.CurrentAmount != nil {
			supplier.CurrentAmount = *req.CurrentAmount
		}
		if supplier.CurrentAmount.GreaterThan(supplier.InitialAmount) {
			return apperr.Validation("current amount cannot exceed initial amount")
		}

		if err := s.supplierRepo.Update(txCtx, supplier); err != nil {
			return fmt.Errorf("failed to update supplier: %w", err)
		}

		if req.CurrentAmount != nil && !supplier.CurrentAmount.Equal(oldCurrent) {
			entry := &model.BalanceEntry{
				SupplierID:   supplier.ID,
				EntryType:    model.BalanceEntryEdit,
				Amount:       supplier.CurrentAmount.Sub(oldCurrent),
				BalanceAfter: supplier.CurrentAmount,
				Description:  "balance adjusted by edit",
			}
			if err := s.balanceRepo.Create(txCtx, entry); err != nil {
				return fmt.Errorf("failed to record balance entry: %w", err)
			}
		}

		return s.writeAudit(txCtx, actor, model.ActionUpdateSupplier, supplier.ID.String(), map[string]any{
			"name": supplier.Name,
		})
	})
	if err != nil {
		return SupplierResponse{}, err
	}

	return toSupplierResponse(*supplier), nil
}

// DeleteSupplier removes the supplier and cascades every associated record.
// Irreversible; the UI is responsible for confirmation.
func (s *supplierService) DeleteSupplier(ctx context.Context, actor, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid supplier id")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		supplier, err := s.supplierRepo.FindByIDForUpdate(txCtx, uid)
		if err != nil {
			return err
		}

		if err := s.orderRepo.DeleteBySupplierID(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete supplier orders: %w", err)
		}
		if err := s.balanceRepo.DeleteBySupplierID(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete balance entries: %w", err)
		}
		if err := s.archiveRepo.DeleteBySupplierID(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete order archives: %w", err)
		}
		if err := s.supplierRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete supplier: %w", err)
		}

		return s.writeAudit(txCtx, actor, model.ActionDeleteSupplier, uid.String(), map[string]any{
			"name": supplier.Name,
		})
	})
	if err != nil {
		return err
	}

	s.notifier.Publish(EventSupplierDeleted, map[string]any{"supplier_id": uid.String()})
	return nil
}

// InitializeSupplier resets the supplier's balances. With export enabled the
// current orders are snapshotted into an archive before being cleared;
// otherwise they are discarded. Either way the operation is irreversible.
func (s *supplierService) InitializeSupplier(ctx context.Context, actor, id string, req InitializeSupplierRequest) (SupplierResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return SupplierResponse{}, apperr.Validation("invalid supplier id")
	}

	newInitial, newCurrent, err := ApplyInitialize(req.InitialAmount, req.CurrentAmount)
	if err != nil {
		return SupplierResponse{}, err
	}

	var supplier *model.Supplier
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		supplier, err = s.supplierRepo.FindByIDForUpdate(txCtx, uid)
		if err != nil {
			return err
		}

		orders, err := s.orderRepo.FindBySupplierID(txCtx, uid)
		if err != nil {
			return fmt.Errorf("failed to load supplier orders: %w", err)
		}

		if req.ExportHistory && len(orders) > 0 {
			snapshot, err := json.Marshal(orders)
			if err != nil {
				return fmt.Errorf("failed to snapshot orders: %w", err)
			}
			summary := SummarizeOrders(orders)
			archive := &model.OrderArchive{
				SupplierID:     uid,
				OrderCount:     summary.Count,
				TotalAmount:    summary.TotalAmount,
				ApprovedAmount: summary.ApprovedAmount,
				Snapshot:       string(snapshot),
				ResetBy:        actor,
			}
			if err := s.archiveRepo.Create(txCtx, archive); err != nil {
				return fmt.Errorf("failed to archive orders: %w", err)
			}
		}

		if len(orders) > 0 {
			if err := s.orderRepo.DeleteBySupplierID(txCtx, uid); err != nil {
				return fmt.Errorf("failed to clear supplier orders: %w", err)
			}
		}

		oldCurrent := supplier.CurrentAmount
		supplier.InitialAmount = newInitial
		supplier.CurrentAmount = newCurrent
		if err := s.supplierRepo.Update(txCtx, supplier); err != nil {
			return fmt.Errorf("failed to update supplier: %w", err)
		}

		entry := &model.BalanceEntry{
			SupplierID:   uid,
			EntryType:    model.BalanceEntryInitialize,
			Amount:       newCurrent.Sub(oldCurrent),
			BalanceAfter: newCurrent,
			Description:  fmt.Sprintf("balance reset by %s", actor),
		}
		if err := s.balanceRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("failed to record balance entry: %w", err)
		}

		return s.writeAudit(txCtx, actor, model.ActionInitializeSupplier, uid.String(), map[string]any{
			"name":           supplier.Name,
			"initial_amount": newInitial.StringFixed(2),
			"current_amount": newCurrent.StringFixed(2),
			"export_history": req.ExportHistory,
			"orders_cleared": len(orders),
		})
	})
	if err != nil {
		return SupplierResponse{}, err
	}

	s.notifier.Publish(EventSupplierInitialized, map[string]any{
		"supplier_id":    uid.String(),
		"initial_amount": newInitial.StringFixed(2),
	})

	return toSupplierResponse(*supplier), nil
}

// --- Queries ---

func (s *supplierService) GetSupplier(ctx context.Context, id string) (SupplierResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return SupplierResponse{}, apperr.Validation("invalid supplier id")
	}
	supplier, err := s.supplierRepo.FindByID(ctx, uid)
	if err != nil {
		return SupplierResponse{}, err
	}
	return toSupplierResponse(*supplier), nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, search, sort string, page, limit int) ([]SupplierResponse, int64, error) {
	suppliers, total, err := s.supplierRepo.List(ctx, search, sort, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch suppliers: %w", err)
	}

	res := make([]SupplierResponse, 0, len(suppliers))
	for _, sup := range suppliers {
		res = append(res, toSupplierResponse(sup))
	}
	return res, total, nil
}

func (s *supplierService) GetBalance(ctx context.Context, id string, page, limit int) (SupplierBalanceResponse, int64, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return SupplierBalanceResponse{}, 0, apperr.Validation("invalid supplier id")
	}

	supplier, err := s.supplierRepo.FindByID(ctx, uid)
	if err != nil {
		return SupplierBalanceResponse{}, 0, err
	}

	entries, total, err := s.balanceRepo.ListBySupplierID(ctx, uid, page, limit)
	if err != nil {
		return SupplierBalanceResponse{}, 0, fmt.Errorf("failed to fetch balance entries: %w", err)
	}

	res := SupplierBalanceResponse{
		SupplierID:    supplier.ID,
		SupplierName:  supplier.Name,
		CurrentAmount: supplier.CurrentAmount,
		Entries:       make([]BalanceEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		res.Entries = append(res.Entries, BalanceEntryResponse{
			ID:           e.ID,
			EntryType:    e.EntryType,
			Amount:       e.Amount,
			BalanceAfter: e.BalanceAfter,
			Description:  e.Description,
			CreatedAt:    e.CreatedAt,
		})
	}
	return res, total, nil
}

func (s *supplierService) ListArchives(ctx context.Context, id string) ([]OrderArchiveResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid supplier id")
	}

	if _, err := s.supplierRepo.FindByID(ctx, uid); err != nil {
		return nil, err
	}

	archives, err := s.archiveRepo.ListBySupplierID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archives: %w", err)
	}

	res := make([]OrderArchiveResponse, 0, len(archives))
	for _, a := range archives {
		res = append(res, OrderArchiveResponse{
			ID:             a.ID,
			SupplierID:     a.SupplierID,
			OrderCount:     a.OrderCount,
			TotalAmount:    a.TotalAmount,
			ApprovedAmount: a.ApprovedAmount,
			Snapshot:       json.RawMessage(a.Snapshot),
			ResetBy:        a.ResetBy,
			CreatedAt:      a.CreatedAt,
		})
	}
	return res, nil
}

// --- Helpers ---

// checkNameConflict enforces case-insensitive name uniqueness, ignoring the
// supplier identified by selfID (for renames).
func (s *supplierService) checkNameConflict(ctx context.Context, name string, selfID uuid.UUID) error {
	existing, err := s.supplierRepo.FindByName(ctx, name)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to check supplier name: %w", err)
	}
	if existing.ID != selfID {
		return apperr.Conflict("supplier %q already exists", name)
	}
	return nil
}

func (s *supplierService) writeAudit(ctx context.Context, actor, action, entityID string, details map[string]any) error {
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		Actor:    actor,
		Action:   action,
		EntityID: entityID,
		Details:  string(payload),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toSupplierResponse(s model.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		InitialAmount: s.InitialAmount,
		CurrentAmount: s.CurrentAmount,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
