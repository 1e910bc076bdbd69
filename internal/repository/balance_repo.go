package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BalanceEntryRepository stores the append-only balance ledger.
type BalanceEntryRepository interface {
	Create(ctx context.Context, entry *model.BalanceEntry) error
	ListBySupplierID(ctx context.Context, supplierID uuid.UUID, page, limit int) ([]model.BalanceEntry, int64, error)
	DeleteBySupplierID(ctx context.Context, supplierID uuid.UUID) error
}

type balanceEntryRepository struct {
	db *gorm.DB
}

func NewBalanceEntryRepository(db *gorm.DB) BalanceEntryRepository {
	return &balanceEntryRepository{db: db}
}

func (r *balanceEntryRepository) Create(ctx context.Context, entry *model.BalanceEntry) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *balanceEntryRepository) ListBySupplierID(ctx context.Context, supplierID uuid.UUID, page, limit int) ([]model.BalanceEntry, int64, error) {
	var entries []model.BalanceEntry
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.BalanceEntry{}).Where("supplier_id = ?", supplierID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := db.Where("supplier_id = ?", supplierID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *balanceEntryRepository) DeleteBySupplierID(ctx context.Context, supplierID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("supplier_id = ?", supplierID).Delete(&model.BalanceEntry{}).Error
}
