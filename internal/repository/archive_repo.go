package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArchiveRepository stores snapshots written by initialize-with-export.
type ArchiveRepository interface {
	Create(ctx context.Context, archive *model.OrderArchive) error
	ListBySupplierID(ctx context.Context, supplierID uuid.UUID) ([]model.OrderArchive, error)
	DeleteBySupplierID(ctx context.Context, supplierID uuid.UUID) error
}

type archiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: db}
}

func (r *archiveRepository) Create(ctx context.Context, archive *model.OrderArchive) error {
	return GetDB(ctx, r.db).Create(archive).Error
}

func (r *archiveRepository) ListBySupplierID(ctx context.Context, supplierID uuid.UUID) ([]model.OrderArchive, error) {
	var archives []model.OrderArchive
	err := GetDB(ctx, r.db).Where("supplier_id = ?", supplierID).
		Order("created_at DESC").Find(&archives).Error
	if err != nil {
		return nil, err
	}
	return archives, nil
}

func (r *archiveRepository) DeleteBySupplierID(ctx context.Context, supplierID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("supplier_id = ?", supplierID).Delete(&model.OrderArchive{}).Error
}
