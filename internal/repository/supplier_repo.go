package repository

import (
	"context"
	"errors"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	Update(ctx context.Context, supplier *model.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	// FindByIDForUpdate loads the supplier row with a FOR UPDATE lock. Every
	// balance-mutating operation goes through this inside a transaction so
	// concurrent approvals/initializes against one supplier serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	FindByName(ctx context.Context, name string) (*model.Supplier, error)
	List(ctx context.Context, search, sort string, page, limit int) ([]model.Supplier, int64, error)
}

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	return GetDB(ctx, r.db).Create(supplier).Error
}

func (r *supplierRepository) Update(ctx context.Context, supplier *model.Supplier) error {
	return GetDB(ctx, r.db).Save(supplier).Error
}

func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Supplier{}).Error
}

func (r *supplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := GetDB(ctx, r.db).First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("supplier %s not found", id)
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&supplier, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("supplier %s not found", id)
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByName does a case-insensitive lookup; supplier names are unique
// regardless of casing.
func (r *supplierRepository) FindByName(ctx context.Context, name string) (*model.Supplier, error) {
	var supplier model.Supplier
	err := GetDB(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("supplier %q not found", name)
		}
		return nil, err
	}
	return &supplier, nil
}

var supplierSortColumns = map[string]string{
	"name":           "LOWER(name) ASC",
	"initial_amount": "initial_amount DESC",
	"current_amount": "current_amount DESC",
}

func (r *supplierRepository) List(ctx context.Context, search, sort string, page, limit int) ([]model.Supplier, int64, error) {
	var suppliers []model.Supplier
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Supplier{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := supplierSortColumns[sort]
	if !ok {
		order = "created_at DESC"
	}

	offset := (page - 1) * limit
	fetchQuery := db.Model(&model.Supplier{})
	if search != "" {
		fetchQuery = fetchQuery.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := fetchQuery.Order(order).Offset(offset).Limit(limit).Find(&suppliers).Error; err != nil {
		return nil, 0, err
	}

	return suppliers, total, nil
}
