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

// OrderFilter narrows List results. Zero values mean "no filter".
type OrderFilter struct {
	SupplierID *uuid.UUID
	Status     string
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Update(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	// FindByIDForUpdate locks the order row so a concurrent approve/reject of
	// the same order waits and then sees the terminal status.
	FindByIDForUpdate(ctx context.Context, orderID string) (*model.Order, error)
	Exists(ctx context.Context, orderID string) (bool, error)
	List(ctx context.Context, filter OrderFilter, page, limit int) ([]model.Order, int64, error)
	FindBySupplierID(ctx context.Context, supplierID uuid.UUID) ([]model.Order, error)
	DeleteBySupplierID(ctx context.Context, supplierID uuid.UUID) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Save(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := GetDB(ctx, r.db).Preload("Supplier").First(&order, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %s not found", orderID)
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIDForUpdate(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %s not found", orderID)
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Exists(ctx context.Context, orderID string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Order{}).Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, err
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter, page, limit int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.SupplierID != nil {
			q = q.Where("supplier_id = ?", *filter.SupplierID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	if err := apply(db.Model(&model.Order{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := apply(db.Preload("Supplier")).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) FindBySupplierID(ctx context.Context, supplierID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := GetDB(ctx, r.db).Where("supplier_id = ?", supplierID).
		Order("created_at ASC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) DeleteBySupplierID(ctx context.Context, supplierID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("supplier_id = ?", supplierID).Delete(&model.Order{}).Error
}
