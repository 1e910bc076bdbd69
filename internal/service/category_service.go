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
)

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type CategoryService interface {
	CreateCategory(ctx context.Context, actor string, req CreateCategoryRequest) (CategoryResponse, error)
	DeleteCategory(ctx context.Context, actor, id string) error
	ListCategories(ctx context.Context) ([]CategoryResponse, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewCategoryService(categoryRepo repository.CategoryRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, auditRepo: auditRepo, txManager: txManager}
}

func (s *categoryService) CreateCategory(ctx context.Context, actor string, req CreateCategoryRequest) (CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return CategoryResponse{}, apperr.Validation("name is required")
	}

	if existing, err := s.categoryRepo.FindByName(ctx, name); err == nil && existing != nil {
		return CategoryResponse{}, apperr.Conflict("category %q already exists", name)
	} else if err != nil && !apperr.IsNotFound(err) {
		return CategoryResponse{}, fmt.Errorf("failed to check category name: %w", err)
	}

	category := &model.OrderCategory{Name: name, Description: req.Description}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.categoryRepo.Create(txCtx, category); err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		return s.writeAudit(txCtx, actor, model.ActionCreateCategory, category.ID.String(), category.Name)
	})
	if err != nil {
		return CategoryResponse{}, err
	}

	return toCategoryResponse(*category), nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, actor, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid category id")
	}

	category, err := s.categoryRepo.FindByID(ctx, uid)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.categoryRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return s.writeAudit(txCtx, actor, model.ActionDeleteCategory, uid.String(), category.Name)
	})
}

func (s *categoryService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	res := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		res = append(res, toCategoryResponse(c))
	}
	return res, nil
}

func (s *categoryService) writeAudit(ctx context.Context, actor, action, entityID, name string) error {
	details, _ := json.Marshal(map[string]any{"name": name})
	entry := &model.AuditLog{
		Actor:    actor,
		Action:   action,
		EntityID: entityID,
		Details:  string(details),
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toCategoryResponse(c model.OrderCategory) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}
