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

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*model.OrderCategory
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*model.OrderCategory)}
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *model.OrderCategory) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	cp := *category
	f.categories[category.ID] = &cp
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.OrderCategory, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, apperr.NotFound("category %s not found", id)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategoryRepo) FindByName(_ context.Context, name string) (*model.OrderCategory, error) {
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("category %q not found", name)
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]model.OrderCategory, error) {
	out := make([]model.OrderCategory, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func newCategoryFixture() (service.CategoryService, *fakeCategoryRepo, *memStore) {
	store := newMemStore()
	repo := newFakeCategoryRepo()
	svc := service.NewCategoryService(repo, &fakeAuditRepo{s: store}, passthroughTx{})
	return svc, repo, store
}

func TestCreateCategory(t *testing.T) {
	t.Run("creates and audits", func(t *testing.T) {
		svc, repo, store := newCategoryFixture()

		resp, err := svc.CreateCategory(context.Background(), "admin", service.CreateCategoryRequest{
			Name:        "Office Supplies",
			Description: "Desks, chairs, stationery",
		})

		require.NoError(t, err)
		assert.Equal(t, "Office Supplies", resp.Name)
		assert.Len(t, repo.categories, 1)
		require.Len(t, store.audits, 1)
		assert.Equal(t, model.ActionCreateCategory, store.audits[0].Action)
	})

	t.Run("duplicate name conflicts case-insensitively", func(t *testing.T) {
		svc, _, _ := newCategoryFixture()

		_, err := svc.CreateCategory(context.Background(), "admin", service.CreateCategoryRequest{Name: "Drinks"})
		require.NoError(t, err)

		_, err = svc.CreateCategory(context.Background(), "admin", service.CreateCategoryRequest{Name: "DRINKS"})
		require.Error(t, err)
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("blank name rejected", func(t *testing.T) {
		svc, _, _ := newCategoryFixture()

		_, err := svc.CreateCategory(context.Background(), "admin", service.CreateCategoryRequest{Name: "  "})
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestDeleteCategory(t *testing.T) {
	svc, repo, store := newCategoryFixture()

	resp, err := svc.CreateCategory(context.Background(), "admin", service.CreateCategoryRequest{Name: "Sports"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(context.Background(), "admin", resp.ID.String()))
	assert.Empty(t, repo.categories)
	require.Len(t, store.audits, 2)
	assert.Equal(t, model.ActionDeleteCategory, store.audits[1].Action)

	err = svc.DeleteCategory(context.Background(), "admin", uuid.NewString())
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
