package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, published bool) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInput{
		Name:                 "Galaxy S24",
		Price:                decimal.NewFromInt(100),
		Stock:                5,
		CategoryID:           uuid.New(),
		IsPublished:          published,
		WarrantyPeriodMonths: 12,
	})
	require.NoError(t, err)
	p.PullEvents()
	return p
}

type productServiceFixture struct {
	products   *MockProductRepository
	categories *MockCategoryRepository
	discounts  *MockDiscountRepository
	images     *MockImageRepository
	storage    *fakeStorage
	svc        *ProductService
}

func newProductServiceFixture() *productServiceFixture {
	f := &productServiceFixture{
		products:   new(MockProductRepository),
		categories: new(MockCategoryRepository),
		discounts:  new(MockDiscountRepository),
		images:     new(MockImageRepository),
		storage:    newFakeStorage(),
	}
	f.svc = NewProductService(f.products, f.categories, f.discounts, f.images, f.storage, nil)
	return f
}

func TestProductService_ListPublished(t *testing.T) {
	f := newProductServiceFixture()
	ctx := context.Background()
	p := newTestProduct(t, true)

	f.products.On("FindAll", ctx, mock.MatchedBy(func(pf catalog.ProductFilter) bool {
		return pf.PublishedOnly && pf.Search == "dien thoai" && pf.Page == 1 && pf.PageSize == 20
	})).Return([]catalog.Product{*p}, int64(1), nil)

	page, err := f.svc.ListPublished(ctx, ProductListFilter{Search: "Điện  Thoại"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Galaxy S24", page.Items[0].Name)
	f.products.AssertExpectations(t)
}

func TestProductService_GetPublished(t *testing.T) {
	f := newProductServiceFixture()
	ctx := context.Background()
	hidden := newTestProduct(t, false)
	f.products.On("FindByID", ctx, hidden.ID).Return(hidden, nil)

	_, err := f.svc.GetPublished(ctx, hidden.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.New()

	t.Run("defaults to published with 12 months warranty", func(t *testing.T) {
		f := newProductServiceFixture()
		f.categories.On("FindByID", ctx, categoryID).Return(&catalog.Category{Name: "Phones"}, nil)
		f.products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := f.svc.Create(ctx, ProductRequest{
			Name:       "iPhone 15",
			Price:      decimal.NewFromInt(999),
			Stock:      3,
			CategoryID: categoryID,
		})

		require.NoError(t, err)
		assert.True(t, resp.IsPublished)
		assert.Equal(t, 12, resp.WarrantyPeriodMonths)
		assert.Equal(t, "Phones", resp.CategoryName)
	})

	t.Run("unknown category is invalid input", func(t *testing.T) {
		f := newProductServiceFixture()
		f.categories.On("FindByID", ctx, categoryID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, ProductRequest{Name: "X", CategoryID: categoryID})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("saves against the loaded version", func(t *testing.T) {
		f := newProductServiceFixture()
		p := newTestProduct(t, true)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.categories.On("FindByID", ctx, p.CategoryID).Return(&catalog.Category{Name: "Phones"}, nil)
		f.products.On("SaveWithLock", ctx, p, 1).Return(nil)

		resp, err := f.svc.Update(ctx, p.ID, ProductRequest{
			Name:       "Galaxy S24 Ultra",
			Price:      decimal.NewFromInt(120),
			Stock:      4,
			CategoryID: p.CategoryID,
			Version:    1,
		})

		require.NoError(t, err)
		assert.Equal(t, "Galaxy S24 Ultra", resp.Name)
		assert.Equal(t, 2, resp.Version)
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("stale request version", func(t *testing.T) {
		f := newProductServiceFixture()
		p := newTestProduct(t, true)
		p.Version = 3
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)

		_, err := f.svc.Update(ctx, p.ID, ProductRequest{Name: "X", CategoryID: p.CategoryID, Version: 2})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		f.products.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("row moved since the read", func(t *testing.T) {
		f := newProductServiceFixture()
		p := newTestProduct(t, true)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.categories.On("FindByID", ctx, p.CategoryID).Return(&catalog.Category{Name: "Phones"}, nil)
		f.products.On("SaveWithLock", ctx, p, 1).Return(shared.ErrConcurrencyConflict)

		_, err := f.svc.Update(ctx, p.ID, ProductRequest{Name: "X", CategoryID: p.CategoryID, Stock: 9})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses ordered product", func(t *testing.T) {
		f := newProductServiceFixture()
		p := newTestProduct(t, true)
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.products.On("HasOrders", ctx, p.ID).Return(true, nil)

		err := f.svc.Delete(ctx, p.ID)

		assert.ErrorIs(t, err, shared.ErrHasReferences)
		f.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("removes stored images", func(t *testing.T) {
		f := newProductServiceFixture()
		p := newTestProduct(t, true)
		key := "products/" + p.ID.String() + "/a.png"
		f.storage.objects[key] = []byte{1}
		f.products.On("FindByID", ctx, p.ID).Return(p, nil)
		f.products.On("HasOrders", ctx, p.ID).Return(false, nil)
		f.images.On("FindByProduct", ctx, p.ID).Return([]catalog.ProductImage{{ObjectKey: key}}, nil)
		f.products.On("Delete", ctx, p.ID).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, p.ID))
		assert.Empty(t, f.storage.objects)
	})
}

func TestProductService_TogglePublish(t *testing.T) {
	f := newProductServiceFixture()
	ctx := context.Background()
	p := newTestProduct(t, true)
	f.products.On("FindByID", ctx, p.ID).Return(p, nil)
	f.products.On("SaveWithLock", ctx, p, 1).Return(nil)

	resp, err := f.svc.TogglePublish(ctx, p.ID)

	require.NoError(t, err)
	assert.False(t, resp.IsPublished)
	assert.Empty(t, p.PendingEvents())
}
