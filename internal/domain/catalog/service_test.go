package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
	"github.com/your-org/storefront-backend/internal/pkg/testutil"
)

func newCatalogService(t *testing.T) (*catalog.Service, *gorm.DB) {
	db := testutil.OpenDB(t, &catalog.Category{}, &catalog.Product{}, &catalog.StockMovement{})
	return catalog.NewService(db, testutil.Logger()), db
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, &catalog.CreateProductRequest{
		Name:     "Basic Tee",
		Price:    decimal.RequireFromString("25.00"),
		Discount: decimal.RequireFromString("5.00"),
		Stock:    10,
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.True(t, p.IsActive)
	assert.Equal(t, 10, p.Stock)
	assert.True(t, p.DiscountedPrice().Equal(decimal.NewFromInt(20)))
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.CreateProduct(context.Background(), &catalog.CreateProductRequest{
		Name:  "Broken",
		Price: decimal.NewFromInt(-1),
	})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "price", verr.Field)
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, &catalog.CreateProductRequest{
		Name:  "Mug",
		Price: decimal.NewFromInt(12),
		Stock: 3,
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("14.50")
	hidden := false
	updated, err := svc.UpdateProduct(ctx, p.ID, &catalog.UpdateProductRequest{
		Price:    &newPrice,
		IsActive: &hidden,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Mug", updated.Name)
	assert.Equal(t, 3, updated.Stock)
}

func TestDeleteProductAlwaysSucceeds(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, &catalog.CreateProductRequest{
		Name:  "Short lived",
		Price: decimal.NewFromInt(9),
		Stock: 100,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))

	_, err = svc.GetProduct(ctx, p.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteProductMissing(t *testing.T) {
	svc, _ := newCatalogService(t)
	assert.ErrorIs(t, svc.DeleteProduct(context.Background(), 9999), apperrors.ErrNotFound)
}

func TestGetProductHidesInactive(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	inactive := false
	p, err := svc.CreateProduct(ctx, &catalog.CreateProductRequest{
		Name:     "Hidden",
		Price:    decimal.NewFromInt(5),
		IsActive: &inactive,
	})
	require.NoError(t, err)

	_, err = svc.GetProduct(ctx, p.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := svc.GetProduct(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Hidden", got.Name)
}

func TestAdjustStockGuardsFloor(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, &catalog.CreateProductRequest{
		Name:  "Limited",
		Price: decimal.NewFromInt(30),
		Stock: 4,
	})
	require.NoError(t, err)

	updated, err := svc.AdjustStock(ctx, p.ID, -3, catalog.MovementReasonAdjustment, "shrinkage")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Stock)

	_, err = svc.AdjustStock(ctx, p.ID, -2, catalog.MovementReasonAdjustment, "oversell attempt")
	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)

	got, err := svc.GetProduct(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)
}

func TestStockMovementsRecorded(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, &catalog.CreateProductRequest{
		Name:  "Tracked",
		Price: decimal.NewFromInt(10),
		Stock: 8,
	})
	require.NoError(t, err)

	_, err = svc.AdjustStock(ctx, p.ID, 5, catalog.MovementReasonRestock, "delivery")
	require.NoError(t, err)

	movements, err := svc.StockMovements(ctx, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, movements, 2)

	var delivery *catalog.StockMovement
	for i := range movements {
		if movements[i].Reference == "delivery" {
			delivery = &movements[i]
		}
	}
	require.NotNil(t, delivery)
	assert.Equal(t, catalog.MovementReasonRestock, delivery.Reason)
	assert.Equal(t, 8, delivery.PreviousStock)
	assert.Equal(t, 13, delivery.NewStock)
}

func TestGetOrCreateCategoryCaseInsensitive(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	first, err := svc.GetOrCreateCategory(ctx, "Apparel")
	require.NoError(t, err)
	second, err := svc.GetOrCreateCategory(ctx, "apparel")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	categories, err := svc.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestDeleteCategoryDetachesProducts(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, &catalog.CreateCategoryRequest{Name: "Doomed"})
	require.NoError(t, err)

	p, err := svc.CreateProduct(ctx, &catalog.CreateProductRequest{
		Name:       "Orphan",
		Price:      decimal.NewFromInt(7),
		CategoryID: &cat.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))

	got, err := svc.GetProduct(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}
