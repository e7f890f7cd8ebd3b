package cart_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
	"github.com/your-org/storefront-backend/internal/pkg/testutil"
)

func newCartService(t *testing.T) (*cart.Service, *gorm.DB) {
	db := testutil.OpenDB(t,
		&user.User{},
		&catalog.Category{},
		&catalog.Product{},
		&cart.Cart{},
		&cart.CartItem{},
	)
	return cart.NewService(db, testutil.Logger()), db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestGetOrCreateCartIsIdempotent(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()

	first, err := svc.GetOrCreateCart(ctx, 1)
	require.NoError(t, err)
	second, err := svc.GetOrCreateCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := svc.GetOrCreateCart(ctx, 2)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestAddItemMergesDuplicateLines(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, db, "Tee", "25.00", 10)

	view, err := svc.AddItem(ctx, 1, &cart.AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)

	view, err = svc.AddItem(ctx, 1, &cart.AddItemRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Equal(t, 5, view.ItemCount)
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	svc, db := newCartService(t)
	p := seedProduct(t, db, "Mug", "12.00", 5)

	view, err := svc.AddItem(context.Background(), 1, &cart.AddItemRequest{ProductID: p.ID})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := newCartService(t)
	_, err := svc.AddItem(context.Background(), 1, &cart.AddItemRequest{ProductID: 999, Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAddItemExceedingStockIsAllowed(t *testing.T) {
	// Stock is only enforced at checkout.
	svc, db := newCartService(t)
	p := seedProduct(t, db, "Scarce", "40.00", 1)

	view, err := svc.AddItem(context.Background(), 1, &cart.AddItemRequest{ProductID: p.ID, Quantity: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, view.Items[0].Quantity)
}

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, db, "Tote", "18.00", 10)

	view, err := svc.AddItem(ctx, 1, &cart.AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := view.Items[0].ID

	view, err = svc.UpdateItem(ctx, 1, itemID, &cart.UpdateItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestUpdateItemSetsQuantity(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, db, "Cap", "15.00", 10)

	view, err := svc.AddItem(ctx, 1, &cart.AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	view, err = svc.UpdateItem(ctx, 1, view.Items[0].ID, &cart.UpdateItemRequest{Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, view.Items[0].Quantity)
}

func TestUpdateItemOtherUsersLine(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, db, "Private", "10.00", 10)

	view, err := svc.AddItem(ctx, 1, &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, 2, view.Items[0].ID, &cart.UpdateItemRequest{Quantity: 5})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartTotalTracksCurrentPrices(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, db, "Repriced", "10.00", 10)

	_, err := svc.AddItem(ctx, 1, &cart.AddItemRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	view, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(30)))

	require.NoError(t, db.Model(&catalog.Product{}).
		Where("id = ?", p.ID).
		Update("price", decimal.RequireFromString("12.00")).Error)

	view, err = svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(36)))
}

func TestClearEmptiesCart(t *testing.T) {
	svc, db := newCartService(t)
	ctx := context.Background()
	p1 := seedProduct(t, db, "One", "5.00", 10)
	p2 := seedProduct(t, db, "Two", "6.00", 10)

	_, err := svc.AddItem(ctx, 1, &cart.AddItemRequest{ProductID: p1.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1, &cart.AddItemRequest{ProductID: p2.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, 1))

	view, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}
