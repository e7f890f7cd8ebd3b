package order_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
	"github.com/your-org/storefront-backend/internal/pkg/testutil"
)

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	placed []string
	status []string
	retrns []string
	fail   bool
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, o *order.Order, recipient string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.placed = append(n.placed, o.OrderNumber+":"+recipient)
	if n.fail {
		return assert.AnError
	}
	return nil
}

func (n *recordingNotifier) StatusChanged(_ context.Context, o *order.Order, recipient string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = append(n.status, o.OrderNumber+":"+string(o.Status))
	if n.fail {
		return assert.AnError
	}
	return nil
}

func (n *recordingNotifier) ReturnUpdated(_ context.Context, o *order.Order, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.retrns = append(n.retrns, o.OrderNumber+":"+string(o.RefundStatus))
	if n.fail {
		return assert.AnError
	}
	return nil
}

type fixture struct {
	db       *gorm.DB
	orders   *order.Service
	carts    *cart.Service
	notifier *recordingNotifier
	buyer    *user.User
}

func newFixture(t *testing.T) *fixture {
	db := testutil.OpenDB(t,
		&user.User{},
		&catalog.Category{},
		&catalog.Product{},
		&catalog.StockMovement{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
		&order.StatusChange{},
	)

	buyer := &user.User{Email: "buyer@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(buyer).Error)

	notifier := &recordingNotifier{}
	return &fixture{
		db:       db,
		orders:   order.NewService(db, notifier, testutil.Logger()),
		carts:    cart.NewService(db, testutil.Logger()),
		notifier: notifier,
		buyer:    buyer,
	}
}

func (f *fixture) seedProduct(t *testing.T, name, price string, stock int) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) fill(t *testing.T, items map[*catalog.Product]int) {
	t.Helper()
	for p, qty := range items {
		_, err := f.carts.AddItem(context.Background(), f.buyer.ID, &cart.AddItemRequest{
			ProductID: p.ID,
			Quantity:  qty,
		})
		require.NoError(t, err)
	}
}

func (f *fixture) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	var p catalog.Product
	require.NoError(t, f.db.First(&p, productID).Error)
	return p.Stock
}

func TestCheckoutCreatesOrderAndEmptiesCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tee := f.seedProduct(t, "Tee", "25.00", 10)
	tote := f.seedProduct(t, "Tote", "18.00", 5)
	f.fill(t, map[*catalog.Product]int{tee: 2, tote: 1})

	o, err := f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, order.RefundNone, o.RefundStatus)
	assert.NotEmpty(t, o.OrderNumber)
	require.Len(t, o.Items, 2)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(68)))

	assert.Equal(t, 8, f.stockOf(t, tee.ID))
	assert.Equal(t, 4, f.stockOf(t, tote.ID))

	view, err := f.carts.GetCart(ctx, f.buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	require.Len(t, f.notifier.placed, 1)
	assert.Contains(t, f.notifier.placed[0], "buyer@example.com")
}

func TestCheckoutSnapshotsNameAndPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Original Name", "30.00", 10)
	f.fill(t, map[*catalog.Product]int{p: 1})

	o, err := f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	// Rename, reprice, then delete the product entirely.
	require.NoError(t, f.db.Model(&catalog.Product{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{"name": "Renamed", "price": decimal.NewFromInt(99)}).Error)
	require.NoError(t, f.db.Delete(&catalog.Product{}, p.ID).Error)

	got, err := f.orders.GetOrder(ctx, f.buyer.ID, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Original Name", got.Items[0].ProductName)
	assert.True(t, got.Items[0].Price.Equal(decimal.NewFromInt(30)))
	assert.True(t, got.Total.Equal(decimal.NewFromInt(30)))
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.Checkout(context.Background(), f.buyer.ID)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCart)
	assert.Empty(t, f.notifier.placed)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plenty := f.seedProduct(t, "Plenty", "10.00", 100)
	scarce := f.seedProduct(t, "Scarce", "50.00", 1)
	f.fill(t, map[*catalog.Product]int{plenty: 2, scarce: 3})

	_, err := f.orders.Checkout(ctx, f.buyer.ID)
	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, scarce.ID, stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)

	// Nothing happened: stock untouched, cart intact, no order rows.
	assert.Equal(t, 100, f.stockOf(t, plenty.ID))
	assert.Equal(t, 1, f.stockOf(t, scarce.ID))

	view, err := f.carts.GetCart(ctx, f.buyer.ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)

	var count int64
	require.NoError(t, f.db.Model(&order.Order{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, f.notifier.placed)
}

func TestCheckoutOversellOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	scarce := f.seedProduct(t, "Last Unit", "75.00", 1)

	second := &user.User{Email: "rival@example.com", Password: "x", IsActive: true}
	require.NoError(t, f.db.Create(second).Error)

	f.fill(t, map[*catalog.Product]int{scarce: 1})
	_, err := f.carts.AddItem(ctx, second.ID, &cart.AddItemRequest{ProductID: scarce.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	_, err = f.orders.Checkout(ctx, second.ID)
	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
	assert.Equal(t, 0, f.stockOf(t, scarce.ID))
}

func TestCheckoutRecordsStockMovements(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Audited", "20.00", 10)
	f.fill(t, map[*catalog.Product]int{p: 4})

	o, err := f.orders.Checkout(context.Background(), f.buyer.ID)
	require.NoError(t, err)

	var movements []catalog.StockMovement
	require.NoError(t, f.db.Where("product_id = ?", p.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, -4, movements[0].Quantity)
	assert.Equal(t, catalog.MovementReasonSale, movements[0].Reason)
	assert.Equal(t, o.OrderNumber, movements[0].Reference)
}

func TestSetStatusValidTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Shipped Soon", "10.00", 5)
	f.fill(t, map[*catalog.Product]int{p: 1})

	o, err := f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	updated, err := f.orders.SetStatus(ctx, o.ID, &order.SetStatusRequest{
		Status:  order.StatusShipped,
		Comment: "picked up by carrier",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, updated.Status)
	assert.NotNil(t, updated.ShippedAt)

	require.Len(t, f.notifier.status, 1)
	assert.Contains(t, f.notifier.status[0], "shipped")

	// placed + shipped
	assert.Len(t, updated.StatusHistory, 2)
}

func TestSetStatusSameStatusIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Stay Put", "10.00", 5)
	f.fill(t, map[*catalog.Product]int{p: 1})

	o, err := f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	updated, err := f.orders.SetStatus(ctx, o.ID, &order.SetStatusRequest{Status: order.StatusPending}, nil)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, updated.Status)
	assert.Empty(t, f.notifier.status)
	assert.Len(t, updated.StatusHistory, 1)
}

func TestSetStatusInvalidTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Too Fast", "10.00", 5)
	f.fill(t, map[*catalog.Product]int{p: 1})

	o, err := f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, o.ID, &order.SetStatusRequest{Status: order.StatusDelivered}, nil)
	var transErr *apperrors.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, "pending", transErr.From)
	assert.Equal(t, "delivered", transErr.To)

	got, err := f.orders.GetOrder(ctx, f.buyer.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, got.Status)
	assert.Empty(t, f.notifier.status)
}

func TestSetStatusUnknownValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Odd", "10.00", 5)
	f.fill(t, map[*catalog.Product]int{p: 1})

	o, err := f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, o.ID, &order.SetStatusRequest{Status: "misplaced"}, nil)
	var verr *apperrors.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestNotificationFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	f.notifier.fail = true
	ctx := context.Background()
	p := f.seedProduct(t, "Unreachable Inbox", "10.00", 5)
	f.fill(t, map[*catalog.Product]int{p: 1})

	o, err := f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, o.ID, &order.SetStatusRequest{Status: order.StatusShipped}, nil)
	require.NoError(t, err)
}

func TestRecordReturnFromShipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Returned Goods", "10.00", 5)
	f.fill(t, map[*catalog.Product]int{p: 1})

	o, err := f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, o.ID, &order.SetStatusRequest{Status: order.StatusShipped}, nil)
	require.NoError(t, err)

	refund := order.RefundPending
	updated, err := f.orders.RecordReturn(ctx, o.ID, &order.ReturnRequest{
		Reason:       "damaged in transit",
		RefundStatus: &refund,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, order.StatusReturned, updated.Status)
	assert.True(t, updated.ReturnRequested)
	assert.Equal(t, "damaged in transit", updated.ReturnReason)
	assert.Equal(t, order.RefundPending, updated.RefundStatus)
	require.Len(t, f.notifier.retrns, 1)
}

func TestRecordReturnFromPendingStillForcesReturned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Fast Return", "10.00", 5)
	f.fill(t, map[*catalog.Product]int{p: 1})

	o, err := f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	updated, err := f.orders.RecordReturn(ctx, o.ID, &order.ReturnRequest{Reason: "changed my mind"}, nil)
	require.NoError(t, err)
	assert.Equal(t, order.StatusReturned, updated.Status)
	assert.Equal(t, order.RefundNone, updated.RefundStatus)
}

func TestRecordReturnRefundCannotMoveBackwards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Refunded", "10.00", 5)
	f.fill(t, map[*catalog.Product]int{p: 1})

	o, err := f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	refunded := order.RefundComplete
	_, err = f.orders.RecordReturn(ctx, o.ID, &order.ReturnRequest{RefundStatus: &refunded}, nil)
	require.NoError(t, err)

	pending := order.RefundPending
	_, err = f.orders.RecordReturn(ctx, o.ID, &order.ReturnRequest{RefundStatus: &pending}, nil)
	var transErr *apperrors.InvalidTransitionError
	assert.ErrorAs(t, err, &transErr)
}

func TestGetOrderScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Mine", "10.00", 5)
	f.fill(t, map[*catalog.Product]int{p: 1})

	o, err := f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	stranger := &user.User{Email: "stranger@example.com", Password: "x", IsActive: true}
	require.NoError(t, f.db.Create(stranger).Error)

	_, err = f.orders.GetOrder(ctx, stranger.ID, o.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := f.orders.GetOrderAdmin(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestListOrdersFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Bulk", "10.00", 50)

	f.fill(t, map[*catalog.Product]int{p: 1})
	first, err := f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	f.fill(t, map[*catalog.Product]int{p: 1})
	_, err = f.orders.Checkout(ctx, f.buyer.ID)
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, first.ID, &order.SetStatusRequest{Status: order.StatusShipped}, nil)
	require.NoError(t, err)

	page, err := f.orders.ListOrders(ctx, &order.ListOrdersRequest{Status: order.StatusShipped})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, first.ID, page.Orders[0].ID)
}
