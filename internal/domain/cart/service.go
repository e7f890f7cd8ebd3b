package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

// Service manages user shopping carts.
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewService creates a cart service.
func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

// AddItemRequest is the input for adding a product to the cart.
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateItemRequest sets an item's quantity. Zero or negative removes
// the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// View is the cart as returned to clients, with totals computed from
// current catalog prices.
type View struct {
	ID        uint            `json:"id"`
	Items     []CartItem      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// GetOrCreateCart returns the user's cart, creating an empty one on
// first use.
func (s *Service) GetOrCreateCart(ctx context.Context, userID uint) (*Cart, error) {
	var c Cart
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	c = Cart{UserID: userID}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &c, nil
}

// GetCart returns the user's cart view with product details and totals.
func (s *Service) GetCart(ctx context.Context, userID uint) (*View, error) {
	c, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", c.ID).
		Order("created_at ASC").
		Find(&c.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	return viewOf(c), nil
}

// AddItem puts a product into the cart. Adding a product already in
// the cart increases its quantity instead of creating a second line.
// Stock is not checked here; it is enforced at checkout.
func (s *Service) AddItem(ctx context.Context, userID uint, req *AddItemRequest) (*View, error) {
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	var product catalog.Product
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	c, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var item CartItem
	err = s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", c.ID, product.ID).
		First(&item).Error
	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).Model(&item).
			Update("quantity", gorm.Expr("quantity + ?", qty)).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = CartItem{CartID: c.ID, ProductID: product.ID, Quantity: qty}
		if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"product_id": product.ID,
		"quantity":   qty,
	}).Debug("Cart item added")

	return s.GetCart(ctx, userID)
}

// UpdateItem sets a line's quantity. A quantity of zero or less
// removes the line.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID uint, req *UpdateItemRequest) (*View, error) {
	item, err := s.findItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Quantity <= 0 {
		if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
	} else {
		if err := s.db.WithContext(ctx).Model(item).
			Update("quantity", req.Quantity).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem deletes a line from the user's cart.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID uint) (*View, error) {
	item, err := s.findItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return s.GetCart(ctx, userID)
}

// Clear removes every line from the user's cart.
func (s *Service) Clear(ctx context.Context, userID uint) error {
	c, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).
		Where("cart_id = ?", c.ID).
		Delete(&CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// findItem loads a cart item, scoped to the user's own cart so one
// user cannot touch another's lines.
func (s *Service) findItem(ctx context.Context, userID, itemID uint) (*CartItem, error) {
	var item CartItem
	err := s.db.WithContext(ctx).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	return &item, nil
}

func viewOf(c *Cart) *View {
	return &View{
		ID:        c.ID,
		Items:     c.Items,
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
	}
}
