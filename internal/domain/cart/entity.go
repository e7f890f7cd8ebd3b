package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// Cart is a user's single open shopping cart. Each user has at most
// one; it is created on first use.
type Cart struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one product line in a cart. A cart holds at most one
// line per product; adding the same product again bumps the quantity.
type CartItem struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	CartID    uint             `json:"cart_id" gorm:"not null;uniqueIndex:idx_cart_product"`
	ProductID uint             `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_product"`
	Product   *catalog.Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int              `json:"quantity" gorm:"not null;default:1"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// LineTotal is the item's current price times quantity. Prices are
// never stored on cart lines; they always reflect the live catalog.
func (i *CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums the cart's line totals at current catalog prices.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].LineTotal())
	}
	return total
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}
