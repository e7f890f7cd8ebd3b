package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups products for browsing and import.
type Category struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"uniqueIndex;not null;size:120"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;not null;size:140"`
	Description string         `json:"description" gorm:"type:text"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// Product is a sellable catalog item.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null;size:255;index"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(16,2);not null"`
	Discount    decimal.Decimal `json:"discount" gorm:"type:decimal(16,2);not null;default:0"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CategoryID  *uint           `json:"category_id" gorm:"index"`
	Category    *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	ImageURL    string          `json:"image_url" gorm:"size:500"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

// DiscountedPrice returns the effective selling price after discount,
// floored at zero.
func (p *Product) DiscountedPrice() decimal.Decimal {
	price := p.Price.Sub(p.Discount)
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// IsAvailable reports whether the product can currently be purchased.
func (p *Product) IsAvailable() bool {
	return p.IsActive && p.Stock > 0
}

// Stock movement reasons.
const (
	MovementReasonSale       = "sale"
	MovementReasonRestock    = "restock"
	MovementReasonReturn     = "return"
	MovementReasonAdjustment = "adjustment"
	MovementReasonImport     = "import"
)

// StockMovement is an audit record for every stock level change.
type StockMovement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ProductID     uint      `json:"product_id" gorm:"not null;index"`
	Quantity      int       `json:"quantity" gorm:"not null"`
	PreviousStock int       `json:"previous_stock" gorm:"not null"`
	NewStock      int       `json:"new_stock" gorm:"not null"`
	Reason        string    `json:"reason" gorm:"not null;size:40"`
	Reference     string    `json:"reference" gorm:"size:120"`
	CreatedAt     time.Time `json:"created_at"`
}
