package order

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/user"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusReturned  OrderStatus = "returned"
	StatusCancelled OrderStatus = "cancelled"
)

// RefundStatus tracks refund progress for a returned order.
type RefundStatus string

const (
	RefundNone     RefundStatus = "no_refund"
	RefundPending  RefundStatus = "pending_refund"
	RefundComplete RefundStatus = "refunded"
)

// Order is a placed order with immutable price and name snapshots.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderNumber     string          `json:"order_number" gorm:"uniqueIndex;not null;size:40"`
	UserID          uint            `json:"user_id" gorm:"not null;index"`
	User            *user.User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Status          OrderStatus     `json:"status" gorm:"not null;default:'pending';size:20;index"`
	RefundStatus    RefundStatus    `json:"refund_status" gorm:"not null;default:'no_refund';size:20"`
	ReturnRequested bool            `json:"return_requested" gorm:"default:false"`
	ReturnReason    string          `json:"return_reason" gorm:"type:text"`
	Total           decimal.Decimal `json:"total" gorm:"type:decimal(16,2);not null"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory   []StatusChange  `json:"status_history,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippedAt       *time.Time      `json:"shipped_at"`
	DeliveredAt     *time.Time      `json:"delivered_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`
}

// OrderItem is one line of a placed order. Name and price are copied
// from the product at checkout time and never change afterwards, so
// later catalog edits or deletions do not rewrite history.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"not null;index"`
	ProductID   uint            `json:"product_id" gorm:"not null;index"`
	ProductName string          `json:"product_name" gorm:"not null;size:255"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(16,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	LineTotal   decimal.Decimal `json:"line_total" gorm:"type:decimal(16,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StatusChange is one entry in an order's audit trail.
type StatusChange struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	OrderID   uint        `json:"order_id" gorm:"not null;index"`
	Status    OrderStatus `json:"status" gorm:"not null;size:20"`
	Comment   string      `json:"comment" gorm:"type:text"`
	ActorID   *uint       `json:"actor_id"`
	CreatedAt time.Time   `json:"created_at"`
}

// IsTerminal reports whether no further fulfillment transition is
// allowed from the status.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusReturned
}
