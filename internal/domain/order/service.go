package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

// Service turns carts into orders and walks orders through their
// lifecycle.
type Service struct {
	db       *gorm.DB
	notifier Notifier
	log      *logrus.Logger
}

// NewService creates an order service.
func NewService(db *gorm.DB, notifier Notifier, log *logrus.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{db: db, notifier: notifier, log: log}
}

// ListOrdersRequest holds admin listing filters.
type ListOrdersRequest struct {
	Status OrderStatus `form:"status"`
	UserID uint        `form:"user_id"`
	Page   int         `form:"page"`
	Limit  int         `form:"limit"`
}

// OrderList is a page of orders.
type OrderList struct {
	Orders []Order `json:"orders"`
	Total  int64   `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

// SetStatusRequest is the admin input for a status change.
type SetStatusRequest struct {
	Status  OrderStatus `json:"status" binding:"required"`
	Comment string      `json:"comment"`
}

// ReturnRequest is the admin input for recording a return and its
// refund progress.
type ReturnRequest struct {
	Reason       string        `json:"reason"`
	RefundStatus *RefundStatus `json:"refund_status"`
}

// Checkout converts the user's cart into an order in one transaction.
// It snapshots product names and prices, decrements stock with an
// availability guard, and empties the cart. Any failing line rolls the
// whole checkout back.
func (s *Service) Checkout(ctx context.Context, userID uint) (*Order, error) {
	var orderID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c cart.Cart
		err := tx.Preload("Items.Product").
			Where("user_id = ?", userID).
			First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(c.Items) == 0) {
			return apperrors.ErrEmptyCart
		}
		if err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}

		o := &Order{
			OrderNumber:  generateOrderNumber(),
			UserID:       userID,
			Status:       StatusPending,
			RefundStatus: RefundNone,
			Total:        decimal.Zero,
		}

		for _, item := range c.Items {
			product := item.Product
			if product == nil {
				// The product was deleted while sitting in the cart.
				return &apperrors.InsufficientStockError{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: 0,
				}
			}

			result := tx.Model(&catalog.Product{}).
				Where("id = ? AND stock >= ?", product.ID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to decrement stock: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				var current catalog.Product
				available := 0
				if err := tx.Select("stock").First(&current, product.ID).Error; err == nil {
					available = current.Stock
				}
				return &apperrors.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   available,
				}
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			o.Items = append(o.Items, OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Price:       product.Price,
				Quantity:    item.Quantity,
				LineTotal:   lineTotal,
			})
			o.Total = o.Total.Add(lineTotal)

			movement := &catalog.StockMovement{
				ProductID:     product.ID,
				Quantity:      -item.Quantity,
				PreviousStock: product.Stock,
				NewStock:      product.Stock - item.Quantity,
				Reason:        catalog.MovementReasonSale,
				Reference:     o.OrderNumber,
			}
			if err := tx.Create(movement).Error; err != nil {
				return fmt.Errorf("failed to record stock movement: %w", err)
			}
		}

		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		change := &StatusChange{OrderID: o.ID, Status: StatusPending, Comment: "order placed"}
		if err := tx.Create(change).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}

		if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to empty cart: %w", err)
		}

		orderID = o.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	o, err := s.getByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"user_id":      userID,
		"total":        o.Total.String(),
	}).Info("Order placed")

	s.dispatch(ctx, o, s.notifier.OrderPlaced)
	return o, nil
}

// GetOrder fetches an order for its owner. Staff can fetch any order
// via GetOrderAdmin.
func (s *Service) GetOrder(ctx context.Context, userID, orderID uint) (*Order, error) {
	o, err := s.getByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return o, nil
}

// GetOrderAdmin fetches any order without ownership scoping.
func (s *Service) GetOrderAdmin(ctx context.Context, orderID uint) (*Order, error) {
	return s.getByID(ctx, orderID)
}

// ListUserOrders returns the user's orders, newest first.
func (s *Service) ListUserOrders(ctx context.Context, userID uint) ([]Order, error) {
	var orders []Order
	if err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListOrders returns a filtered, paginated page of all orders.
func (s *Service) ListOrders(ctx context.Context, req *ListOrdersRequest) (*OrderList, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Order{}).Preload("Items").Preload("User")
	if req.Status != "" {
		if !ValidStatus(req.Status) {
			return nil, apperrors.NewValidation("status", "unknown status")
		}
		query = query.Where("status = ?", req.Status)
	}
	if req.UserID != 0 {
		query = query.Where("user_id = ?", req.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &OrderList{Orders: orders, Total: total, Page: page, Limit: limit}, nil
}

// SetStatus moves an order through its lifecycle. Setting the current
// status again is a no-op and sends no notification. Invalid moves are
// rejected with an InvalidTransitionError.
func (s *Service) SetStatus(ctx context.Context, orderID uint, req *SetStatusRequest, actorID *uint) (*Order, error) {
	if !ValidStatus(req.Status) {
		return nil, apperrors.NewValidation("status", "unknown status")
	}

	o, err := s.getByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.Status == req.Status {
		return o, nil
	}
	if !CanTransition(o.Status, req.Status) {
		return nil, &apperrors.InvalidTransitionError{From: string(o.Status), To: string(req.Status)}
	}

	updates := map[string]interface{}{"status": req.Status}
	now := time.Now()
	switch req.Status {
	case StatusShipped:
		updates["shipped_at"] = &now
	case StatusDelivered:
		updates["delivered_at"] = &now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Order{}).Where("id = ?", o.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		change := &StatusChange{OrderID: o.ID, Status: req.Status, Comment: req.Comment, ActorID: actorID}
		if err := tx.Create(change).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.getByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":     updated.ID,
		"order_number": updated.OrderNumber,
		"from":         o.Status,
		"to":           updated.Status,
	}).Info("Order status changed")

	s.dispatch(ctx, updated, s.notifier.StatusChanged)
	return updated, nil
}

// RecordReturn marks an order as returned and updates refund progress.
// The return is recorded regardless of the order's current status; the
// lifecycle table is deliberately not consulted here so support staff
// can register returns that arrive through side channels.
func (s *Service) RecordReturn(ctx context.Context, orderID uint, req *ReturnRequest, actorID *uint) (*Order, error) {
	o, err := s.getByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.RefundStatus != nil {
		if !ValidRefundStatus(*req.RefundStatus) {
			return nil, apperrors.NewValidation("refund_status", "unknown refund status")
		}
		if !CanSetRefund(o.RefundStatus, *req.RefundStatus) {
			return nil, &apperrors.InvalidTransitionError{
				From: string(o.RefundStatus),
				To:   string(*req.RefundStatus),
			}
		}
	}

	updates := map[string]interface{}{
		"status":           StatusReturned,
		"return_requested": true,
	}
	if strings.TrimSpace(req.Reason) != "" {
		updates["return_reason"] = strings.TrimSpace(req.Reason)
	}
	if req.RefundStatus != nil {
		updates["refund_status"] = *req.RefundStatus
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Order{}).Where("id = ?", o.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to record return: %w", err)
		}
		if o.Status != StatusReturned {
			change := &StatusChange{OrderID: o.ID, Status: StatusReturned, Comment: req.Reason, ActorID: actorID}
			if err := tx.Create(change).Error; err != nil {
				return fmt.Errorf("failed to record status history: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.getByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id":      updated.ID,
		"order_number":  updated.OrderNumber,
		"refund_status": updated.RefundStatus,
	}).Info("Order return recorded")

	s.dispatch(ctx, updated, s.notifier.ReturnUpdated)
	return updated, nil
}

func (s *Service) getByID(ctx context.Context, orderID uint) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&o, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &o, nil
}

// dispatch sends a notification to the order's owner. Failures are
// logged and swallowed; they never surface to the caller.
func (s *Service) dispatch(ctx context.Context, o *Order, send func(context.Context, *Order, string) error) {
	recipient := ""
	if o.User != nil {
		recipient = o.User.Email
	} else {
		var owner user.User
		if err := s.db.WithContext(ctx).Select("email").First(&owner, o.UserID).Error; err == nil {
			recipient = owner.Email
		}
	}
	if recipient == "" {
		s.log.WithField("order_id", o.ID).Warn("No recipient for order notification")
		return
	}

	if err := send(ctx, o, recipient); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"order_id":  o.ID,
			"recipient": recipient,
		}).Warn("Failed to send order notification")
	}
}

func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}
