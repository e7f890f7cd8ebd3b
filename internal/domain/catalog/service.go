package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/pkg/apperrors"
)

// Service provides catalog management operations.
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewService creates a catalog service.
func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

// CreateProductRequest is the input for creating a product.
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Discount    decimal.Decimal `json:"discount"`
	Stock       int             `json:"stock"`
	IsActive    *bool           `json:"is_active"`
	CategoryID  *uint           `json:"category_id"`
	ImageURL    string          `json:"image_url"`
}

// UpdateProductRequest is the partial-update input for a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Discount    *decimal.Decimal `json:"discount"`
	Stock       *int             `json:"stock"`
	IsActive    *bool            `json:"is_active"`
	CategoryID  *uint            `json:"category_id"`
	ImageURL    *string          `json:"image_url"`
}

// ListProductsRequest holds catalog listing filters.
type ListProductsRequest struct {
	Search        string `form:"search"`
	CategoryID    uint   `form:"category_id"`
	AvailableOnly bool   `form:"available_only"`
	IncludeHidden bool   `form:"-"`
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
}

// ProductList is a page of products.
type ProductList struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// CreateProduct validates and stores a new product.
func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*Product, error) {
	if err := validatePricing(req.Price, req.Discount, req.Stock); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	product := &Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		Stock:       req.Stock,
		IsActive:    true,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if product.Stock > 0 {
		s.recordMovement(ctx, s.db, product.ID, product.Stock, 0, product.Stock, MovementReasonRestock, "initial stock")
	}

	s.log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product created")

	return s.GetProduct(ctx, product.ID, true)
}

// UpdateProduct applies a partial update to a product.
func (s *Service) UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*Product, error) {
	product, err := s.GetProduct(ctx, id, true)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperrors.NewValidation("name", "must not be empty")
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperrors.NewValidation("price", "must not be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Discount != nil {
		if req.Discount.IsNegative() {
			return nil, apperrors.NewValidation("discount", "must not be negative")
		}
		updates["discount"] = *req.Discount
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperrors.NewValidation("stock", "must not be negative")
		}
		if *req.Stock != product.Stock {
			updates["stock"] = *req.Stock
			s.recordMovement(ctx, s.db, product.ID, *req.Stock-product.Stock, product.Stock, *req.Stock, MovementReasonAdjustment, "manual update")
		}
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return s.GetProduct(ctx, id, true)
}

// DeleteProduct removes a product from the catalog. Deletion always
// succeeds for an existing product; past orders keep their own name
// and price snapshots.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	s.log.WithField("product_id", id).Info("Product deleted")
	return nil
}

// ClearImage removes the image from a product, leaving the rest intact.
func (s *Service) ClearImage(ctx context.Context, id uint) (*Product, error) {
	product, err := s.GetProduct(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(product).Update("image_url", "").Error; err != nil {
		return nil, fmt.Errorf("failed to clear product image: %w", err)
	}
	product.ImageURL = ""
	return product, nil
}

// GetProduct fetches a single product. When includeHidden is false,
// inactive products are treated as not found.
func (s *Service) GetProduct(ctx context.Context, id uint, includeHidden bool) (*Product, error) {
	var product Product
	query := s.db.WithContext(ctx).Preload("Category")
	if !includeHidden {
		query = query.Where("is_active = ?", true)
	}
	if err := query.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// ListProducts returns a filtered, paginated product page.
func (s *Service) ListProducts(ctx context.Context, req *ListProductsRequest) (*ProductList, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Product{}).Preload("Category")
	if !req.IncludeHidden {
		query = query.Where("is_active = ?", true)
	}
	if req.Search != "" {
		term := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}
	if req.CategoryID != 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.AvailableOnly {
		query = query.Where("stock > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductList{
		Products: products,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// AdjustStock applies a signed stock delta with a floor at zero and
// records the movement.
func (s *Service) AdjustStock(ctx context.Context, id uint, delta int, reason, reference string) (*Product, error) {
	if delta == 0 {
		return s.GetProduct(ctx, id, true)
	}
	if reason == "" {
		reason = MovementReasonAdjustment
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		result := tx.Model(&Product{}).
			Where("id = ? AND stock + ? >= 0", id, delta).
			Update("stock", gorm.Expr("stock + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &apperrors.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   -delta,
				Available:   product.Stock,
			}
		}

		s.recordMovement(ctx, tx, id, delta, product.Stock, product.Stock+delta, reason, reference)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, id, true)
}

// StockMovements lists the most recent movements for a product.
func (s *Service) StockMovements(ctx context.Context, productID uint, limit int) ([]StockMovement, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var movements []StockMovement
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, nil
}

func (s *Service) checkCategory(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if count == 0 {
		return apperrors.NewValidation("category_id", "category does not exist")
	}
	return nil
}

func (s *Service) recordMovement(ctx context.Context, tx *gorm.DB, productID uint, qty, prev, next int, reason, reference string) {
	movement := &StockMovement{
		ProductID:     productID,
		Quantity:      qty,
		PreviousStock: prev,
		NewStock:      next,
		Reason:        reason,
		Reference:     reference,
	}
	if err := tx.WithContext(ctx).Create(movement).Error; err != nil {
		s.log.WithError(err).WithField("product_id", productID).Warn("Failed to record stock movement")
	}
}

func validatePricing(price, discount decimal.Decimal, stock int) error {
	if price.IsNegative() {
		return apperrors.NewValidation("price", "must not be negative")
	}
	if discount.IsNegative() {
		return apperrors.NewValidation("discount", "must not be negative")
	}
	if stock < 0 {
		return apperrors.NewValidation("stock", "must not be negative")
	}
	return nil
}
