package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

// Service computes back-office dashboard figures. Cancelled and
// returned orders are excluded from revenue.
type Service struct {
	db *gorm.DB
}

// NewService creates an analytics service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// DashboardStats is the admin landing page summary.
type DashboardStats struct {
	TotalProducts   int64           `json:"total_products"`
	ActiveProducts  int64           `json:"active_products"`
	OutOfStock      int64           `json:"out_of_stock"`
	TotalCustomers  int64           `json:"total_customers"`
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	OrdersToday     int64           `json:"orders_today"`
	RevenueToday    decimal.Decimal `json:"revenue_today"`
	RevenueMonth    decimal.Decimal `json:"revenue_month"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	AvgOrderValue   decimal.Decimal `json:"avg_order_value"`
	TopProducts     []ProductSales  `json:"top_products"`
	RecentOrders    []order.Order   `json:"recent_orders"`
}

// ProductSales aggregates units and revenue per product.
type ProductSales struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitsSold   int64           `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// RevenuePoint is one day in a revenue series.
type RevenuePoint struct {
	Day     time.Time       `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

var revenueStatuses = []order.OrderStatus{
	order.StatusPending,
	order.StatusShipped,
	order.StatusDelivered,
}

// GetDashboardStats builds the summary shown on the admin dashboard.
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		RevenueToday:  decimal.Zero,
		RevenueMonth:  decimal.Zero,
		TotalRevenue:  decimal.Zero,
		AvgOrderValue: decimal.Zero,
	}
	db := s.db.WithContext(ctx)

	if err := db.Model(&catalog.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := db.Model(&catalog.Product{}).
		Where("is_active = ?", true).
		Count(&stats.ActiveProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count active products: %w", err)
	}
	if err := db.Model(&catalog.Product{}).
		Where("stock = 0").
		Count(&stats.OutOfStock).Error; err != nil {
		return nil, fmt.Errorf("failed to count out-of-stock products: %w", err)
	}
	if err := db.Model(&user.User{}).
		Where("is_staff = ?", false).
		Count(&stats.TotalCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := db.Model(&order.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := db.Model(&order.Order{}).
		Where("status = ?", order.StatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	if err := db.Model(&order.Order{}).
		Where("created_at >= ?", startOfDay).
		Count(&stats.OrdersToday).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's orders: %w", err)
	}

	var err error
	if stats.RevenueToday, err = s.revenueSince(ctx, startOfDay); err != nil {
		return nil, err
	}
	if stats.RevenueMonth, err = s.revenueSince(ctx, startOfMonth); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = s.revenueSince(ctx, time.Time{}); err != nil {
		return nil, err
	}

	var revenueOrders int64
	if err := db.Model(&order.Order{}).
		Where("status IN ?", revenueStatuses).
		Count(&revenueOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count revenue orders: %w", err)
	}
	if revenueOrders > 0 {
		stats.AvgOrderValue = stats.TotalRevenue.Div(decimal.NewFromInt(revenueOrders)).Round(2)
	}

	if stats.TopProducts, err = s.TopProducts(ctx, 5); err != nil {
		return nil, err
	}

	if err := db.Preload("Items").
		Order("created_at DESC").
		Limit(10).
		Find(&stats.RecentOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}

	return stats, nil
}

// TopProducts returns the best sellers by units across all orders.
func (s *Service) TopProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	if limit < 1 || limit > 50 {
		limit = 5
	}

	var rows []struct {
		ProductID   uint
		ProductName string
		UnitsSold   int64
		Revenue     decimal.Decimal
	}
	err := s.db.WithContext(ctx).
		Model(&order.OrderItem{}).
		Select("product_id, product_name, SUM(quantity) AS units_sold, SUM(line_total) AS revenue").
		Group("product_id, product_name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate product sales: %w", err)
	}

	sales := make([]ProductSales, 0, len(rows))
	for _, r := range rows {
		sales = append(sales, ProductSales{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			UnitsSold:   r.UnitsSold,
			Revenue:     r.Revenue,
		})
	}
	return sales, nil
}

// RevenueSeries returns one revenue point per day over the last n days.
// Days without orders are included with zero values.
func (s *Service) RevenueSeries(ctx context.Context, days int) ([]RevenuePoint, error) {
	if days < 1 || days > 366 {
		days = 30
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(days - 1))

	var orders []order.Order
	err := s.db.WithContext(ctx).
		Select("created_at, total, status").
		Where("created_at >= ? AND status IN ?", start, revenueStatuses).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue orders: %w", err)
	}

	byDay := map[string]*RevenuePoint{}
	points := make([]RevenuePoint, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		points = append(points, RevenuePoint{Day: day, Revenue: decimal.Zero})
		byDay[day.Format("2006-01-02")] = &points[len(points)-1]
	}
	for _, o := range orders {
		if p, ok := byDay[o.CreatedAt.Format("2006-01-02")]; ok {
			p.Orders++
			p.Revenue = p.Revenue.Add(o.Total)
		}
	}
	return points, nil
}

func (s *Service) revenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	query := s.db.WithContext(ctx).
		Model(&order.Order{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("status IN ?", revenueStatuses)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	if err := query.Scan(&row).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return row.Total, nil
}
