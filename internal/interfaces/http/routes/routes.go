package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// Handlers bundles every HTTP handler wired into the router.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Product   *handlers.ProductHandler
	Category  *handlers.CategoryHandler
	Cart      *handlers.CartHandler
	Order     *handlers.OrderHandler
	Invoice   *handlers.InvoiceHandler
	Import    *handlers.ImportHandler
	Analytics *handlers.AnalyticsHandler
	Customer  *handlers.CustomerHandler
}

// Setup registers all API routes. Staff access is enforced once, on
// the admin group; handlers below it never re-check roles.
func Setup(router *gin.Engine, h *Handlers, jwtManager *auth.JWTManager) {
	v1 := router.Group("/api/v1")

	// Public storefront
	v1.POST("/auth/register", h.Auth.Register)
	v1.POST("/auth/login", h.Auth.Login)
	v1.POST("/auth/refresh", h.Auth.Refresh)
	v1.GET("/products", h.Product.List)
	v1.GET("/products/:id", h.Product.Get)
	v1.GET("/categories", h.Category.List)

	// Authenticated storefront
	authed := v1.Group("")
	authed.Use(middleware.Auth(jwtManager))
	{
		authed.GET("/me", h.Auth.Profile)
		authed.PUT("/me", h.Auth.UpdateProfile)

		authed.GET("/cart", h.Cart.Get)
		authed.POST("/cart/items", h.Cart.AddItem)
		authed.PUT("/cart/items/:id", h.Cart.UpdateItem)
		authed.DELETE("/cart/items/:id", h.Cart.RemoveItem)
		authed.DELETE("/cart", h.Cart.Clear)

		authed.POST("/orders", h.Order.Checkout)
		authed.GET("/orders", h.Order.List)
		authed.GET("/orders/:id", h.Order.Get)
		authed.GET("/orders/:id/invoice", h.Invoice.Download)
	}

	// Back office
	admin := v1.Group("/admin")
	admin.Use(middleware.Auth(jwtManager), middleware.StaffOnly())
	{
		admin.GET("/products", h.Product.AdminList)
		admin.POST("/products", h.Product.Create)
		admin.PUT("/products/:id", h.Product.Update)
		admin.DELETE("/products/:id", h.Product.Delete)
		admin.DELETE("/products/:id/image", h.Product.ClearImage)
		admin.POST("/products/:id/stock", h.Product.AdjustStock)
		admin.GET("/products/:id/movements", h.Product.StockMovements)
		admin.POST("/products/import", h.Import.Import)

		admin.GET("/categories", h.Category.AdminList)
		admin.POST("/categories", h.Category.Create)
		admin.PUT("/categories/:id", h.Category.Update)
		admin.DELETE("/categories/:id", h.Category.Delete)

		admin.GET("/orders", h.Order.AdminList)
		admin.GET("/orders/:id", h.Order.AdminGet)
		admin.PUT("/orders/:id/status", h.Order.SetStatus)
		admin.POST("/orders/:id/return", h.Order.RecordReturn)

		admin.GET("/customers", h.Customer.List)
		admin.PUT("/customers/:id/active", h.Customer.SetActive)
		admin.GET("/customers/export", h.Customer.ExportCSV)

		admin.GET("/analytics/dashboard", h.Analytics.Dashboard)
		admin.GET("/analytics/revenue", h.Analytics.RevenueSeries)
		admin.GET("/analytics/top-products", h.Analytics.TopProducts)
	}
}
