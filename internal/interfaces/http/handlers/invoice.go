package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/invoice"
)

// InvoiceHandler serves invoice downloads for order owners.
type InvoiceHandler struct {
	orders   *order.Service
	invoices *invoice.Service
}

// NewInvoiceHandler creates an invoice handler.
func NewInvoiceHandler(orders *order.Service, invoices *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{orders: orders, invoices: invoices}
}

// Download renders the caller's order invoice. With ?format=html the
// raw document is returned, otherwise a PDF.
func (h *InvoiceHandler) Download(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "html" {
		html, err := h.invoices.BuildHTML(o)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	pdf, err := h.invoices.GeneratePDF(o)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("invoice-%s.pdf", strings.ToLower(o.OrderNumber))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
