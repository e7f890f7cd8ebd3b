package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/domain/user"
)

// CustomerHandler serves back-office customer management.
type CustomerHandler struct {
	users *user.Service
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(users *user.Service) *CustomerHandler {
	return &CustomerHandler{users: users}
}

// List returns a filtered page of customer accounts.
func (h *CustomerHandler) List(c *gin.Context) {
	var req user.ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.users.ListCustomers(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SetActive blocks or unblocks a customer account.
func (h *CustomerHandler) SetActive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ExportCSV streams all customers as a CSV download.
func (h *CustomerHandler) ExportCSV(c *gin.Context) {
	filename := "customers-" + time.Now().Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")

	if err := h.users.ExportCustomersCSV(c.Request.Context(), c.Writer); err != nil {
		// Headers may already be out; log via gin's error list.
		_ = c.Error(err)
	}
}
