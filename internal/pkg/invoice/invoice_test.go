package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

func sampleOrder() *order.Order {
	return &order.Order{
		OrderNumber: "ORD-20260115-ABCD1234",
		Status:      order.StatusPending,
		Total:       decimal.RequireFromString("68.00"),
		CreatedAt:   time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		User: &user.User{
			Email:     "pat@example.com",
			FirstName: "Pat",
			LastName:  "Doe",
		},
		Items: []order.OrderItem{
			{ProductName: "Basic Tee", Price: decimal.RequireFromString("25.00"), Quantity: 2, LineTotal: decimal.RequireFromString("50.00")},
			{ProductName: "Canvas Tote", Price: decimal.RequireFromString("18.00"), Quantity: 1, LineTotal: decimal.RequireFromString("18.00")},
		},
	}
}

func TestBuildHTML(t *testing.T) {
	svc, err := NewService(config.CompanyConfig{
		Name:           "Storefront Co",
		Email:          "billing@storefront.example",
		CurrencySymbol: "$",
	})
	require.NoError(t, err)

	html, err := svc.BuildHTML(sampleOrder())
	require.NoError(t, err)

	assert.Contains(t, html, "Storefront Co")
	assert.Contains(t, html, "ORD-20260115-ABCD1234")
	assert.Contains(t, html, "Pat Doe")
	assert.Contains(t, html, "Basic Tee")
	assert.Contains(t, html, "Canvas Tote")
	assert.Contains(t, html, "$25.00")
	assert.Contains(t, html, "$68.00")
	assert.Contains(t, html, "January 15, 2026")
}

func TestBuildHTMLEscapesProductNames(t *testing.T) {
	svc, err := NewService(config.CompanyConfig{Name: "Storefront Co"})
	require.NoError(t, err)

	o := sampleOrder()
	o.Items[0].ProductName = `<script>alert("x")</script>`

	html, err := svc.BuildHTML(o)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestBuildHTMLWithoutUser(t *testing.T) {
	svc, err := NewService(config.CompanyConfig{Name: "Storefront Co"})
	require.NoError(t, err)

	o := sampleOrder()
	o.User = nil

	html, err := svc.BuildHTML(o)
	require.NoError(t, err)
	assert.NotContains(t, html, "Billed to")
}
