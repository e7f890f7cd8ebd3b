package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

func testNotifier(t *testing.T) *Notifier {
	t.Helper()
	n, err := NewNotifier(
		config.EmailConfig{Provider: "smtp", FromEmail: "noreply@example.com", FromName: "Storefront"},
		config.CompanyConfig{Name: "Storefront Co", Website: "https://storefront.example", CurrencySymbol: "$"},
		nil,
		quietLogger(),
	)
	require.NoError(t, err)
	return n
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testOrder() *order.Order {
	return &order.Order{
		OrderNumber:  "ORD-20260115-ABCD1234",
		Status:       order.StatusShipped,
		RefundStatus: order.RefundPending,
		ReturnReason: "damaged in transit",
		Total:        decimal.RequireFromString("43.00"),
		CreatedAt:    time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		User:         &user.User{Email: "pat@example.com", FirstName: "Pat"},
		Items: []order.OrderItem{
			{ProductName: "Basic Tee", Quantity: 1, LineTotal: decimal.RequireFromString("25.00")},
			{ProductName: "Canvas Tote", Quantity: 1, LineTotal: decimal.RequireFromString("18.00")},
		},
	}
}

func TestRenderOrderPlaced(t *testing.T) {
	n := testNotifier(t)

	body, err := n.render(n.orderPlaced, testOrder())
	require.NoError(t, err)
	assert.Contains(t, body, "ORD-20260115-ABCD1234")
	assert.Contains(t, body, "Pat")
	assert.Contains(t, body, "Basic Tee")
	assert.Contains(t, body, "$43.00")
}

func TestRenderStatusChanged(t *testing.T) {
	n := testNotifier(t)

	body, err := n.render(n.statusChanged, testOrder())
	require.NoError(t, err)
	assert.Contains(t, body, "shipped")
}

func TestRenderReturnUpdated(t *testing.T) {
	n := testNotifier(t)

	body, err := n.render(n.returnUpdated, testOrder())
	require.NoError(t, err)
	assert.Contains(t, body, "damaged in transit")
	assert.Contains(t, body, "refund pending")
}

func TestNotificationsSkippedWhenDisabled(t *testing.T) {
	n := testNotifier(t)

	require.NoError(t, n.OrderPlaced(context.Background(), testOrder(), "pat@example.com"))
	require.NoError(t, n.StatusChanged(context.Background(), testOrder(), "pat@example.com"))
	require.NoError(t, n.ReturnUpdated(context.Background(), testOrder(), "pat@example.com"))
}

func TestBuildMIMEWithAttachment(t *testing.T) {
	sender := NewSMTPSender(config.EmailConfig{
		FromEmail: "noreply@example.com",
		FromName:  "Storefront",
		ReplyTo:   "support@example.com",
	})

	raw, err := sender.buildMIME(&Message{
		To:       "pat@example.com",
		Subject:  "Order confirmation",
		HTMLBody: "<p>Thanks!</p>",
		Attachments: []Attachment{
			{Filename: "invoice.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4 fake")},
		},
	})
	require.NoError(t, err)

	msg := string(raw)
	assert.Contains(t, msg, "From: Storefront <noreply@example.com>")
	assert.Contains(t, msg, "To: pat@example.com")
	assert.Contains(t, msg, "Reply-To: support@example.com")
	assert.Contains(t, msg, "Subject: Order confirmation")
	assert.Contains(t, msg, "multipart/mixed")
	assert.Contains(t, msg, `attachment; filename="invoice.pdf"`)
	assert.True(t, strings.Contains(msg, "base64"))
}
