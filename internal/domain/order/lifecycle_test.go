package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{StatusPending, StatusShipped},
		{StatusPending, StatusCancelled},
		{StatusPending, StatusReturned},
		{StatusShipped, StatusDelivered},
		{StatusShipped, StatusReturned},
		{StatusDelivered, StatusReturned},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	rejected := []struct{ from, to OrderStatus }{
		{StatusPending, StatusDelivered},
		{StatusShipped, StatusPending},
		{StatusShipped, StatusCancelled},
		{StatusDelivered, StatusPending},
		{StatusDelivered, StatusShipped},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusShipped},
		{StatusReturned, StatusPending},
		{StatusReturned, StatusDelivered},
	}
	for _, tc := range rejected {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be rejected", tc.from, tc.to)
	}
}

func TestCanTransitionSameStatus(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusShipped, StatusDelivered, StatusReturned, StatusCancelled} {
		assert.False(t, CanTransition(s, s))
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusReturned.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusShipped.IsTerminal())
	assert.False(t, StatusDelivered.IsTerminal())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusShipped))
	assert.False(t, ValidStatus(OrderStatus("misplaced")))
}

func TestRefundProgressIsMonotonic(t *testing.T) {
	assert.True(t, CanSetRefund(RefundNone, RefundPending))
	assert.True(t, CanSetRefund(RefundNone, RefundComplete))
	assert.True(t, CanSetRefund(RefundPending, RefundComplete))
	assert.True(t, CanSetRefund(RefundPending, RefundPending))

	assert.False(t, CanSetRefund(RefundPending, RefundNone))
	assert.False(t, CanSetRefund(RefundComplete, RefundPending))
	assert.False(t, CanSetRefund(RefundComplete, RefundNone))
}

func TestValidRefundStatus(t *testing.T) {
	assert.True(t, ValidRefundStatus(RefundPending))
	assert.False(t, ValidRefundStatus(RefundStatus("partial")))
}
