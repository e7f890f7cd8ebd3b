package order

// statusTransitions lists which fulfillment moves are allowed. A
// return can still be recorded after delivery; cancelled and returned
// are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusShipped, StatusCancelled, StatusReturned},
	StatusShipped:   {StatusDelivered, StatusReturned},
	StatusDelivered: {StatusReturned},
	StatusReturned:  {},
	StatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to
// another. A same-status "transition" is not a transition at all and
// returns false.
func CanTransition(from, to OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether the value is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusReturned, StatusCancelled:
		return true
	}
	return false
}

// refundRank orders refund states for monotonicity checks.
var refundRank = map[RefundStatus]int{
	RefundNone:     0,
	RefundPending:  1,
	RefundComplete: 2,
}

// ValidRefundStatus reports whether the value is a known refund status.
func ValidRefundStatus(s RefundStatus) bool {
	_, ok := refundRank[s]
	return ok
}

// CanSetRefund reports whether a refund status change is allowed.
// Refund progress only moves forward; staying put is allowed.
func CanSetRefund(from, to RefundStatus) bool {
	fr, ok := refundRank[from]
	if !ok {
		return false
	}
	tr, ok := refundRank[to]
	if !ok {
		return false
	}
	return tr >= fr
}
