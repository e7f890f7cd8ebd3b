package order

import "context"

// Notifier delivers customer-facing order notifications. Delivery is
// best effort: implementations return errors for logging, but order
// processing never fails because a notification could not be sent.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *Order, recipient string) error
	StatusChanged(ctx context.Context, o *Order, recipient string) error
	ReturnUpdated(ctx context.Context, o *Order, recipient string) error
}

// NopNotifier discards all notifications. Used when email is disabled.
type NopNotifier struct{}

func (NopNotifier) OrderPlaced(context.Context, *Order, string) error   { return nil }
func (NopNotifier) StatusChanged(context.Context, *Order, string) error { return nil }
func (NopNotifier) ReturnUpdated(context.Context, *Order, string) error { return nil }
