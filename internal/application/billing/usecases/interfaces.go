package usecases

import "context"

// TombstoneStore keeps short-lived mappings from a cleared gateway
// subscription id back to the owning user, so webhooks racing an abort can
// still be attributed.
type TombstoneStore interface {
	Put(ctx context.Context, gatewaySubscriptionID string, userID uint) error
	// Resolve returns the user id for a tombstoned gateway subscription id,
	// or 0 when no tombstone exists.
	Resolve(ctx context.Context, gatewaySubscriptionID string) (uint, error)
}

// BillingNotifier delivers best-effort user notifications about billing
// outcomes. Failures are logged and never block state changes.
type BillingNotifier interface {
	NotifyPaymentFailed(ctx context.Context, userID uint) error
	NotifyCancelled(ctx context.Context, userID uint) error
}
