package gateway

import "time"

// Webhook event kinds reported by the payment gateway.
const (
	EventSubscriptionCharged   = "subscription.charged"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventPaymentFailed         = "payment.failed"
)

// WebhookEvent is a gateway webhook after signature verification and
// decoding. Kind is carried verbatim so unrecognized kinds can be logged and
// acknowledged without failing the delivery.
type WebhookEvent struct {
	Kind           string
	EventID        string
	SubscriptionID string
	// CurrentEnd is the end of the billing period just paid for. Only set on
	// charge events.
	CurrentEnd *time.Time
}
