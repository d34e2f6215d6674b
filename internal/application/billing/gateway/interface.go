package gateway

import (
	"context"
	"time"
)

// PaymentGateway is the port to the external recurring-payment provider.
// The gateway owns money movement; this service only mirrors subscription
// state from its responses and webhooks.
type PaymentGateway interface {
	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*CreateSubscriptionResponse, error)
	CancelSubscription(ctx context.Context, req CancelSubscriptionRequest) (*CancelSubscriptionResponse, error)
}

type CreateSubscriptionRequest struct {
	PlanCode  string
	Quantity  int
	Reference string
}

type CreateSubscriptionResponse struct {
	SubscriptionID string
	CheckoutURL    string
	Status         string
}

type CancelSubscriptionRequest struct {
	SubscriptionID string
	// AtCycleEnd requests termination at the end of the paid period instead
	// of immediately.
	AtCycleEnd bool
	// NotifyCustomer controls whether the gateway sends its own notification
	// to the customer. Aborting an unconfirmed checkout sets this to false.
	NotifyCustomer bool
}

// CancelOutcome is the gateway's verdict on a cancellation request.
type CancelOutcome string

const (
	// CancelOutcomeCancelled means the subscription was terminated immediately.
	CancelOutcomeCancelled CancelOutcome = "cancelled"
	// CancelOutcomeScheduled means termination takes effect at period end.
	CancelOutcomeScheduled CancelOutcome = "scheduled"
)

type CancelSubscriptionResponse struct {
	SubscriptionID   string
	Outcome          CancelOutcome
	CurrentPeriodEnd *time.Time
}
