package valueobjects

type SubscriptionStatus string

const (
	StatusFree          SubscriptionStatus = "free"
	StatusPending       SubscriptionStatus = "pending"
	StatusActive        SubscriptionStatus = "active"
	StatusFailed        SubscriptionStatus = "failed"
	StatusCancelled     SubscriptionStatus = "cancelled"
	StatusPendingCancel SubscriptionStatus = "pending_cancel"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// RequiresGatewaySubscription reports whether the status implies an
// outstanding subscription at the payment gateway.
func (s SubscriptionStatus) RequiresGatewaySubscription() bool {
	return s != StatusFree
}

// CanCancel reports whether a user-initiated cancellation is allowed. A
// pending record is cancellable too: the checkout already exists at the
// gateway, so the user may walk away from it via the normal cancel path.
func (s SubscriptionStatus) CanCancel() bool {
	return s == StatusPending || s == StatusActive || s == StatusPendingCancel || s == StatusFailed
}

// CanTransitionTo validates user-initiated transitions. Gateway-reported
// events are applied with overwrite semantics and are not gated here.
func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	transitions := map[SubscriptionStatus][]SubscriptionStatus{
		StatusFree:          {StatusPending},
		StatusPending:       {StatusFree, StatusCancelled, StatusPendingCancel},
		StatusActive:        {StatusCancelled, StatusPendingCancel},
		StatusPendingCancel: {StatusCancelled, StatusPendingCancel},
		StatusFailed:        {StatusCancelled, StatusPendingCancel},
		StatusCancelled:     {},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusFree:          true,
	StatusPending:       true,
	StatusActive:        true,
	StatusFailed:        true,
	StatusCancelled:     true,
	StatusPendingCancel: true,
}
