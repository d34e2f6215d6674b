package billing

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrSubscriptionExists      = errors.New("user already has an outstanding subscription")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrPlanNotAllowed          = errors.New("plan is not in the allowed catalog")
	ErrNotPending              = errors.New("subscription is not pending")
	ErrNotCancellable          = errors.New("subscription cannot be cancelled in its current status")
	ErrGatewayIDMissing        = errors.New("gateway subscription id is required")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
