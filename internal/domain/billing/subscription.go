package billing

import (
	"fmt"
	"time"

	vo "tably/internal/domain/billing/valueobjects"
	"tably/internal/shared/biztime"
)

// Subscription is the aggregate root tracking a single user's subscription
// state against the payment gateway. Each user has at most one record, and a
// non-free record always points at exactly one gateway subscription.
type Subscription struct {
	id                    uint
	userID                uint
	gatewaySubscriptionID *string
	planID                *string
	status                vo.SubscriptionStatus
	validUntil            *time.Time
	version               int
	createdAt             time.Time
	updatedAt             time.Time
}

// NewFreeSubscription creates the initial record for a user with no
// subscription at the gateway.
func NewFreeSubscription(userID uint) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}

	now := biztime.NowUTC()
	s := &Subscription{
		userID:    userID,
		status:    vo.StatusFree,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}

	if err := s.validateInvariants(); err != nil {
		return nil, err
	}
	return s, nil
}

// ReconstructSubscription reconstructs a subscription from persistence.
func ReconstructSubscription(
	id, userID uint,
	gatewaySubscriptionID, planID *string,
	status vo.SubscriptionStatus,
	validUntil *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	s := &Subscription{
		id:                    id,
		userID:                userID,
		gatewaySubscriptionID: gatewaySubscriptionID,
		planID:                planID,
		status:                status,
		validUntil:            validUntil,
		version:               version,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}

	if err := s.validateInvariants(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Subscription) ID() uint { return s.id }

func (s *Subscription) UserID() uint { return s.userID }

// GatewaySubscriptionID returns the gateway-side subscription id, nil for
// free records.
func (s *Subscription) GatewaySubscriptionID() *string {
	return s.gatewaySubscriptionID
}

func (s *Subscription) PlanID() *string { return s.planID }

func (s *Subscription) Status() vo.SubscriptionStatus { return s.status }

// ValidUntil returns the paid-through boundary, nil when the user has never
// been charged or the record is free.
func (s *Subscription) ValidUntil() *time.Time { return s.validUntil }

// Version returns the aggregate version for optimistic locking
func (s *Subscription) Version() int { return s.version }

func (s *Subscription) CreatedAt() time.Time { return s.createdAt }

func (s *Subscription) UpdatedAt() time.Time { return s.updatedAt }

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// IsEntitled reports whether the user should currently receive paid service.
func (s *Subscription) IsEntitled(now time.Time) bool {
	if s.status != vo.StatusActive && s.status != vo.StatusPendingCancel {
		return false
	}
	return s.validUntil != nil && s.validUntil.After(now)
}

// BeginCheckout moves a free record to pending once the gateway subscription
// has been created.
func (s *Subscription) BeginCheckout(gatewaySubscriptionID, planID string) error {
	if gatewaySubscriptionID == "" {
		return ErrGatewayIDMissing
	}
	if planID == "" {
		return fmt.Errorf("plan ID is required")
	}
	if !s.status.CanTransitionTo(vo.StatusPending) {
		return ErrInvalidTransition(s.status.String(), vo.StatusPending.String())
	}

	s.gatewaySubscriptionID = &gatewaySubscriptionID
	s.planID = &planID
	s.status = vo.StatusPending
	s.validUntil = nil
	s.touch()

	return s.validateInvariants()
}

// AbortCheckout returns a pending record to free, clearing all gateway state.
func (s *Subscription) AbortCheckout() error {
	if s.status != vo.StatusPending {
		return ErrNotPending
	}
	if !s.status.CanTransitionTo(vo.StatusFree) {
		return ErrInvalidTransition(s.status.String(), vo.StatusFree.String())
	}

	s.gatewaySubscriptionID = nil
	s.planID = nil
	s.validUntil = nil
	s.status = vo.StatusFree
	s.touch()

	return s.validateInvariants()
}

// ScheduleCancellation records the outcome of a user cancellation. When the
// gateway terminates immediately the record goes to cancelled; when the
// cancellation takes effect at the end of the billing cycle the record goes
// to pending_cancel and validUntil reflects the gateway-reported period end.
func (s *Subscription) ScheduleCancellation(atCycleEnd bool, periodEnd *time.Time) error {
	target := vo.StatusCancelled
	if atCycleEnd {
		target = vo.StatusPendingCancel
	}

	if !s.status.CanCancel() {
		return ErrNotCancellable
	}
	if !s.status.CanTransitionTo(target) {
		return ErrInvalidTransition(s.status.String(), target.String())
	}

	s.status = target
	if atCycleEnd && periodEnd != nil {
		end := periodEnd.UTC()
		s.validUntil = &end
	}
	s.touch()

	return s.validateInvariants()
}

// ApplyCharge applies a gateway charge event: the record becomes active and
// validUntil is overwritten with the reported period end. Gateway events use
// last-write-wins overwrite semantics, so a stale charge arriving after a
// cancellation reactivates the record.
func (s *Subscription) ApplyCharge(periodEnd time.Time) error {
	if s.gatewaySubscriptionID == nil {
		return ErrGatewayIDMissing
	}

	end := periodEnd.UTC()
	s.status = vo.StatusActive
	s.validUntil = &end
	s.touch()

	return s.validateInvariants()
}

// ApplyGatewayCancellation applies a gateway cancellation event.
func (s *Subscription) ApplyGatewayCancellation() error {
	if s.gatewaySubscriptionID == nil {
		return ErrGatewayIDMissing
	}

	s.status = vo.StatusCancelled
	s.touch()

	return s.validateInvariants()
}

// ApplyPaymentFailure applies a gateway payment-failure event.
func (s *Subscription) ApplyPaymentFailure() error {
	if s.gatewaySubscriptionID == nil {
		return ErrGatewayIDMissing
	}

	s.status = vo.StatusFailed
	s.touch()

	return s.validateInvariants()
}

func (s *Subscription) touch() {
	s.updatedAt = biztime.NowUTC()
	s.version++
}

// validateInvariants checks the aggregate's structural invariants. It runs
// on construction and after every mutation.
func (s *Subscription) validateInvariants() error {
	if s.status == vo.StatusFree {
		if s.gatewaySubscriptionID != nil {
			return fmt.Errorf("free subscription must not reference a gateway subscription")
		}
		if s.validUntil != nil {
			return fmt.Errorf("free subscription must not have a valid-until boundary")
		}
		return nil
	}

	if s.status.RequiresGatewaySubscription() && (s.gatewaySubscriptionID == nil || *s.gatewaySubscriptionID == "") {
		return fmt.Errorf("status %s requires a gateway subscription id", s.status)
	}
	return nil
}
