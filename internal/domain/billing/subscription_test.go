package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "tably/internal/domain/billing/valueobjects"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestNewFreeSubscription(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)

	assert.Equal(t, uint(10), sub.UserID())
	assert.Equal(t, vo.StatusFree, sub.Status())
	assert.Nil(t, sub.GatewaySubscriptionID())
	assert.Nil(t, sub.PlanID())
	assert.Nil(t, sub.ValidUntil())
	assert.Equal(t, 1, sub.Version())
}

func TestNewFreeSubscription_RequiresUserID(t *testing.T) {
	_, err := NewFreeSubscription(0)
	assert.Error(t, err)
}

func TestBeginCheckout(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)

	err = sub.BeginCheckout("sub_abc123", "plan_basic")
	require.NoError(t, err)

	assert.Equal(t, vo.StatusPending, sub.Status())
	require.NotNil(t, sub.GatewaySubscriptionID())
	assert.Equal(t, "sub_abc123", *sub.GatewaySubscriptionID())
	require.NotNil(t, sub.PlanID())
	assert.Equal(t, "plan_basic", *sub.PlanID())
	assert.Nil(t, sub.ValidUntil())
	assert.Equal(t, 2, sub.Version())
}

func TestBeginCheckout_RejectsNonFree(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, sub.BeginCheckout("sub_abc123", "plan_basic"))

	err = sub.BeginCheckout("sub_other", "plan_basic")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestBeginCheckout_RequiresGatewayID(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)

	err = sub.BeginCheckout("", "plan_basic")
	assert.ErrorIs(t, err, ErrGatewayIDMissing)
}

func TestAbortCheckout(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, sub.BeginCheckout("sub_abc123", "plan_basic"))

	err = sub.AbortCheckout()
	require.NoError(t, err)

	assert.Equal(t, vo.StatusFree, sub.Status())
	assert.Nil(t, sub.GatewaySubscriptionID())
	assert.Nil(t, sub.PlanID())
	assert.Nil(t, sub.ValidUntil())
}

func TestAbortCheckout_RejectsNonPending(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)

	err = sub.AbortCheckout()
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestApplyCharge(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, sub.BeginCheckout("sub_abc123", "plan_basic"))

	periodEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	err = sub.ApplyCharge(periodEnd)
	require.NoError(t, err)

	assert.Equal(t, vo.StatusActive, sub.Status())
	require.NotNil(t, sub.ValidUntil())
	assert.True(t, sub.ValidUntil().Equal(periodEnd))
}

func TestApplyCharge_Idempotent(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, sub.BeginCheckout("sub_abc123", "plan_basic"))

	periodEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sub.ApplyCharge(periodEnd))
	require.NoError(t, sub.ApplyCharge(periodEnd))

	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.True(t, sub.ValidUntil().Equal(periodEnd))
}

// A charge event arriving after a cancellation reactivates the record:
// gateway events are applied last-write-wins, with no ordering recovery.
func TestApplyCharge_AfterCancellationReactivates(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, sub.BeginCheckout("sub_abc123", "plan_basic"))
	require.NoError(t, sub.ApplyGatewayCancellation())

	periodEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	err = sub.ApplyCharge(periodEnd)
	require.NoError(t, err)

	assert.Equal(t, vo.StatusActive, sub.Status())
}

func TestApplyGatewayCancellation(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, sub.BeginCheckout("sub_abc123", "plan_basic"))
	require.NoError(t, sub.ApplyCharge(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))

	err = sub.ApplyGatewayCancellation()
	require.NoError(t, err)

	assert.Equal(t, vo.StatusCancelled, sub.Status())
}

func TestApplyPaymentFailure(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, sub.BeginCheckout("sub_abc123", "plan_basic"))
	require.NoError(t, sub.ApplyCharge(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))

	err = sub.ApplyPaymentFailure()
	require.NoError(t, err)

	assert.Equal(t, vo.StatusFailed, sub.Status())
}

func TestScheduleCancellation_AtCycleEnd(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, sub.BeginCheckout("sub_abc123", "plan_basic"))
	require.NoError(t, sub.ApplyCharge(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))

	periodEnd := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	err = sub.ScheduleCancellation(true, timePtr(periodEnd))
	require.NoError(t, err)

	assert.Equal(t, vo.StatusPendingCancel, sub.Status())
	require.NotNil(t, sub.ValidUntil())
	assert.True(t, sub.ValidUntil().Equal(periodEnd))
}

func TestScheduleCancellation_Immediate(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, sub.BeginCheckout("sub_abc123", "plan_basic"))
	require.NoError(t, sub.ApplyCharge(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))

	err = sub.ScheduleCancellation(false, nil)
	require.NoError(t, err)

	assert.Equal(t, vo.StatusCancelled, sub.Status())
}

func TestScheduleCancellation_FromPending(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, sub.BeginCheckout("sub_abc123", "plan_basic"))

	err = sub.ScheduleCancellation(false, nil)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCancelled, sub.Status())
}

func TestScheduleCancellation_FromPendingAtCycleEnd(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, sub.BeginCheckout("sub_abc123", "plan_basic"))

	periodEnd := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	err = sub.ScheduleCancellation(true, timePtr(periodEnd))
	require.NoError(t, err)

	assert.Equal(t, vo.StatusPendingCancel, sub.Status())
	require.NotNil(t, sub.ValidUntil())
	assert.True(t, sub.ValidUntil().Equal(periodEnd))
}

func TestScheduleCancellation_RejectsTerminalStates(t *testing.T) {
	free, err := NewFreeSubscription(10)
	require.NoError(t, err)
	assert.ErrorIs(t, free.ScheduleCancellation(false, nil), ErrNotCancellable)

	cancelled, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, cancelled.BeginCheckout("sub_abc123", "plan_basic"))
	require.NoError(t, cancelled.ScheduleCancellation(false, nil))
	assert.ErrorIs(t, cancelled.ScheduleCancellation(false, nil), ErrNotCancellable)
}

func TestScheduleCancellation_FromFailed(t *testing.T) {
	sub, err := NewFreeSubscription(10)
	require.NoError(t, err)
	require.NoError(t, sub.BeginCheckout("sub_abc123", "plan_basic"))
	require.NoError(t, sub.ApplyPaymentFailure())

	err = sub.ScheduleCancellation(false, nil)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCancelled, sub.Status())
}

func TestReconstructSubscription_ValidatesInvariants(t *testing.T) {
	now := time.Now().UTC()

	// active without a gateway subscription id violates the aggregate
	_, err := ReconstructSubscription(1, 10, nil, strPtr("plan_basic"), vo.StatusActive, nil, 1, now, now)
	assert.Error(t, err)

	// free with a gateway subscription id violates the aggregate
	_, err = ReconstructSubscription(1, 10, strPtr("sub_abc123"), nil, vo.StatusFree, nil, 1, now, now)
	assert.Error(t, err)

	_, err = ReconstructSubscription(1, 10, strPtr("sub_abc123"), strPtr("plan_basic"), vo.StatusActive, timePtr(now), 3, now, now)
	assert.NoError(t, err)
}

func TestIsEntitled(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	sub, err := ReconstructSubscription(1, 10, strPtr("sub_abc123"), strPtr("plan_basic"), vo.StatusActive, &future, 3, now, now)
	require.NoError(t, err)
	assert.True(t, sub.IsEntitled(now))

	expired, err := ReconstructSubscription(1, 10, strPtr("sub_abc123"), strPtr("plan_basic"), vo.StatusActive, &past, 3, now, now)
	require.NoError(t, err)
	assert.False(t, expired.IsEntitled(now))

	free, err := NewFreeSubscription(10)
	require.NoError(t, err)
	assert.False(t, free.IsEntitled(now))
}
