package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tably/internal/application/billing/gateway"
	vo "tably/internal/domain/billing/valueobjects"
	appErrors "tably/internal/shared/errors"
)

func activeSubscription(t *testing.T, repo *fakeSubscriptionRepo, gw *fakeGateway, userID uint, periodEnd time.Time) {
	t.Helper()
	pendingSubscription(t, repo, gw, userID)
	sub, err := repo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.NoError(t, sub.ApplyCharge(periodEnd))
	require.NoError(t, repo.Update(context.Background(), sub))
}

func TestCancelSubscription_ScheduledAtCycleEnd(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	gw := &fakeGateway{}
	periodEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	activeSubscription(t, repo, gw, 10, periodEnd)

	gw.cancelFn = func(ctx context.Context, req gateway.CancelSubscriptionRequest) (*gateway.CancelSubscriptionResponse, error) {
		return &gateway.CancelSubscriptionResponse{
			SubscriptionID:   req.SubscriptionID,
			Outcome:          gateway.CancelOutcomeScheduled,
			CurrentPeriodEnd: &periodEnd,
		}, nil
	}

	uc := NewCancelSubscriptionUseCase(repo, gw, newNopLogger())
	result, err := uc.Execute(context.Background(), CancelSubscriptionCommand{UserID: 10})
	require.NoError(t, err)

	assert.Equal(t, vo.StatusPendingCancel, result.Subscription.Status())
	require.NotNil(t, result.Subscription.ValidUntil())
	assert.True(t, result.Subscription.ValidUntil().Equal(periodEnd))

	require.Len(t, gw.cancelCalls, 1)
	assert.True(t, gw.cancelCalls[0].AtCycleEnd)
	assert.True(t, gw.cancelCalls[0].NotifyCustomer)
}

func TestCancelSubscription_ImmediateOutcome(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	gw := &fakeGateway{}
	activeSubscription(t, repo, gw, 10, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	uc := NewCancelSubscriptionUseCase(repo, gw, newNopLogger())
	result, err := uc.Execute(context.Background(), CancelSubscriptionCommand{UserID: 10})
	require.NoError(t, err)

	assert.Equal(t, vo.StatusCancelled, result.Subscription.Status())
}

func TestCancelSubscription_GatewayFailureLeavesRecordUntouched(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	gw := &fakeGateway{}
	activeSubscription(t, repo, gw, 10, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	updatesBefore := repo.updateCalls

	gw.cancelFn = func(ctx context.Context, req gateway.CancelSubscriptionRequest) (*gateway.CancelSubscriptionResponse, error) {
		return nil, fmt.Errorf("gateway unavailable")
	}

	uc := NewCancelSubscriptionUseCase(repo, gw, newNopLogger())
	_, err := uc.Execute(context.Background(), CancelSubscriptionCommand{UserID: 10})
	require.Error(t, err)

	sub, err := repo.GetByUserID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.Equal(t, updatesBefore, repo.updateCalls)
}

func TestCancelSubscription_NoRecord(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	uc := NewCancelSubscriptionUseCase(repo, &fakeGateway{}, newNopLogger())

	_, err := uc.Execute(context.Background(), CancelSubscriptionCommand{UserID: 10})
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFoundError(err))
}

func TestCancelSubscription_FromPending(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	gw := &fakeGateway{}
	pendingSubscription(t, repo, gw, 10)

	uc := NewCancelSubscriptionUseCase(repo, gw, newNopLogger())
	result, err := uc.Execute(context.Background(), CancelSubscriptionCommand{UserID: 10})
	require.NoError(t, err)

	assert.Equal(t, vo.StatusCancelled, result.Subscription.Status())
	require.Len(t, gw.cancelCalls, 1)
}

func TestCancelSubscription_AlreadyCancelled(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	gw := &fakeGateway{}
	activeSubscription(t, repo, gw, 10, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	uc := NewCancelSubscriptionUseCase(repo, gw, newNopLogger())
	_, err := uc.Execute(context.Background(), CancelSubscriptionCommand{UserID: 10})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), CancelSubscriptionCommand{UserID: 10})
	require.Error(t, err)
	assert.True(t, appErrors.IsFailedPreconditionError(err))
}

func TestCancelSubscription_FromFailed(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	gw := &fakeGateway{}
	activeSubscription(t, repo, gw, 10, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	sub, err := repo.GetByUserID(context.Background(), 10)
	require.NoError(t, err)
	require.NoError(t, sub.ApplyPaymentFailure())
	require.NoError(t, repo.Update(context.Background(), sub))

	uc := NewCancelSubscriptionUseCase(repo, gw, newNopLogger())
	result, err := uc.Execute(context.Background(), CancelSubscriptionCommand{UserID: 10})
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCancelled, result.Subscription.Status())
}
