package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tably/internal/application/billing/gateway"
	vo "tably/internal/domain/billing/valueobjects"
	appErrors "tably/internal/shared/errors"
)

func chargedEvent(subID string, currentEnd time.Time) gateway.WebhookEvent {
	return gateway.WebhookEvent{
		Kind:           gateway.EventSubscriptionCharged,
		EventID:        "evt_1",
		SubscriptionID: subID,
		CurrentEnd:     &currentEnd,
	}
}

func TestProcessWebhookEvent_Charged(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	gw := &fakeGateway{}
	pendingSubscription(t, repo, gw, 10)

	uc := NewProcessWebhookEventUseCase(repo, newFakeTombstones(), newNopLogger())
	periodEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	err := uc.Execute(context.Background(), ProcessWebhookEventCommand{Event: chargedEvent("sub_test1", periodEnd)})
	require.NoError(t, err)

	sub, err := repo.GetByUserID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, sub.Status())
	require.NotNil(t, sub.ValidUntil())
	assert.True(t, sub.ValidUntil().Equal(periodEnd))
}

func TestProcessWebhookEvent_ChargedReplayIsIdempotent(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	gw := &fakeGateway{}
	pendingSubscription(t, repo, gw, 10)

	uc := NewProcessWebhookEventUseCase(repo, newFakeTombstones(), newNopLogger())
	periodEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	event := chargedEvent("sub_test1", periodEnd)

	require.NoError(t, uc.Execute(context.Background(), ProcessWebhookEventCommand{Event: event}))
	require.NoError(t, uc.Execute(context.Background(), ProcessWebhookEventCommand{Event: event}))

	sub, err := repo.GetByUserID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.True(t, sub.ValidUntil().Equal(periodEnd))
}

func TestProcessWebhookEvent_Cancelled(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	gw := &fakeGateway{}
	activeSubscription(t, repo, gw, 10, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	notifier := &fakeNotifier{}
	uc := NewProcessWebhookEventUseCase(repo, newFakeTombstones(), newNopLogger(), WithBillingNotifier(notifier))

	err := uc.Execute(context.Background(), ProcessWebhookEventCommand{Event: gateway.WebhookEvent{
		Kind:           gateway.EventSubscriptionCancelled,
		SubscriptionID: "sub_test1",
	}})
	require.NoError(t, err)

	sub, err := repo.GetByUserID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCancelled, sub.Status())
	assert.Equal(t, []uint{10}, notifier.cancelled)
}

func TestProcessWebhookEvent_PaymentFailed(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	gw := &fakeGateway{}
	activeSubscription(t, repo, gw, 10, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	notifier := &fakeNotifier{}
	uc := NewProcessWebhookEventUseCase(repo, newFakeTombstones(), newNopLogger(), WithBillingNotifier(notifier))

	err := uc.Execute(context.Background(), ProcessWebhookEventCommand{Event: gateway.WebhookEvent{
		Kind:           gateway.EventPaymentFailed,
		SubscriptionID: "sub_test1",
	}})
	require.NoError(t, err)

	sub, err := repo.GetByUserID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusFailed, sub.Status())
	assert.Equal(t, []uint{10}, notifier.paymentFailed)
}

// Documents the current out-of-order behavior: a stale charge delivered
// after a cancellation reactivates the record (last-write-wins, no event
// ordering recovery).
func TestProcessWebhookEvent_StaleChargedAfterCancelledReactivates(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	gw := &fakeGateway{}
	activeSubscription(t, repo, gw, 10, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	uc := NewProcessWebhookEventUseCase(repo, newFakeTombstones(), newNopLogger())

	require.NoError(t, uc.Execute(context.Background(), ProcessWebhookEventCommand{Event: gateway.WebhookEvent{
		Kind:           gateway.EventSubscriptionCancelled,
		SubscriptionID: "sub_test1",
	}}))

	stale := chargedEvent("sub_test1", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, uc.Execute(context.Background(), ProcessWebhookEventCommand{Event: stale}))

	sub, err := repo.GetByUserID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, sub.Status())
}

func TestProcessWebhookEvent_UnknownKindIsAcknowledged(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	uc := NewProcessWebhookEventUseCase(repo, newFakeTombstones(), newNopLogger())

	err := uc.Execute(context.Background(), ProcessWebhookEventCommand{Event: gateway.WebhookEvent{
		Kind:           "subscription.updated",
		SubscriptionID: "sub_test1",
	}})
	assert.NoError(t, err)
	assert.Zero(t, repo.updateCalls)
}

func TestProcessWebhookEvent_UnmatchedSubscriptionIsDropped(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	uc := NewProcessWebhookEventUseCase(repo, newFakeTombstones(), newNopLogger())

	err := uc.Execute(context.Background(), ProcessWebhookEventCommand{
		Event: chargedEvent("sub_unknown", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)),
	})
	assert.NoError(t, err)
	assert.Zero(t, repo.updateCalls)
}

func TestProcessWebhookEvent_TombstonedSubscriptionIsDropped(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	tombstones := newFakeTombstones()
	require.NoError(t, tombstones.Put(context.Background(), "sub_aborted", 10))

	uc := NewProcessWebhookEventUseCase(repo, tombstones, newNopLogger())
	err := uc.Execute(context.Background(), ProcessWebhookEventCommand{
		Event: chargedEvent("sub_aborted", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)),
	})
	assert.NoError(t, err)
	assert.Zero(t, repo.updateCalls)
}

func TestProcessWebhookEvent_MissingSubscriptionID(t *testing.T) {
	uc := NewProcessWebhookEventUseCase(newFakeSubscriptionRepo(), newFakeTombstones(), newNopLogger())

	err := uc.Execute(context.Background(), ProcessWebhookEventCommand{Event: gateway.WebhookEvent{
		Kind: gateway.EventSubscriptionCharged,
	}})
	require.Error(t, err)
	appErr := appErrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrorTypeBadRequest, appErr.Type)
}

func TestProcessWebhookEvent_ChargedWithoutPeriodEnd(t *testing.T) {
	repo := newFakeSubscriptionRepo()
	gw := &fakeGateway{}
	pendingSubscription(t, repo, gw, 10)

	uc := NewProcessWebhookEventUseCase(repo, newFakeTombstones(), newNopLogger())
	err := uc.Execute(context.Background(), ProcessWebhookEventCommand{Event: gateway.WebhookEvent{
		Kind:           gateway.EventSubscriptionCharged,
		SubscriptionID: "sub_test1",
	}})
	require.Error(t, err)
	appErr := appErrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrorTypeBadRequest, appErr.Type)
}
