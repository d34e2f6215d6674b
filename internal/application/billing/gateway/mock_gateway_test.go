package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tably/internal/shared/id"
)

func TestMockGateway_CreateSubscription(t *testing.T) {
	gw := NewMockGateway(true)

	resp, err := gw.CreateSubscription(context.Background(), CreateSubscriptionRequest{
		PlanCode:  "gw_basic_monthly",
		Quantity:  1,
		Reference: "user-42",
	})

	require.NoError(t, err)
	assert.NoError(t, id.ValidatePrefix(resp.SubscriptionID, id.PrefixSubscription))
	assert.Contains(t, resp.CheckoutURL, resp.SubscriptionID)
}

func TestMockGateway_CreateSubscriptionRejected(t *testing.T) {
	gw := NewMockGateway(false)

	_, err := gw.CreateSubscription(context.Background(), CreateSubscriptionRequest{PlanCode: "gw_basic_monthly"})
	assert.Error(t, err)
}

func TestMockGateway_CancelAtCycleEnd(t *testing.T) {
	gw := NewMockGateway(true)

	resp, err := gw.CancelSubscription(context.Background(), CancelSubscriptionRequest{
		SubscriptionID: "sub_abc123",
		AtCycleEnd:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, CancelOutcomeScheduled, resp.Outcome)
	require.NotNil(t, resp.CurrentPeriodEnd)
}

func TestMockGateway_CancelImmediate(t *testing.T) {
	gw := NewMockGateway(true)

	resp, err := gw.CancelSubscription(context.Background(), CancelSubscriptionRequest{
		SubscriptionID: "sub_abc123",
	})

	require.NoError(t, err)
	assert.Equal(t, CancelOutcomeCancelled, resp.Outcome)
	assert.Nil(t, resp.CurrentPeriodEnd)
}
