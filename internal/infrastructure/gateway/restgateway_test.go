package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appgateway "tably/internal/application/billing/gateway"
	sharedConfig "tably/internal/shared/config"
	"tably/internal/shared/logger"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *RESTGateway {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &sharedConfig.GatewayConfig{
		BaseURL:   server.URL,
		KeyID:     "key_test",
		KeySecret: "secret_test",
	}
	return NewRESTGateway(cfg, logger.NewLogger())
}

func TestRESTGateway_CreateSubscription(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/subscriptions", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_test", user)
		assert.Equal(t, "secret_test", pass)

		var payload createSubscriptionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "gw_basic_monthly", payload.PlanCode)
		assert.Equal(t, 1, payload.Quantity)
		assert.Equal(t, "user:10", payload.Reference)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "sub_new1", "status": "created", "checkout_url": "https://pay.example.com/sub_new1"}`))
	})

	resp, err := gw.CreateSubscription(context.Background(), appgateway.CreateSubscriptionRequest{
		PlanCode:  "gw_basic_monthly",
		Quantity:  1,
		Reference: "user:10",
	})
	require.NoError(t, err)
	assert.Equal(t, "sub_new1", resp.SubscriptionID)
	assert.Equal(t, "https://pay.example.com/sub_new1", resp.CheckoutURL)
}

func TestRESTGateway_CreateSubscription_MissingID(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "created"}`))
	})

	_, err := gw.CreateSubscription(context.Background(), appgateway.CreateSubscriptionRequest{
		PlanCode: "gw_basic_monthly",
		Quantity: 1,
	})
	assert.Error(t, err)
}

func TestRESTGateway_CreateSubscription_ServerError(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := gw.CreateSubscription(context.Background(), appgateway.CreateSubscriptionRequest{
		PlanCode: "gw_basic_monthly",
		Quantity: 1,
	})
	assert.Error(t, err)
}

func TestRESTGateway_CancelSubscription_AtCycleEnd(t *testing.T) {
	periodEnd := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/sub_abc123/cancel", r.URL.Path)

		var payload cancelSubscriptionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.True(t, payload.AtCycleEnd)
		assert.True(t, payload.NotifyCustomer)

		_, _ = w.Write([]byte(`{"id": "sub_abc123", "status": "scheduled", "current_end": 1767225600}`))
	})

	resp, err := gw.CancelSubscription(context.Background(), appgateway.CancelSubscriptionRequest{
		SubscriptionID: "sub_abc123",
		AtCycleEnd:     true,
		NotifyCustomer: true,
	})
	require.NoError(t, err)
	assert.Equal(t, appgateway.CancelOutcomeScheduled, resp.Outcome)
	require.NotNil(t, resp.CurrentPeriodEnd)
	assert.Equal(t, periodEnd, *resp.CurrentPeriodEnd)
}

func TestRESTGateway_CancelSubscription_Immediate(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		var payload cancelSubscriptionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.False(t, payload.AtCycleEnd)
		assert.False(t, payload.NotifyCustomer)

		_, _ = w.Write([]byte(`{"id": "sub_abc123", "status": "cancelled"}`))
	})

	resp, err := gw.CancelSubscription(context.Background(), appgateway.CancelSubscriptionRequest{
		SubscriptionID: "sub_abc123",
	})
	require.NoError(t, err)
	assert.Equal(t, appgateway.CancelOutcomeCancelled, resp.Outcome)
	assert.Nil(t, resp.CurrentPeriodEnd)
}

func TestRESTGateway_CancelSubscription_EmptyID(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := gw.CancelSubscription(context.Background(), appgateway.CancelSubscriptionRequest{})
	assert.Error(t, err)
}
