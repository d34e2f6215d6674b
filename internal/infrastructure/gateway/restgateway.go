package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appgateway "tably/internal/application/billing/gateway"
	"tably/internal/shared/biztime"
	sharedConfig "tably/internal/shared/config"
	"tably/internal/shared/logger"
)

const (
	// HTTP request timeout
	requestTimeout = 10 * time.Second
	// Maximum response body size for gateway API responses (64KB)
	maxResponseSize = 64 << 10
)

// RESTGateway talks to the payment provider's REST API using key-pair basic
// auth. It implements the PaymentGateway port for subscription create and
// cancel; all other state arrives via webhooks.
type RESTGateway struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	logger     logger.Interface
}

// NewRESTGateway creates a gateway client from connection settings.
func NewRESTGateway(cfg *sharedConfig.GatewayConfig, logger logger.Interface) *RESTGateway {
	return &RESTGateway{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger,
	}
}

// Ensure RESTGateway implements PaymentGateway
var _ appgateway.PaymentGateway = (*RESTGateway)(nil)

type createSubscriptionPayload struct {
	PlanCode  string `json:"plan_code"`
	Quantity  int    `json:"quantity"`
	Reference string `json:"reference"`
}

type subscriptionResource struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
	CurrentEnd  int64  `json:"current_end"`
}

type cancelSubscriptionPayload struct {
	AtCycleEnd     bool `json:"at_cycle_end"`
	NotifyCustomer bool `json:"notify_customer"`
}

// CreateSubscription registers a new subscription with the provider and
// returns the hosted checkout URL the customer must complete.
func (g *RESTGateway) CreateSubscription(ctx context.Context, req appgateway.CreateSubscriptionRequest) (*appgateway.CreateSubscriptionResponse, error) {
	payload := createSubscriptionPayload{
		PlanCode:  req.PlanCode,
		Quantity:  req.Quantity,
		Reference: req.Reference,
	}

	var resource subscriptionResource
	if err := g.post(ctx, "/subscriptions", payload, &resource); err != nil {
		return nil, fmt.Errorf("failed to create gateway subscription: %w", err)
	}

	if resource.ID == "" {
		return nil, fmt.Errorf("gateway returned subscription without id")
	}

	g.logger.Infow("created gateway subscription",
		"gateway_subscription_id", resource.ID,
		"plan_code", req.PlanCode,
	)

	return &appgateway.CreateSubscriptionResponse{
		SubscriptionID: resource.ID,
		CheckoutURL:    resource.CheckoutURL,
		Status:         resource.Status,
	}, nil
}

// CancelSubscription terminates a subscription at the provider, either
// immediately or at the end of the current paid period.
func (g *RESTGateway) CancelSubscription(ctx context.Context, req appgateway.CancelSubscriptionRequest) (*appgateway.CancelSubscriptionResponse, error) {
	if req.SubscriptionID == "" {
		return nil, fmt.Errorf("subscription id cannot be empty")
	}

	payload := cancelSubscriptionPayload{
		AtCycleEnd:     req.AtCycleEnd,
		NotifyCustomer: req.NotifyCustomer,
	}

	var resource subscriptionResource
	path := fmt.Sprintf("/subscriptions/%s/cancel", req.SubscriptionID)
	if err := g.post(ctx, path, payload, &resource); err != nil {
		return nil, fmt.Errorf("failed to cancel gateway subscription: %w", err)
	}

	resp := &appgateway.CancelSubscriptionResponse{
		SubscriptionID: resource.ID,
		Outcome:        appgateway.CancelOutcomeCancelled,
	}
	if resource.Status == "scheduled" || req.AtCycleEnd {
		resp.Outcome = appgateway.CancelOutcomeScheduled
	}
	if resource.CurrentEnd > 0 {
		currentEnd := biztime.FromUnix(resource.CurrentEnd)
		resp.CurrentPeriodEnd = &currentEnd
	}

	g.logger.Infow("cancelled gateway subscription",
		"gateway_subscription_id", req.SubscriptionID,
		"outcome", resp.Outcome,
	)

	return resp, nil
}

// post sends an authenticated JSON request and decodes the response into out.
func (g *RESTGateway) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
