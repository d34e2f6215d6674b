package gateway

import (
	"context"
	"fmt"

	"tably/internal/shared/biztime"
	"tably/internal/shared/id"
)

// MockGateway is an in-memory PaymentGateway for development and tests.
type MockGateway struct {
	shouldSucceed bool
}

func NewMockGateway(shouldSucceed bool) *MockGateway {
	return &MockGateway{
		shouldSucceed: shouldSucceed,
	}
}

var _ PaymentGateway = (*MockGateway)(nil)

func (m *MockGateway) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*CreateSubscriptionResponse, error) {
	if !m.shouldSucceed {
		return nil, fmt.Errorf("mock gateway: create rejected")
	}

	subID := id.MustGenerateWithPrefix(id.PrefixSubscription, id.DefaultLength)
	return &CreateSubscriptionResponse{
		SubscriptionID: subID,
		CheckoutURL:    fmt.Sprintf("https://mock-gateway.example.com/checkout?subscription=%s", subID),
		Status:         "created",
	}, nil
}

func (m *MockGateway) CancelSubscription(ctx context.Context, req CancelSubscriptionRequest) (*CancelSubscriptionResponse, error) {
	if !m.shouldSucceed {
		return nil, fmt.Errorf("mock gateway: cancel rejected")
	}

	if req.AtCycleEnd {
		periodEnd := biztime.NowUTC().AddDate(0, 1, 0)
		return &CancelSubscriptionResponse{
			SubscriptionID:   req.SubscriptionID,
			Outcome:          CancelOutcomeScheduled,
			CurrentPeriodEnd: &periodEnd,
		}, nil
	}

	return &CancelSubscriptionResponse{
		SubscriptionID: req.SubscriptionID,
		Outcome:        CancelOutcomeCancelled,
	}, nil
}
