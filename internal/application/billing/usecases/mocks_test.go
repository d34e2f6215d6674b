package usecases

import (
	"context"
	"fmt"

	"tably/internal/application/billing/gateway"
	"tably/internal/domain/billing"
	"tably/internal/shared/logger"
)

type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)                   {}
func (l *nopLogger) Info(msg string, args ...any)                    {}
func (l *nopLogger) Warn(msg string, args ...any)                    {}
func (l *nopLogger) Error(msg string, args ...any)                   {}
func (l *nopLogger) Fatal(msg string, args ...any)                   {}
func (l *nopLogger) With(args ...any) logger.Interface               { return l }
func (l *nopLogger) Named(name string) logger.Interface              { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (l *nopLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

type fakeSubscriptionRepo struct {
	byUser map[uint]*billing.Subscription

	getErr    error
	createErr error
	updateErr error

	createCalls int
	updateCalls int
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{byUser: make(map[uint]*billing.Subscription)}
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *billing.Subscription) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	if sub.ID() == 0 {
		_ = sub.SetID(uint(len(r.byUser) + 1))
	}
	r.byUser[sub.UserID()] = sub
	return nil
}

func (r *fakeSubscriptionRepo) GetByUserID(ctx context.Context, userID uint) (*billing.Subscription, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.byUser[userID], nil
}

func (r *fakeSubscriptionRepo) GetByGatewaySubscriptionID(ctx context.Context, gatewaySubscriptionID string) (*billing.Subscription, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, sub := range r.byUser {
		if sub.GatewaySubscriptionID() != nil && *sub.GatewaySubscriptionID() == gatewaySubscriptionID {
			return sub, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, sub *billing.Subscription) error {
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	r.byUser[sub.UserID()] = sub
	return nil
}

type fakeGateway struct {
	createFn func(ctx context.Context, req gateway.CreateSubscriptionRequest) (*gateway.CreateSubscriptionResponse, error)
	cancelFn func(ctx context.Context, req gateway.CancelSubscriptionRequest) (*gateway.CancelSubscriptionResponse, error)

	createCalls []gateway.CreateSubscriptionRequest
	cancelCalls []gateway.CancelSubscriptionRequest
}

func (g *fakeGateway) CreateSubscription(ctx context.Context, req gateway.CreateSubscriptionRequest) (*gateway.CreateSubscriptionResponse, error) {
	g.createCalls = append(g.createCalls, req)
	if g.createFn != nil {
		return g.createFn(ctx, req)
	}
	return &gateway.CreateSubscriptionResponse{
		SubscriptionID: "sub_test1",
		CheckoutURL:    "https://gateway.example.com/checkout/sub_test1",
		Status:         "created",
	}, nil
}

func (g *fakeGateway) CancelSubscription(ctx context.Context, req gateway.CancelSubscriptionRequest) (*gateway.CancelSubscriptionResponse, error) {
	g.cancelCalls = append(g.cancelCalls, req)
	if g.cancelFn != nil {
		return g.cancelFn(ctx, req)
	}
	return &gateway.CancelSubscriptionResponse{
		SubscriptionID: req.SubscriptionID,
		Outcome:        gateway.CancelOutcomeCancelled,
	}, nil
}

type fakeTombstones struct {
	entries map[string]uint
	putErr  error
}

func newFakeTombstones() *fakeTombstones {
	return &fakeTombstones{entries: make(map[string]uint)}
}

func (t *fakeTombstones) Put(ctx context.Context, gatewaySubscriptionID string, userID uint) error {
	if t.putErr != nil {
		return t.putErr
	}
	t.entries[gatewaySubscriptionID] = userID
	return nil
}

func (t *fakeTombstones) Resolve(ctx context.Context, gatewaySubscriptionID string) (uint, error) {
	return t.entries[gatewaySubscriptionID], nil
}

type fakeNotifier struct {
	paymentFailed []uint
	cancelled     []uint
	err           error
}

func (n *fakeNotifier) NotifyPaymentFailed(ctx context.Context, userID uint) error {
	n.paymentFailed = append(n.paymentFailed, userID)
	return n.err
}

func (n *fakeNotifier) NotifyCancelled(ctx context.Context, userID uint) error {
	n.cancelled = append(n.cancelled, userID)
	return n.err
}

func testCatalog() *billing.PlanCatalog {
	catalog, err := billing.NewPlanCatalog([]billing.Plan{
		{ID: "plan_basic", Name: "Basic", GatewayCode: "gw_basic_monthly", PeriodDays: 30},
		{ID: "plan_pro", Name: "Pro", GatewayCode: "gw_pro_monthly", PeriodDays: 30},
	})
	if err != nil {
		panic(fmt.Sprintf("test catalog: %v", err))
	}
	return catalog
}
