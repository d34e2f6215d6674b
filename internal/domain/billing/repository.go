package billing

import "context"

// SubscriptionRepository persists subscription records. Lookups that find no
// record return (nil, nil); updates merge changed fields rather than
// replacing whole rows.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	GetByUserID(ctx context.Context, userID uint) (*Subscription, error)
	GetByGatewaySubscriptionID(ctx context.Context, gatewaySubscriptionID string) (*Subscription, error)
	Update(ctx context.Context, subscription *Subscription) error
}
