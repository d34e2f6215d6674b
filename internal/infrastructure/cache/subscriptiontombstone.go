package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tably/internal/application/billing/usecases"
)

const (
	subscriptionTombstonePrefix = "subscription:tombstone:"
	// subscriptionTombstoneTTL covers the window in which a webhook for an
	// aborted checkout can still arrive. After expiry such events degrade to
	// the anonymous drop-and-acknowledge path.
	subscriptionTombstoneTTL = 24 * time.Hour
)

// SubscriptionTombstoneStore keeps short-lived mappings from a cleared
// gateway subscription id back to the owning user. AbortPending writes the
// mapping before the local record is cleared, so a racing webhook can still
// be attributed.
type SubscriptionTombstoneStore struct {
	client *redis.Client
}

// NewSubscriptionTombstoneStore creates a new SubscriptionTombstoneStore instance
func NewSubscriptionTombstoneStore(client *redis.Client) *SubscriptionTombstoneStore {
	return &SubscriptionTombstoneStore{client: client}
}

var _ usecases.TombstoneStore = (*SubscriptionTombstoneStore)(nil)

// Put stores the gateway subscription id to user mapping.
func (s *SubscriptionTombstoneStore) Put(ctx context.Context, gatewaySubscriptionID string, userID uint) error {
	if gatewaySubscriptionID == "" {
		return fmt.Errorf("gateway subscription id cannot be empty")
	}

	key := subscriptionTombstonePrefix + gatewaySubscriptionID
	if err := s.client.Set(ctx, key, userID, subscriptionTombstoneTTL).Err(); err != nil {
		return fmt.Errorf("failed to store subscription tombstone: %w", err)
	}
	return nil
}

// Resolve returns the user id for a tombstoned gateway subscription id, or 0
// when no tombstone exists.
func (s *SubscriptionTombstoneStore) Resolve(ctx context.Context, gatewaySubscriptionID string) (uint, error) {
	if gatewaySubscriptionID == "" {
		return 0, nil
	}

	key := subscriptionTombstonePrefix + gatewaySubscriptionID
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get subscription tombstone: %w", err)
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in subscription tombstone: %w", err)
	}

	return uint(userID), nil
}
