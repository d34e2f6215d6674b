package usecases

import (
	"context"

	"tably/internal/application/billing/gateway"
	"tably/internal/domain/billing"
	vo "tably/internal/domain/billing/valueobjects"
	appErrors "tably/internal/shared/errors"
	"tably/internal/shared/logger"
)

type AbortSubscriptionCommand struct {
	UserID uint
	// GatewaySubscriptionID allows cleaning up a gateway subscription that
	// has no matching local record, e.g. after a persist failure during
	// checkout left it orphaned.
	GatewaySubscriptionID string
}

type AbortSubscriptionResult struct {
	Subscription *billing.Subscription
	// GatewayCleanupFailed reports that the gateway-side cancellation did
	// not go through. The local record is freed regardless; the orphaned
	// gateway subscription never activates without a completed checkout.
	GatewayCleanupFailed bool
}

type AbortSubscriptionUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	paymentGateway   gateway.PaymentGateway
	tombstones       TombstoneStore
	logger           logger.Interface
}

func NewAbortSubscriptionUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	paymentGateway gateway.PaymentGateway,
	tombstones TombstoneStore,
	logger logger.Interface,
) *AbortSubscriptionUseCase {
	return &AbortSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		paymentGateway:   paymentGateway,
		tombstones:       tombstones,
		logger:           logger,
	}
}

func (uc *AbortSubscriptionUseCase) Execute(ctx context.Context, cmd AbortSubscriptionCommand) (*AbortSubscriptionResult, error) {
	sub, err := uc.subscriptionRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to load subscription record", "error", err, "user_id", cmd.UserID)
		return nil, appErrors.NewInternalError("failed to load subscription record")
	}

	if sub == nil || sub.Status() != vo.StatusPending {
		if cmd.GatewaySubscriptionID != "" {
			return uc.cleanupOrphan(ctx, cmd)
		}
		uc.logger.Warnw("abort rejected: no pending subscription", "user_id", cmd.UserID)
		return nil, appErrors.NewFailedPreconditionError("no pending subscription to abort")
	}

	// Capture the gateway id before the record is cleared; webhook
	// attribution and the tombstone both need the pre-clear value.
	oldGatewayID := *sub.GatewaySubscriptionID()

	cleanupFailed := false
	_, err = uc.paymentGateway.CancelSubscription(ctx, gateway.CancelSubscriptionRequest{
		SubscriptionID: oldGatewayID,
		AtCycleEnd:     false,
		NotifyCustomer: false,
	})
	if err != nil {
		cleanupFailed = true
		uc.logger.Warnw("gateway cancellation failed during abort; local record will be freed anyway",
			"error", err,
			"user_id", cmd.UserID,
			"gateway_subscription_id", oldGatewayID,
		)
	}

	if err := uc.tombstones.Put(ctx, oldGatewayID, cmd.UserID); err != nil {
		uc.logger.Warnw("failed to write abort tombstone",
			"error", err,
			"user_id", cmd.UserID,
			"gateway_subscription_id", oldGatewayID,
		)
	}

	if err := sub.AbortCheckout(); err != nil {
		uc.logger.Errorw("failed to apply abort transition", "error", err, "user_id", cmd.UserID)
		return nil, appErrors.NewInternalError("failed to update subscription record")
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist aborted subscription", "error", err, "user_id", cmd.UserID)
		return nil, appErrors.NewInternalError("failed to persist subscription record")
	}

	uc.logger.Infow("pending subscription aborted",
		"user_id", cmd.UserID,
		"gateway_subscription_id", oldGatewayID,
		"gateway_cleanup_failed", cleanupFailed,
	)

	return &AbortSubscriptionResult{
		Subscription:         sub,
		GatewayCleanupFailed: cleanupFailed,
	}, nil
}

// cleanupOrphan cancels a gateway subscription that has no local record.
func (uc *AbortSubscriptionUseCase) cleanupOrphan(ctx context.Context, cmd AbortSubscriptionCommand) (*AbortSubscriptionResult, error) {
	_, err := uc.paymentGateway.CancelSubscription(ctx, gateway.CancelSubscriptionRequest{
		SubscriptionID: cmd.GatewaySubscriptionID,
		AtCycleEnd:     false,
		NotifyCustomer: false,
	})
	if err != nil {
		uc.logger.Errorw("failed to cancel orphaned gateway subscription",
			"error", err,
			"user_id", cmd.UserID,
			"gateway_subscription_id", cmd.GatewaySubscriptionID,
		)
		return nil, appErrors.NewInternalError("failed to cancel gateway subscription")
	}

	uc.logger.Infow("orphaned gateway subscription cancelled",
		"user_id", cmd.UserID,
		"gateway_subscription_id", cmd.GatewaySubscriptionID,
	)

	return &AbortSubscriptionResult{}, nil
}
