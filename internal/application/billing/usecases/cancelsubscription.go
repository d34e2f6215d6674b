package usecases

import (
	"context"

	"tably/internal/application/billing/gateway"
	"tably/internal/domain/billing"
	appErrors "tably/internal/shared/errors"
	"tably/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	UserID uint
}

type CancelSubscriptionResult struct {
	Subscription *billing.Subscription
}

type CancelSubscriptionUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	paymentGateway   gateway.PaymentGateway
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	paymentGateway gateway.PaymentGateway,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		paymentGateway:   paymentGateway,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*CancelSubscriptionResult, error) {
	sub, err := uc.subscriptionRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to load subscription record", "error", err, "user_id", cmd.UserID)
		return nil, appErrors.NewInternalError("failed to load subscription record")
	}

	if sub == nil {
		return nil, appErrors.NewNotFoundError("no subscription to cancel")
	}

	if !sub.Status().CanCancel() {
		uc.logger.Warnw("cancel rejected: status not cancellable",
			"user_id", cmd.UserID,
			"status", sub.Status(),
		)
		return nil, appErrors.NewFailedPreconditionError("subscription cannot be cancelled in its current status")
	}

	gatewayID := *sub.GatewaySubscriptionID()

	// The gateway is asked first: if it refuses, the local record stays
	// untouched and the user can retry.
	resp, err := uc.paymentGateway.CancelSubscription(ctx, gateway.CancelSubscriptionRequest{
		SubscriptionID: gatewayID,
		AtCycleEnd:     true,
		NotifyCustomer: true,
	})
	if err != nil {
		uc.logger.Errorw("gateway cancellation failed",
			"error", err,
			"user_id", cmd.UserID,
			"gateway_subscription_id", gatewayID,
		)
		return nil, appErrors.NewInternalError("payment gateway request failed")
	}

	atCycleEnd := resp.Outcome == gateway.CancelOutcomeScheduled
	if err := sub.ScheduleCancellation(atCycleEnd, resp.CurrentPeriodEnd); err != nil {
		uc.logger.Errorw("failed to apply cancellation transition", "error", err, "user_id", cmd.UserID)
		return nil, appErrors.NewInternalError("failed to update subscription record")
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		// The gateway cancellation already went through; until the next
		// webhook arrives the local record diverges from the gateway.
		uc.logger.Errorw("failed to persist cancelled subscription; record diverges until next webhook",
			"error", err,
			"user_id", cmd.UserID,
			"gateway_subscription_id", gatewayID,
		)
		return nil, appErrors.NewInternalError("failed to persist subscription record")
	}

	uc.logger.Infow("subscription cancellation recorded",
		"user_id", cmd.UserID,
		"gateway_subscription_id", gatewayID,
		"status", sub.Status(),
	)

	return &CancelSubscriptionResult{Subscription: sub}, nil
}
