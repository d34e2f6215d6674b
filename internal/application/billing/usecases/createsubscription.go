package usecases

import (
	"context"
	"fmt"

	"tably/internal/application/billing/gateway"
	"tably/internal/domain/billing"
	appErrors "tably/internal/shared/errors"
	"tably/internal/shared/logger"
)

type CreateSubscriptionCommand struct {
	UserID uint
	PlanID string
}

type CreateSubscriptionResult struct {
	Subscription *billing.Subscription
	CheckoutURL  string
}

type CreateSubscriptionUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	catalog          *billing.PlanCatalog
	paymentGateway   gateway.PaymentGateway
	logger           logger.Interface
}

func NewCreateSubscriptionUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	catalog *billing.PlanCatalog,
	paymentGateway gateway.PaymentGateway,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		catalog:          catalog,
		paymentGateway:   paymentGateway,
		logger:           logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*CreateSubscriptionResult, error) {
	plan, ok := uc.catalog.Get(cmd.PlanID)
	if !ok {
		uc.logger.Warnw("subscription create rejected: unknown plan", "user_id", cmd.UserID, "plan_id", cmd.PlanID)
		return nil, appErrors.NewValidationError("unknown plan", cmd.PlanID)
	}

	sub, err := uc.subscriptionRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to load subscription record", "error", err, "user_id", cmd.UserID)
		return nil, appErrors.NewInternalError("failed to load subscription record")
	}

	isNew := sub == nil
	if isNew {
		sub, err = billing.NewFreeSubscription(cmd.UserID)
		if err != nil {
			return nil, appErrors.NewInternalError("failed to initialize subscription record")
		}
	}

	if sub.Status().RequiresGatewaySubscription() {
		uc.logger.Warnw("subscription create rejected: outstanding subscription exists",
			"user_id", cmd.UserID,
			"status", sub.Status(),
		)
		return nil, appErrors.NewFailedPreconditionError("user already has an outstanding subscription")
	}

	resp, err := uc.paymentGateway.CreateSubscription(ctx, gateway.CreateSubscriptionRequest{
		PlanCode:  plan.GatewayCode,
		Quantity:  1,
		Reference: fmt.Sprintf("user:%d", cmd.UserID),
	})
	if err != nil {
		uc.logger.Errorw("gateway subscription create failed", "error", err, "user_id", cmd.UserID, "plan_id", cmd.PlanID)
		return nil, appErrors.NewInternalError("payment gateway request failed")
	}

	if err := sub.BeginCheckout(resp.SubscriptionID, plan.ID); err != nil {
		uc.logger.Errorw("failed to apply checkout transition", "error", err, "user_id", cmd.UserID)
		return nil, appErrors.NewInternalError("failed to update subscription record")
	}

	if isNew {
		err = uc.subscriptionRepo.Create(ctx, sub)
	} else {
		err = uc.subscriptionRepo.Update(ctx, sub)
	}
	if err != nil {
		// The gateway subscription now exists without a matching local
		// record. Surface the orphaned id so it can be aborted by hand.
		uc.logger.Errorw("failed to persist pending subscription; gateway subscription is orphaned",
			"error", err,
			"user_id", cmd.UserID,
			"gateway_subscription_id", resp.SubscriptionID,
		)
		return nil, appErrors.NewInternalError("failed to persist subscription record")
	}

	uc.logger.Infow("subscription checkout started",
		"user_id", cmd.UserID,
		"plan_id", plan.ID,
		"gateway_subscription_id", resp.SubscriptionID,
	)

	return &CreateSubscriptionResult{
		Subscription: sub,
		CheckoutURL:  resp.CheckoutURL,
	}, nil
}
