package usecases

import (
	"context"

	"tably/internal/domain/billing"
	appErrors "tably/internal/shared/errors"
	"tably/internal/shared/logger"
)

type GetSubscriptionCommand struct {
	UserID uint
}

type GetSubscriptionUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	logger logger.Interface,
) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Execute returns the user's subscription record. Users without a stored
// record are reported as free.
func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, cmd GetSubscriptionCommand) (*billing.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to load subscription record", "error", err, "user_id", cmd.UserID)
		return nil, appErrors.NewInternalError("failed to load subscription record")
	}

	if sub == nil {
		return billing.NewFreeSubscription(cmd.UserID)
	}
	return sub, nil
}
