package handlers

import (
	"context"

	"tably/internal/application/billing/usecases"
	"tably/internal/domain/billing"
)

// Use case interfaces for SubscriptionHandler

type createSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateSubscriptionCommand) (*usecases.CreateSubscriptionResult, error)
}

type getSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.GetSubscriptionCommand) (*billing.Subscription, error)
}

type cancelSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CancelSubscriptionCommand) (*usecases.CancelSubscriptionResult, error)
}

type abortSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.AbortSubscriptionCommand) (*usecases.AbortSubscriptionResult, error)
}
