package usecases

import (
	"context"

	"tably/internal/application/billing/gateway"
	"tably/internal/domain/billing"
	appErrors "tably/internal/shared/errors"
	"tably/internal/shared/logger"
)

type ProcessWebhookEventCommand struct {
	Event gateway.WebhookEvent
}

type ProcessWebhookEventUseCase struct {
	subscriptionRepo billing.SubscriptionRepository
	tombstones       TombstoneStore
	notifier         BillingNotifier
	logger           logger.Interface
}

// ProcessWebhookEventOption configures optional collaborators.
type ProcessWebhookEventOption func(*ProcessWebhookEventUseCase)

// WithBillingNotifier wires a notifier for payment-failed and cancelled
// events. Without it, webhook processing runs silently.
func WithBillingNotifier(notifier BillingNotifier) ProcessWebhookEventOption {
	return func(uc *ProcessWebhookEventUseCase) {
		uc.notifier = notifier
	}
}

func NewProcessWebhookEventUseCase(
	subscriptionRepo billing.SubscriptionRepository,
	tombstones TombstoneStore,
	logger logger.Interface,
	opts ...ProcessWebhookEventOption,
) *ProcessWebhookEventUseCase {
	uc := &ProcessWebhookEventUseCase{
		subscriptionRepo: subscriptionRepo,
		tombstones:       tombstones,
		logger:           logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *ProcessWebhookEventUseCase) Execute(ctx context.Context, cmd ProcessWebhookEventCommand) error {
	ev := cmd.Event

	switch ev.Kind {
	case gateway.EventSubscriptionCharged, gateway.EventSubscriptionCancelled, gateway.EventPaymentFailed:
	default:
		// Unrecognized kinds are acknowledged so the gateway does not keep
		// redelivering them.
		uc.logger.Infow("ignoring unhandled webhook event kind",
			"kind", ev.Kind,
			"event_id", ev.EventID,
		)
		return nil
	}

	if ev.SubscriptionID == "" {
		return appErrors.NewBadRequestError("webhook event has no subscription id")
	}

	sub, err := uc.subscriptionRepo.GetByGatewaySubscriptionID(ctx, ev.SubscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to look up subscription by gateway id",
			"error", err,
			"gateway_subscription_id", ev.SubscriptionID,
		)
		return appErrors.NewInternalError("failed to load subscription record")
	}

	if sub == nil {
		// The id may belong to a just-aborted checkout; the tombstone keeps
		// the attribution alive for a grace window.
		userID, terr := uc.tombstones.Resolve(ctx, ev.SubscriptionID)
		if terr != nil {
			uc.logger.Warnw("tombstone lookup failed",
				"error", terr,
				"gateway_subscription_id", ev.SubscriptionID,
			)
		}
		if userID != 0 {
			uc.logger.Warnw("webhook event for aborted subscription dropped",
				"kind", ev.Kind,
				"event_id", ev.EventID,
				"gateway_subscription_id", ev.SubscriptionID,
				"user_id", userID,
			)
			return nil
		}

		uc.logger.Infow("webhook event matched no subscription; dropping",
			"kind", ev.Kind,
			"event_id", ev.EventID,
			"gateway_subscription_id", ev.SubscriptionID,
		)
		return nil
	}

	switch ev.Kind {
	case gateway.EventSubscriptionCharged:
		if ev.CurrentEnd == nil {
			return appErrors.NewBadRequestError("charge event has no billing period end")
		}
		err = sub.ApplyCharge(*ev.CurrentEnd)
	case gateway.EventSubscriptionCancelled:
		err = sub.ApplyGatewayCancellation()
	case gateway.EventPaymentFailed:
		err = sub.ApplyPaymentFailure()
	}
	if err != nil {
		uc.logger.Errorw("failed to apply webhook event",
			"error", err,
			"kind", ev.Kind,
			"user_id", sub.UserID(),
		)
		return appErrors.NewInternalError("failed to apply webhook event")
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to persist webhook state change",
			"error", err,
			"kind", ev.Kind,
			"user_id", sub.UserID(),
		)
		return appErrors.NewInternalError("failed to persist subscription record")
	}

	uc.logger.Infow("webhook event applied",
		"kind", ev.Kind,
		"event_id", ev.EventID,
		"user_id", sub.UserID(),
		"status", sub.Status(),
	)

	uc.notify(ctx, ev.Kind, sub.UserID())

	return nil
}

func (uc *ProcessWebhookEventUseCase) notify(ctx context.Context, kind string, userID uint) {
	if uc.notifier == nil {
		return
	}

	var err error
	switch kind {
	case gateway.EventPaymentFailed:
		err = uc.notifier.NotifyPaymentFailed(ctx, userID)
	case gateway.EventSubscriptionCancelled:
		err = uc.notifier.NotifyCancelled(ctx, userID)
	default:
		return
	}
	if err != nil {
		uc.logger.Warnw("failed to send billing notification",
			"error", err,
			"kind", kind,
			"user_id", userID,
		)
	}
}
