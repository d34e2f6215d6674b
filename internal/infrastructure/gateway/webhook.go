package gateway

import (
	"encoding/json"
	"errors"
	"fmt"

	appgateway "tably/internal/application/billing/gateway"
	"tably/internal/shared/biztime"
)

var (
	// ErrMalformedEvent is returned when the webhook body is not valid JSON.
	ErrMalformedEvent = errors.New("malformed webhook event")
	// ErrMissingEventKind is returned when the event field is absent or empty.
	ErrMissingEventKind = errors.New("webhook event kind is missing")
)

// webhookEnvelope is the gateway's wire format for webhook deliveries.
type webhookEnvelope struct {
	Event   string `json:"event"`
	ID      string `json:"id"`
	Payload struct {
		Subscription struct {
			Entity struct {
				ID         string `json:"id"`
				CurrentEnd int64  `json:"current_end"`
			} `json:"entity"`
		} `json:"subscription"`
	} `json:"payload"`
}

// WebhookDecoder decodes verified webhook bodies into events. Decoding must
// only happen after signature verification.
type WebhookDecoder struct{}

func NewWebhookDecoder() *WebhookDecoder {
	return &WebhookDecoder{}
}

// Decode parses a webhook body into a WebhookEvent.
func (d *WebhookDecoder) Decode(body []byte) (*appgateway.WebhookEvent, error) {
	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if envelope.Event == "" {
		return nil, ErrMissingEventKind
	}

	event := &appgateway.WebhookEvent{
		Kind:           envelope.Event,
		EventID:        envelope.ID,
		SubscriptionID: envelope.Payload.Subscription.Entity.ID,
	}

	if envelope.Payload.Subscription.Entity.CurrentEnd > 0 {
		currentEnd := biztime.FromUnix(envelope.Payload.Subscription.Entity.CurrentEnd)
		event.CurrentEnd = &currentEnd
	}

	return event, nil
}
