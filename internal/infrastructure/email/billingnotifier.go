package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"tably/internal/application/billing/usecases"
	sharedConfig "tably/internal/shared/config"
)

// SMTPBillingNotifier sends billing outcome notices to the configured
// alerts mailbox. Per-user delivery is handled by the identity service,
// which owns email addresses; this service only raises the event.
type SMTPBillingNotifier struct {
	cfg    *sharedConfig.EmailConfig
	dialer *gomail.Dialer
}

func NewSMTPBillingNotifier(cfg *sharedConfig.EmailConfig) *SMTPBillingNotifier {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	return &SMTPBillingNotifier{
		cfg:    cfg,
		dialer: dialer,
	}
}

// Ensure SMTPBillingNotifier implements BillingNotifier
var _ usecases.BillingNotifier = (*SMTPBillingNotifier)(nil)

func (n *SMTPBillingNotifier) NotifyPaymentFailed(ctx context.Context, userID uint) error {
	subject := fmt.Sprintf("Subscription payment failed for user %d", userID)
	body := fmt.Sprintf(`A recurring payment failed and the subscription was marked as failed.

User ID: %d

The gateway will retry according to its dunning schedule; a successful
retry reactivates the subscription automatically.
`, userID)

	return n.send(subject, body)
}

func (n *SMTPBillingNotifier) NotifyCancelled(ctx context.Context, userID uint) error {
	subject := fmt.Sprintf("Subscription cancelled for user %d", userID)
	body := fmt.Sprintf(`The payment gateway reported a subscription cancellation.

User ID: %d
`, userID)

	return n.send(subject, body)
}

func (n *SMTPBillingNotifier) send(subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.FromAddress)
	m.SetHeader("To", n.cfg.BillingAlertsAddress)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
