// Package notify delivers activation codes to recipients out of band.
package notify

import (
	"context"
	"fmt"

	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/keybridge-io/license-bridge/internal/config"
	"github.com/keybridge-io/license-bridge/model"
	"github.com/wneessen/go-mail"
)

// Notifier sends a freshly minted activation code to a recipient.
type Notifier interface {
	SendActivationCode(ctx context.Context, recipient string, code model.ActivationCode) error
}

// Mailer delivers activation codes over SMTP.
type Mailer struct {
	config *config.Config
	logger log.Logger
}

// NewMailer creates a new SMTP notifier
func NewMailer(cfg *config.Config, logger log.Logger) *Mailer {
	return &Mailer{
		config: cfg,
		logger: logger,
	}
}

// SendActivationCode mails the code to the recipient.
func (m *Mailer) SendActivationCode(ctx context.Context, recipient string, code model.ActivationCode) error {
	msg := mail.NewMsg()

	if err := msg.From(m.config.MailFrom); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}

	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject("Your license key")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("Use the following license key: %s", code))

	client, err := mail.NewClient(m.config.SMTPServer,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.config.SMTPUsername),
		mail.WithPassword(m.config.SMTPPassword),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	m.logger.Infof("Activation code sent to %s", recipient)

	return nil
}
