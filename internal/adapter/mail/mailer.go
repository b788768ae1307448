// Package mail sends user-facing notification mail over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/Zert0X/OnyxForum/internal/platform/retry"
	"github.com/jordan-wright/email"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Mailer implements app.Mailer over plain SMTP. Transient send failures are
// retried with backoff; address errors are not.
type Mailer struct {
	cfg    Config
	addr   string
	auth   smtp.Auth
	policy retry.Policy
}

func NewMailer(cfg Config, logger *slog.Logger) *Mailer {
	return &Mailer{
		cfg:  cfg,
		addr: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
		policy: retry.Policy{
			MaxAttempts:    3,
			InitialBackoff: 2 * time.Second,
			OnRetry: func(attempt int, err error, backoff time.Duration) {
				logger.Warn("mail send failed, retrying",
					slog.Int("attempt", attempt),
					slog.Duration("backoff", backoff),
					slog.String("error", err.Error()),
				)
			},
		},
	}
}

func (m *Mailer) SendEmailChanged(ctx context.Context, to, username, newEmail string) error {
	msg := email.NewEmail()
	msg.From = m.cfg.From
	msg.To = []string{to}
	msg.Subject = "Your email address was changed"
	msg.Text = []byte(fmt.Sprintf(
		"Hello %s,\n\n"+
			"The email address on your forum account was changed to %s.\n"+
			"If you did not make this change, contact an administrator immediately.\n",
		username, newEmail,
	))

	return retry.DoVoid(ctx, m.policy, classifySendError, func() error {
		return msg.Send(m.addr, m.auth)
	})
}

// classifySendError treats every failure as transient. SMTP errors come back
// as opaque strings, so distinguishing 4xx from 5xx is not worth the parsing;
// the attempt cap bounds the damage either way.
func classifySendError(err error) retry.Action {
	return retry.Retry
}
