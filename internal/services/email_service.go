package services

import (
	"context"
	"errors"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const senderName = "Friends Associates"

// MailSender delivers a single HTML message.
type MailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SMTPConfig describes the outbound mail relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers mail through an authenticated SMTP relay.
type SMTPSender struct {
	client *mail.Client
	from   string
}

// NewSMTPSender builds an SMTPSender. It does not connect until the first
// message is sent.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

// Send implements MailSender.
func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(senderName, s.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	return s.client.DialAndSendWithContext(ctx, msg)
}

// EmailService sends transactional mail. Delivery failures are logged and
// never returned, so the surrounding request always completes.
type EmailService struct {
	sender MailSender
	log    *zap.Logger
	appURL string
}

// NewEmailService constructs an EmailService. A nil sender disables delivery.
func NewEmailService(sender MailSender, log *zap.Logger, appURL string) *EmailService {
	return &EmailService{sender: sender, log: log, appURL: appURL}
}

var errMailDisabled = errors.New("email delivery not configured")

// Send delivers one message and reports whether it was accepted by the relay.
func (s *EmailService) Send(ctx context.Context, to, subject, html string) bool {
	if to == "" {
		return false
	}
	if s.sender == nil {
		s.log.Warn("email skipped", zap.String("to", to), zap.String("subject", subject), zap.Error(errMailDisabled))
		return false
	}

	if err := s.sender.Send(ctx, to, subject, html); err != nil {
		s.log.Error("email delivery failed", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return false
	}

	s.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return true
}

// SendVerification mails the email verification link.
func (s *EmailService) SendVerification(ctx context.Context, to, token string) bool {
	body, err := render(verifyEmailTemplate, linkData{URL: s.appURL + "/verify-email?token=" + token})
	if err != nil {
		s.log.Error("render verification email", zap.Error(err))
		return false
	}
	return s.Send(ctx, to, "Verify your email - Friends Associates", body)
}

// SendPasswordReset mails the password reset link.
func (s *EmailService) SendPasswordReset(ctx context.Context, to, token string) bool {
	body, err := render(resetPasswordTemplate, linkData{URL: s.appURL + "/reset-password?token=" + token})
	if err != nil {
		s.log.Error("render reset email", zap.Error(err))
		return false
	}
	return s.Send(ctx, to, "Reset your password - Friends Associates", body)
}

// ExpiryReminder is the content of a policy expiry reminder.
type ExpiryReminder struct {
	Name         string
	VehicleModel string
	RegNumber    string
	ExpiryDate   time.Time
	PolicyLink   string
}

// SendExpiryReminder mails a policy expiry reminder.
func (s *EmailService) SendExpiryReminder(ctx context.Context, to string, reminder ExpiryReminder) bool {
	body, err := render(expiryReminderTemplate, reminder)
	if err != nil {
		s.log.Error("render reminder email", zap.Error(err))
		return false
	}
	return s.Send(ctx, to, "Insurance Expiry Reminder - "+reminder.RegNumber, body)
}
