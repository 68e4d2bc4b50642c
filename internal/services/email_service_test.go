package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type capturedMail struct {
	to, subject, html string
}

type fakeSender struct {
	sent []capturedMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, html string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, capturedMail{to: to, subject: subject, html: html})
	return nil
}

func TestSendVerificationBuildsLink(t *testing.T) {
	sender := &fakeSender{}
	svc := NewEmailService(sender, zap.NewNop(), "https://friends.example")

	ok := svc.SendVerification(context.Background(), "asha@example.com", "abc123")
	assert.True(t, ok)
	if assert.Len(t, sender.sent, 1) {
		assert.Equal(t, "Verify your email - Friends Associates", sender.sent[0].subject)
		assert.Contains(t, sender.sent[0].html, "https://friends.example/verify-email?token=abc123")
	}
}

func TestSendPasswordResetBuildsLink(t *testing.T) {
	sender := &fakeSender{}
	svc := NewEmailService(sender, zap.NewNop(), "https://friends.example")

	svc.SendPasswordReset(context.Background(), "asha@example.com", "tok")
	if assert.Len(t, sender.sent, 1) {
		assert.Contains(t, sender.sent[0].html, "https://friends.example/reset-password?token=tok")
	}
}

func TestSendExpiryReminderContent(t *testing.T) {
	sender := &fakeSender{}
	svc := NewEmailService(sender, zap.NewNop(), "")

	svc.SendExpiryReminder(context.Background(), "asha@example.com", ExpiryReminder{
		Name:         "Asha",
		VehicleModel: "Swift",
		RegNumber:    "TN38AB1234",
		ExpiryDate:   time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
	})

	if assert.Len(t, sender.sent, 1) {
		mail := sender.sent[0]
		assert.Equal(t, "Insurance Expiry Reminder - TN38AB1234", mail.subject)
		assert.Contains(t, mail.html, "17 Mar 2026")
		assert.NotContains(t, mail.html, "View Policy")
	}
}

func TestSendSwallowsFailures(t *testing.T) {
	svc := NewEmailService(&fakeSender{err: errors.New("smtp: 535 auth failed")}, zap.NewNop(), "")
	assert.False(t, svc.Send(context.Background(), "asha@example.com", "s", "b"))

	disabled := NewEmailService(nil, zap.NewNop(), "")
	assert.False(t, disabled.Send(context.Background(), "asha@example.com", "s", "b"))
}

func TestSendSkipsEmptyRecipient(t *testing.T) {
	sender := &fakeSender{}
	svc := NewEmailService(sender, zap.NewNop(), "")

	assert.False(t, svc.SendVerification(context.Background(), "", "tok"))
	assert.Empty(t, sender.sent)
}
