package handlers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// ReminderHandler exposes the reminder job for external schedulers.
type ReminderHandler struct {
	runner ReminderRunner
	secret string
}

// NewReminderHandler constructs ReminderHandler. An empty secret leaves the
// endpoint open.
func NewReminderHandler(runner ReminderRunner, secret string) *ReminderHandler {
	return &ReminderHandler{runner: runner, secret: secret}
}

// RunReminders performs one reminder scan and reports what was sent.
func (h *ReminderHandler) RunReminders(c *fiber.Ctx) error {
	if h.secret != "" {
		key := c.Query("key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(h.secret)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
	}

	report, err := h.runner.Run(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(report)
}
