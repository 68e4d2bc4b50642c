package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Sanjey2005/friends-associates/internal/models"
	"github.com/Sanjey2005/friends-associates/internal/repository"
	"github.com/Sanjey2005/friends-associates/internal/utils"
)

const resetTokenTTL = time.Hour

const forgotPasswordMessage = "If an account exists with this email, a password reset link has been sent."

type forgotPasswordRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ForgotPassword issues a single-use reset token and mails the reset link.
// The response is the same whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" && req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email or phone is required")
	}

	ctx := c.UserContext()
	var (
		user *models.User
		err  error
	)
	if req.Email != "" {
		user, err = h.users.FindByEmail(ctx, req.Email)
	} else {
		user, err = h.users.FindByPhone(ctx, req.Phone)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(fiber.Map{"message": forgotPasswordMessage})
		}
		return err
	}

	resetToken, err := utils.RandomToken()
	if err != nil {
		return err
	}
	expiry := h.now().Add(resetTokenTTL)

	user.ResetPasswordToken = &resetToken
	user.ResetPasswordTokenExpiry = &expiry
	if err := h.users.Save(ctx, user); err != nil {
		return err
	}

	if email := user.EmailAddress(); email != "" {
		h.mailer.SendPasswordReset(ctx, email, resetToken)
	} else {
		h.log.Warn("password reset requested for account without email", zap.String("user_id", user.ID.String()))
	}

	return c.JSON(fiber.Map{"message": forgotPasswordMessage})
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetPassword consumes a reset token and stores the new password. A token
// works once: it is cleared together with the password change.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	if err := h.users.ConsumeResetToken(c.UserContext(), req.Token, h.now(), hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired token")
		}
		return err
	}

	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}
