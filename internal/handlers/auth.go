package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sanjey2005/friends-associates/internal/metrics"
	"github.com/Sanjey2005/friends-associates/internal/middleware"
	"github.com/Sanjey2005/friends-associates/internal/models"
	"github.com/Sanjey2005/friends-associates/internal/repository"
	"github.com/Sanjey2005/friends-associates/internal/utils"
)

const verificationTTL = 24 * time.Hour

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	users  UserStore
	admins AdminStore
	tokens *utils.TokenService
	mailer AccountMailer
	log    *zap.Logger
	now    func() time.Time
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users UserStore, admins AdminStore, tokens *utils.TokenService, mailer AccountMailer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		admins: admins,
		tokens: tokens,
		mailer: mailer,
		log:    log,
		now:    time.Now,
	}
}

var errInvalidCredentials = fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminLogin authenticates a back-office account and sets the admin cookie.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	admin, err := h.admins.FindByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues("admin", "rejected").Inc()
			return errInvalidCredentials
		}
		return err
	}

	if !utils.CheckPassword(admin.PasswordHash, req.Password) {
		metrics.LoginAttempts.WithLabelValues("admin", "rejected").Inc()
		return errInvalidCredentials
	}

	token, err := h.tokens.Issue(utils.RoleAdmin, admin.ID, admin.Email)
	if err != nil {
		return err
	}
	middleware.SetSession(c, utils.RoleAdmin, token, h.tokens.TTL(utils.RoleAdmin))
	metrics.LoginAttempts.WithLabelValues("admin", "ok").Inc()

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"admin":   fiber.Map{"email": admin.Email},
	})
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new user account and mails a verification link when an
// email address is given. The account can log in before it is verified.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	if _, err := h.users.FindByPhone(ctx, req.Phone); err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "User with this phone number already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if req.Email != "" {
		taken, err := h.users.EmailTakenByOther(ctx, req.Email, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return fiber.NewError(fiber.StatusBadRequest, "User with this email already exists")
		}
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	verificationToken, err := utils.RandomToken()
	if err != nil {
		return err
	}
	expiry := h.now().Add(verificationTTL)

	user := models.User{
		Name:                    req.Name,
		Phone:                   req.Phone,
		Email:                   models.StringPtr(req.Email),
		PasswordHash:            passwordHash,
		IsVerified:              false,
		VerificationToken:       &verificationToken,
		VerificationTokenExpiry: &expiry,
	}
	if err := h.users.Create(ctx, &user); err != nil {
		return duplicateAs(err, "User with this phone number already exists", "User with this email already exists")
	}

	if req.Email != "" {
		h.mailer.SendVerification(ctx, req.Email, verificationToken)
	}

	h.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully. Please check your email to verify your account.",
	})
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user by phone or email and sets the user cookie.
// Phone wins when both identifiers are sent.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}
	if (req.Phone == "" && req.Email == "") || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing credentials")
	}

	ctx := c.UserContext()
	var (
		user *models.User
		err  error
	)
	if req.Phone != "" {
		user, err = h.users.FindByPhone(ctx, req.Phone)
	} else {
		user, err = h.users.FindByEmail(ctx, req.Email)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues("user", "rejected").Inc()
			return errInvalidCredentials
		}
		return err
	}

	if !user.HasPassword() || !utils.CheckPassword(user.PasswordHash, req.Password) {
		metrics.LoginAttempts.WithLabelValues("user", "rejected").Inc()
		return errInvalidCredentials
	}

	token, err := h.tokens.Issue(utils.RoleUser, user.ID, user.EmailAddress())
	if err != nil {
		return err
	}
	middleware.SetSession(c, utils.RoleUser, token, h.tokens.TTL(utils.RoleUser))
	metrics.LoginAttempts.WithLabelValues("user", "ok").Inc()

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user": fiber.Map{
			"name":  user.Name,
			"email": user.EmailAddress(),
			"phone": user.Phone,
		},
	})
}

type verifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// Verify marks the account holding an unexpired verification token as
// verified and clears the token.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	user, err := h.users.FindByVerificationToken(ctx, req.Token, h.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid or expired token")
		}
		return err
	}

	user.IsVerified = true
	user.VerificationToken = nil
	user.VerificationTokenExpiry = nil
	if err := h.users.Save(ctx, user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Email verified successfully"})
}

// Logout clears both session cookies.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	middleware.ClearSession(c, utils.RoleUser)
	middleware.ClearSession(c, utils.RoleAdmin)
	return c.JSON(fiber.Map{"message": "Logged out"})
}
