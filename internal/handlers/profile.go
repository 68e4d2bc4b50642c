package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Sanjey2005/friends-associates/internal/middleware"
	"github.com/Sanjey2005/friends-associates/internal/models"
	"github.com/Sanjey2005/friends-associates/internal/utils"
)

// ProfileHandler manages user profile endpoints.
type ProfileHandler struct {
	users UserStore
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(users UserStore) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// GetProfile returns authenticated user profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return middleware.ErrUnauthorized
	}

	user, err := h.users.FindByID(c.UserContext(), actor.ID)
	if err != nil {
		return notFoundAs(err, "User not found")
	}
	return c.JSON(user)
}

type updateProfileRequest struct {
	Name string `json:"name" validate:"required"`
	// Email is nil when the field is absent. An empty string clears it.
	Email *string `json:"email"`
}

// UpdateProfile updates name and, when sent, email. Phone is the login
// identity and cannot be changed here.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return middleware.ErrUnauthorized
	}

	var req updateProfileRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	user, err := h.users.FindByID(ctx, actor.ID)
	if err != nil {
		return notFoundAs(err, "User not found")
	}

	if req.Email != nil {
		email := *req.Email
		if err := utils.CheckEmail(email); err != nil {
			return err
		}
		if email != "" && email != user.EmailAddress() {
			taken, err := h.users.EmailTakenByOther(ctx, email, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return fiber.NewError(fiber.StatusBadRequest, "Email already in use")
			}
		}
		user.Email = models.StringPtr(email)
	}

	user.Name = req.Name
	if err := h.users.Save(ctx, user); err != nil {
		return duplicateAs(err, "Phone number already in use", "Email already in use")
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
