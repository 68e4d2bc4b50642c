package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Sanjey2005/friends-associates/internal/models"
	"github.com/Sanjey2005/friends-associates/internal/utils"
)

// UserHandler is the back-office user management API.
type UserHandler struct {
	users UserStore
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers returns every user, newest first. page and limit enable
// pagination.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	users, err := h.users.List(c.UserContext(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(users)
}

type createUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

// CreateUser provisions a verified account whose initial password is the
// phone number.
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	taken, err := h.users.PhoneTakenByOther(ctx, req.Phone, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return fiber.NewError(fiber.StatusBadRequest, "User with this phone number already exists")
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

	hash, err := utils.HashPassword(req.Phone)
	if err != nil {
		return err
	}

	user := models.User{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        models.StringPtr(req.Email),
		PasswordHash: hash,
		IsVerified:   true,
	}
	if err := h.users.Create(ctx, &user); err != nil {
		return duplicateAs(err, "User with this phone number already exists", "User with this email already exists")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

type updateUserRequest struct {
	ID    string  `json:"id" validate:"required"`
	Name  string  `json:"name" validate:"required"`
	Phone string  `json:"phone" validate:"required"`
	Email *string `json:"email"`
}

// UpdateUser overwrites name and phone of a user. Email changes only when a
// non-empty address is sent.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	var email string
	if req.Email != nil {
		email = *req.Email
	}
	if err := utils.CheckEmail(email); err != nil {
		return err
	}

	ctx := c.UserContext()
	taken, err := h.users.PhoneTakenByOther(ctx, req.Phone, id)
	if err != nil {
		return err
	}
	if taken {
		return fiber.NewError(fiber.StatusBadRequest, "Phone number already in use by another user")
	}
	if email != "" {
		taken, err := h.users.EmailTakenByOther(ctx, email, id)
		if err != nil {
			return err
		}
		if taken {
			return fiber.NewError(fiber.StatusBadRequest, "Email already in use by another user")
		}
	}

	user, err := h.users.Update(ctx, id, req.Name, req.Phone, models.StringPtr(email))
	if err != nil {
		return duplicateAs(notFoundAs(err, "User not found"),
			"Phone number already in use by another user", "Email already in use by another user")
	}
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser hard-deletes the user named by the id query param. Their
// vehicles, policies and chat are kept.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	raw := c.Query("id")
	if raw == "" {
		return fiber.NewError(fiber.StatusBadRequest, "User ID is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}

	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return notFoundAs(err, "User not found")
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
