package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Sanjey2005/friends-associates/internal/middleware"
	"github.com/Sanjey2005/friends-associates/internal/models"
	"github.com/Sanjey2005/friends-associates/internal/repository"
	"github.com/Sanjey2005/friends-associates/internal/utils"
)

// PolicyHandler manages insurance policies.
type PolicyHandler struct {
	policies PolicyStore
	now      func() time.Time
}

// NewPolicyHandler constructs PolicyHandler.
func NewPolicyHandler(policies PolicyStore) *PolicyHandler {
	return &PolicyHandler{policies: policies, now: time.Now}
}

var policyStatuses = map[string]bool{
	models.PolicyActive:       true,
	models.PolicyExpiringSoon: true,
	models.PolicyExpired:      true,
}

type policyResponse struct {
	ID         uuid.UUID              `json:"id"`
	UserID     uuid.UUID              `json:"userId"`
	User       *models.UserSummary    `json:"user"`
	VehicleID  uuid.UUID              `json:"vehicleId"`
	Vehicle    *models.VehicleSummary `json:"vehicle"`
	PolicyLink string                 `json:"policyLink,omitempty"`
	ExpiryDate time.Time              `json:"expiryDate"`
	Notes      string                 `json:"notes,omitempty"`
	Status     string                 `json:"status"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

func newPolicyResponse(p *models.Policy) policyResponse {
	return policyResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		User:       p.User.Summary(),
		VehicleID:  p.VehicleID,
		Vehicle:    p.Vehicle.Summary(),
		PolicyLink: p.PolicyLink,
		ExpiryDate: p.ExpiryDate,
		Notes:      p.Notes,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ownPolicyResponse is what a customer sees of their own policy.
type ownPolicyResponse struct {
	ID         uuid.UUID              `json:"id"`
	Vehicle    *models.VehicleSummary `json:"vehicle"`
	PolicyLink string                 `json:"policyLink,omitempty"`
	ExpiryDate time.Time              `json:"expiryDate"`
	Status     string                 `json:"status"`
}

// ListPolicies returns the caller's policies, or with scope=admin every
// policy filtered by the expiry and search query params.
func (h *PolicyHandler) ListPolicies(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return middleware.ErrUnauthorized
	}

	if !actor.IsAdmin() {
		policies, err := h.policies.ListByUser(c.UserContext(), actor.ID)
		if err != nil {
			return err
		}
		resp := make([]ownPolicyResponse, 0, len(policies))
		for _, p := range policies {
			resp = append(resp, ownPolicyResponse{
				ID:         p.ID,
				Vehicle:    p.Vehicle.Summary(),
				PolicyLink: p.PolicyLink,
				ExpiryDate: p.ExpiryDate,
				Status:     p.Status,
			})
		}
		return c.JSON(resp)
	}

	policies, err := h.policies.ListAll(c.UserContext(), models.PolicyFilter{
		Expiry: c.Query("expiry"),
		Now:    h.now(),
	})
	if err != nil {
		return err
	}

	search := c.Query("search")
	resp := make([]policyResponse, 0, len(policies))
	for i := range policies {
		p := &policies[i]
		regNumber := ""
		if p.Vehicle != nil {
			regNumber = p.Vehicle.RegNumber
		}
		if !matchesSearch(p.User, regNumber, search) {
			continue
		}
		resp = append(resp, newPolicyResponse(p))
	}
	return c.JSON(resp)
}

type createPolicyRequest struct {
	UserID     string    `json:"userId" validate:"required,uuid"`
	VehicleID  string    `json:"vehicleId" validate:"required,uuid"`
	PolicyLink string    `json:"policyLink" validate:"omitempty,url"`
	ExpiryDate *jsonDate `json:"expiryDate" validate:"required"`
	Notes      string    `json:"notes"`
	Status     string    `json:"status"`
}

// CreatePolicy stores a new policy. Owner and vehicle are not checked
// against each other.
func (h *PolicyHandler) CreatePolicy(c *fiber.Ctx) error {
	var req createPolicyRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = models.PolicyActive
	}
	if !policyStatuses[status] {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid status")
	}

	policy := models.Policy{
		UserID:     uuid.MustParse(req.UserID),
		VehicleID:  uuid.MustParse(req.VehicleID),
		PolicyLink: req.PolicyLink,
		ExpiryDate: *req.ExpiryDate.Time(),
		Notes:      req.Notes,
		Status:     status,
	}
	if err := h.policies.Create(c.UserContext(), &policy); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newPolicyResponse(&policy))
}

type updatePolicyRequest struct {
	ID         string    `json:"id" validate:"required"`
	PolicyLink *string   `json:"policyLink" validate:"omitempty,url"`
	ExpiryDate *jsonDate `json:"expiryDate"`
	Notes      *string   `json:"notes"`
	Status     *string   `json:"status"`
}

// UpdatePolicy edits the link, expiry, notes or status of a policy.
func (h *PolicyHandler) UpdatePolicy(c *fiber.Ctx) error {
	var req updatePolicyRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	if req.Status != nil && !policyStatuses[*req.Status] {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid status")
	}

	policy, err := h.policies.Update(c.UserContext(), id, repository.PolicyUpdate{
		PolicyLink: req.PolicyLink,
		ExpiryDate: req.ExpiryDate.Time(),
		Notes:      req.Notes,
		Status:     req.Status,
	})
	if err != nil {
		return notFoundAs(err, "Policy not found")
	}
	return c.JSON(newPolicyResponse(policy))
}
