package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Sanjey2005/friends-associates/internal/middleware"
	"github.com/Sanjey2005/friends-associates/internal/models"
	"github.com/Sanjey2005/friends-associates/internal/utils"
)

// VehicleHandler manages insured vehicles.
type VehicleHandler struct {
	vehicles VehicleStore
	policies PolicyStore
	now      func() time.Time
}

// NewVehicleHandler constructs VehicleHandler. Policies back the expiry
// filter of the admin listing.
func NewVehicleHandler(vehicles VehicleStore, policies PolicyStore) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, policies: policies, now: time.Now}
}

type vehicleResponse struct {
	ID           uuid.UUID           `json:"id"`
	UserID       uuid.UUID           `json:"userId"`
	User         *models.UserSummary `json:"user,omitempty"`
	Type         string              `json:"type"`
	VehicleModel string              `json:"vehicleModel"`
	RegNumber    string              `json:"regNumber"`
	BoardType    string              `json:"boardType,omitempty"`
	Details      datatypes.JSON      `json:"details,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func newVehicleResponse(v *models.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:           v.ID,
		UserID:       v.UserID,
		User:         v.User.Summary(),
		Type:         v.Type,
		VehicleModel: v.VehicleModel,
		RegNumber:    v.RegNumber,
		BoardType:    v.BoardType,
		Details:      v.Details,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// ListVehicles returns the caller's vehicles, or with scope=admin every
// vehicle with its owner. Admins may filter by search term and by the expiry
// bucket of the vehicle's policies.
func (h *VehicleHandler) ListVehicles(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return middleware.ErrUnauthorized
	}

	ctx := c.UserContext()
	if !actor.IsAdmin() {
		vehicles, err := h.vehicles.ListByUser(ctx, actor.ID)
		if err != nil {
			return err
		}
		resp := make([]vehicleResponse, 0, len(vehicles))
		for i := range vehicles {
			resp = append(resp, newVehicleResponse(&vehicles[i]))
		}
		return c.JSON(resp)
	}

	vehicles, err := h.vehicles.ListAll(ctx)
	if err != nil {
		return err
	}

	var inBucket map[uuid.UUID]bool
	if expiry := c.Query("expiry"); expiry != "" {
		policies, err := h.policies.ListAll(ctx, models.PolicyFilter{Expiry: expiry, Now: h.now()})
		if err != nil {
			return err
		}
		inBucket = make(map[uuid.UUID]bool, len(policies))
		for _, p := range policies {
			inBucket[p.VehicleID] = true
		}
	}

	search := c.Query("search")
	resp := make([]vehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		if inBucket != nil && !inBucket[v.ID] {
			continue
		}
		if !matchesSearch(v.User, v.RegNumber, search) {
			continue
		}
		resp = append(resp, newVehicleResponse(v))
	}
	return c.JSON(resp)
}

type createVehicleRequest struct {
	UserID       string          `json:"userId" validate:"required,uuid"`
	Type         string          `json:"type" validate:"required,oneof=Bike Car Commercial"`
	VehicleModel string          `json:"vehicleModel" validate:"required"`
	RegNumber    string          `json:"regNumber" validate:"required"`
	BoardType    string          `json:"boardType" validate:"omitempty,oneof='Own Board' 'T Board'"`
	Details      json.RawMessage `json:"details"`
}

// CreateVehicle registers a vehicle for a user. The owner is not checked.
func (h *VehicleHandler) CreateVehicle(c *fiber.Ctx) error {
	var req createVehicleRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	vehicle := models.Vehicle{
		UserID:       uuid.MustParse(req.UserID),
		Type:         req.Type,
		VehicleModel: req.VehicleModel,
		RegNumber:    req.RegNumber,
		BoardType:    models.NormalizeBoardType(req.Type, req.BoardType),
	}
	if len(req.Details) > 0 && string(req.Details) != "null" {
		vehicle.Details = datatypes.JSON(req.Details)
	}

	if err := h.vehicles.Create(c.UserContext(), &vehicle); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newVehicleResponse(&vehicle))
}
