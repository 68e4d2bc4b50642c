package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Sanjey2005/friends-associates/internal/metrics"
	"github.com/Sanjey2005/friends-associates/internal/models"
	"github.com/Sanjey2005/friends-associates/internal/services"
	"github.com/Sanjey2005/friends-associates/internal/utils"
)

// LeadHandler manages quote requests.
type LeadHandler struct {
	leads    LeadStore
	notifier LeadNotifier
}

// NewLeadHandler constructs LeadHandler.
func NewLeadHandler(leads LeadStore, notifier LeadNotifier) *LeadHandler {
	return &LeadHandler{leads: leads, notifier: notifier}
}

var leadStatuses = map[string]bool{
	models.LeadNotCompleted:      true,
	models.LeadCompleted:         true,
	models.LeadCustomerDidntPick: true,
}

type createLeadRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	VehicleType    string `json:"vehicleType" validate:"required"`
	VehicleModel   string `json:"vehicleModel"`
	MfgYear        string `json:"mfgYear"`
	RegNumber      string `json:"regNumber"`
	InsuranceType  string `json:"insuranceType" validate:"required"`
	AdditionalInfo string `json:"additionalInfo"`
}

// CreateLead stores a quote request from the public form.
func (h *LeadHandler) CreateLead(c *fiber.Ctx) error {
	var req createLeadRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	lead := models.Lead{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		VehicleType:    req.VehicleType,
		VehicleModel:   req.VehicleModel,
		MfgYear:        req.MfgYear,
		RegNumber:      req.RegNumber,
		InsuranceType:  req.InsuranceType,
		AdditionalInfo: req.AdditionalInfo,
		Status:         models.LeadNotCompleted,
	}
	if err := h.leads.Create(c.UserContext(), &lead); err != nil {
		return err
	}
	metrics.LeadsCreated.Inc()

	if h.notifier != nil {
		notification := services.LeadNotification{
			Name:          lead.Name,
			Phone:         lead.Phone,
			Email:         lead.Email,
			VehicleType:   lead.VehicleType,
			VehicleModel:  lead.VehicleModel,
			RegNumber:     lead.RegNumber,
			InsuranceType: lead.InsuranceType,
		}
		// The request context ends with the response.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			h.notifier.NotifyNewLead(ctx, notification)
		}()
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Quote submitted successfully",
		"lead":    lead,
	})
}

// ListLeads returns quote requests newest first.
func (h *LeadHandler) ListLeads(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	leads, err := h.leads.List(c.UserContext(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	return c.JSON(leads)
}

type updateLeadRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

// UpdateLead changes the follow-up status of a lead.
func (h *LeadHandler) UpdateLead(c *fiber.Ctx) error {
	var req updateLeadRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return err
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	if !leadStatuses[req.Status] {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid status")
	}

	lead, err := h.leads.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return notFoundAs(err, "Lead not found")
	}
	return c.JSON(lead)
}
