package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	users    UserStore
	vehicles VehicleStore
	policies PolicyStore
	leads    LeadStore
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(users UserStore, vehicles VehicleStore, policies PolicyStore, leads LeadStore) *AdminHandler {
	return &AdminHandler{users: users, vehicles: vehicles, policies: policies, leads: leads}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var (
		totalUsers       int64
		totalVehicles    int64
		policiesByStatus map[string]int64
		leadsByStatus    map[string]int64
	)

	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() (err error) {
		totalUsers, err = h.users.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		totalVehicles, err = h.vehicles.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		policiesByStatus, err = h.policies.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		leadsByStatus, err = h.leads.CountByStatus(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	var totalPolicies, totalLeads int64
	for _, n := range policiesByStatus {
		totalPolicies += n
	}
	for _, n := range leadsByStatus {
		totalLeads += n
	}

	return c.JSON(fiber.Map{
		"totalUsers":       totalUsers,
		"totalVehicles":    totalVehicles,
		"totalPolicies":    totalPolicies,
		"totalLeads":       totalLeads,
		"policiesByStatus": policiesByStatus,
		"leadsByStatus":    leadsByStatus,
	})
}
