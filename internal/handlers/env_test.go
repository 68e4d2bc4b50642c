package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sanjey2005/friends-associates/internal/middleware"
	"github.com/Sanjey2005/friends-associates/internal/models"
	"github.com/Sanjey2005/friends-associates/internal/services"
	"github.com/Sanjey2005/friends-associates/internal/utils"
)

const (
	testUserSecret  = "user-secret"
	testAdminSecret = "admin-secret"
	testCronSecret  = "cron-key"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	app      *fiber.App
	store    *memoryStore
	tokens   *utils.TokenService
	mailer   *recordingMailer
	notifier channelNotifier
	runner   *stubRunner

	auth    *AuthHandler
	chat    *ChatHandler
	policy  *PolicyHandler
	vehicle *VehicleHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemoryStore()
	env := &testEnv{
		store:    store,
		tokens:   utils.NewTokenService(testUserSecret, testAdminSecret, 7*24*time.Hour, 24*time.Hour),
		mailer:   newRecordingMailer(),
		notifier: make(channelNotifier, 4),
		runner:   &stubRunner{report: &services.ReminderReport{Success: true, Results: []services.ReminderResult{}}},
	}

	users := memUsers{store}
	env.auth = NewAuthHandler(users, memAdmins{store}, env.tokens, env.mailer, zap.NewNop())
	env.auth.now = func() time.Time { return testNow }
	env.chat = NewChatHandler(memChats{store}, env.tokens)
	env.policy = NewPolicyHandler(memPolicies{store})
	env.policy.now = func() time.Time { return testNow }
	env.vehicle = NewVehicleHandler(memVehicles{store}, memPolicies{store})
	env.vehicle.now = func() time.Time { return testNow }
	leads := NewLeadHandler(memLeads{store}, env.notifier)
	userAdmin := NewUserHandler(users)
	profile := NewProfileHandler(users)
	reminders := NewReminderHandler(env.runner, testCronSecret)
	stats := NewAdminHandler(users, memVehicles{store}, memPolicies{store}, memLeads{store})

	requireAdmin := middleware.RequireAdmin(env.tokens)
	requireUser := middleware.RequireUser(env.tokens)
	requireScoped := middleware.RequireScoped(env.tokens)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Post("/api/auth/admin/login", env.auth.AdminLogin)
	app.Post("/api/auth/logout", env.auth.Logout)
	app.Post("/api/auth/user/register", env.auth.Register)
	app.Post("/api/auth/user/login", env.auth.Login)
	app.Post("/api/auth/user/verify", env.auth.Verify)
	app.Post("/api/auth/user/forgot-password", env.auth.ForgotPassword)
	app.Post("/api/auth/user/reset-password", env.auth.ResetPassword)
	app.Get("/api/chat", requireScoped, env.chat.GetChat)
	app.Post("/api/chat", env.chat.PostMessage)
	app.Post("/api/leads", leads.CreateLead)
	app.Get("/api/leads", requireAdmin, leads.ListLeads)
	app.Put("/api/leads", requireAdmin, leads.UpdateLead)
	app.Get("/api/policies", requireScoped, env.policy.ListPolicies)
	app.Post("/api/policies", requireAdmin, env.policy.CreatePolicy)
	app.Put("/api/policies", requireAdmin, env.policy.UpdatePolicy)
	app.Get("/api/vehicles", requireScoped, env.vehicle.ListVehicles)
	app.Post("/api/vehicles", requireAdmin, env.vehicle.CreateVehicle)
	app.Get("/api/users", requireAdmin, userAdmin.ListUsers)
	app.Post("/api/users", requireAdmin, userAdmin.CreateUser)
	app.Put("/api/users", requireAdmin, userAdmin.UpdateUser)
	app.Delete("/api/users", requireAdmin, userAdmin.DeleteUser)
	app.Get("/api/user/profile", requireUser, profile.GetProfile)
	app.Put("/api/user/profile", requireUser, profile.UpdateProfile)
	app.Get("/api/cron/reminders", reminders.RunReminders)
	app.Get("/api/admin/stats", requireAdmin, stats.DashboardStats)
	env.app = app

	return env
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, err := e.tokens.Issue(utils.RoleAdmin, uuid.New(), "admin@friendsassociates.in")
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.AdminCookie, Value: token}
}

func (e *testEnv) userCookie(t *testing.T, id uuid.UUID) *http.Cookie {
	t.Helper()
	token, err := e.tokens.Issue(utils.RoleUser, id, "")
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.UserCookie, Value: token}
}

// seedUser stores a user whose password is the given plain text.
func (e *testEnv) seedUser(t *testing.T, name, phone, email, password string) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := models.User{Name: name, Phone: phone, Email: models.StringPtr(email), PasswordHash: hash}
	require.NoError(t, memUsers{e.store}.Create(context.Background(), &user))
	return user
}

func (e *testEnv) seedVehicle(t *testing.T, owner uuid.UUID, vehicleType, model, reg string) models.Vehicle {
	t.Helper()
	vehicle := models.Vehicle{UserID: owner, Type: vehicleType, VehicleModel: model, RegNumber: reg}
	require.NoError(t, memVehicles{e.store}.Create(context.Background(), &vehicle))
	return vehicle
}

func (e *testEnv) seedPolicy(t *testing.T, owner, vehicle uuid.UUID, expiry time.Time, status string) models.Policy {
	t.Helper()
	policy := models.Policy{UserID: owner, VehicleID: vehicle, ExpiryDate: expiry, Status: status, Notes: "internal note"}
	require.NoError(t, memPolicies{e.store}.Create(context.Background(), &policy))
	return policy
}

func cookieNamed(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	body := decode[map[string]interface{}](t, resp)
	msg, _ := body["error"].(string)
	return msg
}
