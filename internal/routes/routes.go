package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Sanjey2005/friends-associates/internal/handlers"
	"github.com/Sanjey2005/friends-associates/internal/metrics"
	"github.com/Sanjey2005/friends-associates/internal/middleware"
	"github.com/Sanjey2005/friends-associates/internal/utils"
)

// Dependencies holds everything the HTTP layer needs.
type Dependencies struct {
	Users     handlers.UserStore
	Admins    handlers.AdminStore
	Vehicles  handlers.VehicleStore
	Policies  handlers.PolicyStore
	Leads     handlers.LeadStore
	Chats     handlers.ChatStore
	Tokens    *utils.TokenService
	Mailer    handlers.AccountMailer
	Notifier  handlers.LeadNotifier
	Reminders handlers.ReminderRunner

	CronSecret string

	// Redis backs the rate limiter on public write endpoints. Without it each
	// instance limits in memory.
	Redis              *redis.Client
	RateLimitPerMinute int

	Log *zap.Logger
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, d Dependencies) {
	authHandler := handlers.NewAuthHandler(d.Users, d.Admins, d.Tokens, d.Mailer, d.Log)
	chatHandler := handlers.NewChatHandler(d.Chats, d.Tokens)
	leadHandler := handlers.NewLeadHandler(d.Leads, d.Notifier)
	policyHandler := handlers.NewPolicyHandler(d.Policies)
	vehicleHandler := handlers.NewVehicleHandler(d.Vehicles, d.Policies)
	userHandler := handlers.NewUserHandler(d.Users)
	profileHandler := handlers.NewProfileHandler(d.Users)
	reminderHandler := handlers.NewReminderHandler(d.Reminders, d.CronSecret)
	adminHandler := handlers.NewAdminHandler(d.Users, d.Vehicles, d.Policies, d.Leads)

	limiter := rateLimiter(d)
	requireAdmin := middleware.RequireAdmin(d.Tokens)
	requireUser := middleware.RequireUser(d.Tokens)
	requireScoped := middleware.RequireScoped(d.Tokens)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/admin/login", authHandler.AdminLogin)
	auth.Post("/logout", authHandler.Logout)

	account := auth.Group("/user")
	account.Post("/register", limiter, authHandler.Register)
	account.Post("/login", limiter, authHandler.Login)
	account.Post("/verify", authHandler.Verify)
	account.Post("/forgot-password", limiter, authHandler.ForgotPassword)
	account.Post("/reset-password", authHandler.ResetPassword)

	// Chat resolves its caller per request.
	api.Get("/chat", requireScoped, chatHandler.GetChat)
	api.Post("/chat", chatHandler.PostMessage)

	api.Post("/leads", limiter, leadHandler.CreateLead)
	api.Get("/leads", requireAdmin, leadHandler.ListLeads)
	api.Put("/leads", requireAdmin, leadHandler.UpdateLead)

	api.Get("/policies", requireScoped, policyHandler.ListPolicies)
	api.Post("/policies", requireAdmin, policyHandler.CreatePolicy)
	api.Put("/policies", requireAdmin, policyHandler.UpdatePolicy)

	api.Get("/vehicles", requireScoped, vehicleHandler.ListVehicles)
	api.Post("/vehicles", requireAdmin, vehicleHandler.CreateVehicle)

	users := api.Group("/users", requireAdmin)
	users.Get("/", userHandler.ListUsers)
	users.Post("/", userHandler.CreateUser)
	users.Put("/", userHandler.UpdateUser)
	users.Delete("/", userHandler.DeleteUser)

	profile := api.Group("/user/profile", requireUser)
	profile.Get("/", profileHandler.GetProfile)
	profile.Put("/", profileHandler.UpdateProfile)

	api.Get("/cron/reminders", reminderHandler.RunReminders)
	api.Get("/admin/stats", requireAdmin, adminHandler.DashboardStats)
}

func rateLimiter(d Dependencies) fiber.Handler {
	if d.Redis != nil {
		return middleware.NewRateLimiter(d.Redis, d.Log, "ratelimit", d.RateLimitPerMinute, time.Minute).ByIP()
	}
	return middleware.NewLocalRateLimiter(d.RateLimitPerMinute, d.Log).Handler()
}
