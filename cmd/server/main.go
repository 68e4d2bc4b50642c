package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Sanjey2005/friends-associates/internal/config"
	"github.com/Sanjey2005/friends-associates/internal/database"
	"github.com/Sanjey2005/friends-associates/internal/handlers"
	"github.com/Sanjey2005/friends-associates/internal/logger"
	"github.com/Sanjey2005/friends-associates/internal/repository"
	"github.com/Sanjey2005/friends-associates/internal/routes"
	"github.com/Sanjey2005/friends-associates/internal/scheduler"
	"github.com/Sanjey2005/friends-associates/internal/services"
	"github.com/Sanjey2005/friends-associates/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Development())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	db, err := database.Connect(cfg.DatabaseURL, zlog, cfg.Development())
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}

	users := repository.NewUserRepository(db)
	admins := repository.NewAdminRepository(db)
	vehicles := repository.NewVehicleRepository(db)
	policies := repository.NewPolicyRepository(db)
	leads := repository.NewLeadRepository(db)
	chats := repository.NewChatRepository(db)

	var sender services.MailSender
	if cfg.SMTPUsername != "" {
		smtp, err := services.NewSMTPSender(services.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			zlog.Fatal("smtp client", zap.Error(err))
		}
		sender = smtp
	} else {
		zlog.Warn("SMTP_USERNAME not set, outgoing mail is disabled")
	}
	mailer := services.NewEmailService(sender, zlog, cfg.AppURL)
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat, zlog)
	reminders := services.NewReminderService(policies, mailer, zlog)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
	}

	sched, err := scheduler.New(cfg.ReminderSchedule, reminders, zlog)
	if err != nil {
		zlog.Fatal("invalid REMINDER_SCHEDULE", zap.Error(err))
	}
	if sched != nil {
		sched.Start()
		defer sched.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "Friends Associates Backend",
		ErrorHandler: handlers.ErrorHandler(zlog),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	routes.Register(app, routes.Dependencies{
		Users:              users,
		Admins:             admins,
		Vehicles:           vehicles,
		Policies:           policies,
		Leads:              leads,
		Chats:              chats,
		Tokens:             utils.NewTokenService(cfg.UserJWTSecret, cfg.AdminJWTSecret, cfg.UserTokenTTL, cfg.AdminTokenTTL),
		Mailer:             mailer,
		Notifier:           telegram,
		Reminders:          reminders,
		CronSecret:         cfg.CronSecret,
		Redis:              redisClient,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Log:                zlog,
	})

	go func() {
		zlog.Info("starting server", zap.String("port", cfg.AppPort))
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			zlog.Fatal("fiber.Listen error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	zlog.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("shutdown", zap.Error(err))
	}
}
