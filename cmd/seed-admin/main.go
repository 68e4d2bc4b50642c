// Command seed-admin creates a back-office account or resets its password.
// Admins cannot self-register; this is the only way to provision one.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Sanjey2005/friends-associates/internal/config"
	"github.com/Sanjey2005/friends-associates/internal/database"
	"github.com/Sanjey2005/friends-associates/internal/logger"
	"github.com/Sanjey2005/friends-associates/internal/repository"
	"github.com/Sanjey2005/friends-associates/internal/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		email       string
		password    string
		databaseURL string
	)

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create or update a back-office admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email = strings.TrimSpace(email)
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			if databaseURL == "" {
				databaseURL = config.DatabaseURL()
			}

			log, err := logger.New(false)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			db, err := database.Connect(databaseURL, log, false)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}

			hash, err := utils.HashPassword(password)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			created, err := repository.NewAdminRepository(db).Upsert(ctx, email, hash)
			if err != nil {
				return fmt.Errorf("save admin: %w", err)
			}

			if created {
				log.Info("admin created", zap.String("email", email))
			} else {
				log.Info("admin password updated", zap.String("email", email))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (defaults to DATABASE_URL)")
	return cmd
}
