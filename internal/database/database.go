package database

import (
	"database/sql"
	"net/url"
	"strings"
	"sync"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Sanjey2005/friends-associates/internal/models"
)

var (
	db      *gorm.DB
	connErr error
	once    sync.Once
)

// Connect opens the process-wide database handle on first use and registers
// the schema. Later calls return the same handle.
func Connect(dsn string, log *zap.Logger, verbose bool) (*gorm.DB, error) {
	once.Do(func() {
		db, connErr = open(dsn, log, verbose)
	})
	return db, connErr
}

// DB exposes the initialized gorm.DB instance.
func DB() *gorm.DB {
	return db
}

func open(dsn string, log *zap.Logger, verbose bool) (*gorm.DB, error) {
	if err := ensureDatabase(dsn); err != nil {
		return nil, err
	}

	level := logger.Warn
	if verbose {
		level = logger.Info
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
		// Relations are loaded with Preload only. Deleting a user must not be
		// blocked or cascaded by the database.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}

	log.Info("database ready", zap.Int("models", len(models.All())))
	return conn, nil
}

// Migrate registers every model once.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(models.All()...)
}

func ensureDatabase(dsn string) error {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return err
	}

	dbName := strings.TrimPrefix(parsed.Path, "/")
	if dbName == "" {
		return nil
	}

	parsed.Path = "/postgres"
	masterDSN := parsed.String()

	sqlDB, err := sql.Open("postgres", masterDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	var exists bool
	if err := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		return err
	}

	if exists {
		return nil
	}

	_, err = sqlDB.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
	return err
}
