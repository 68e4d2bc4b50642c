package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Sanjey2005/friends-associates/internal/models"
)

// AdminRepository persists back-office accounts.
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository constructs an AdminRepository.
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByEmail loads the admin registered with email.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, notFound(err)
	}
	return &admin, nil
}

// Upsert creates the admin or replaces the password hash of an existing one.
// It reports whether a new record was created.
func (r *AdminRepository) Upsert(ctx context.Context, email, passwordHash string) (bool, error) {
	existing, err := r.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, err
	}

	if existing != nil {
		existing.PasswordHash = passwordHash
		return false, r.db.WithContext(ctx).Save(existing).Error
	}

	admin := models.Admin{Email: email, PasswordHash: passwordHash, Role: "admin"}
	return true, r.db.WithContext(ctx).Create(&admin).Error
}
