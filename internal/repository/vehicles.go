package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sanjey2005/friends-associates/internal/models"
)

// VehicleRepository persists insured vehicles.
type VehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository constructs a VehicleRepository.
func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create inserts a vehicle and loads its owner.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(vehicle).Error; err != nil {
		return err
	}
	return db.Preload("User", selectUserSummary).First(vehicle, "id = ?", vehicle.ID).Error
}

// ListByUser returns the vehicles owned by userID.
func (r *VehicleRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// ListAll returns every vehicle with its owner loaded.
func (r *VehicleRepository) ListAll(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := r.db.WithContext(ctx).
		Preload("User", selectUserSummary).
		Order("created_at desc").
		Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Count returns the number of vehicles.
func (r *VehicleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).Count(&count).Error
	return count, err
}
