package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sanjey2005/friends-associates/internal/models"
)

// LeadRepository persists quote requests.
type LeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository constructs a LeadRepository.
func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create inserts a lead.
func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

// List returns leads newest first. A limit of zero returns every lead.
func (r *LeadRepository) List(ctx context.Context, limit, offset int) ([]models.Lead, error) {
	query := r.db.WithContext(ctx).Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var leads []models.Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// UpdateStatus changes the follow-up status of a lead.
func (r *LeadRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Lead, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Lead{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var lead models.Lead
	if err := db.First(&lead, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &lead, nil
}

// CountByStatus returns the number of leads per status.
func (r *LeadRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).Model(&models.Lead{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
