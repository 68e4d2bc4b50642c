package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sanjey2005/friends-associates/internal/models"
)

// PolicyRepository persists insurance policies.
type PolicyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository constructs a PolicyRepository.
func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// PolicyUpdate lists the fields an admin may change. Nil fields are left
// untouched.
type PolicyUpdate struct {
	PolicyLink *string
	ExpiryDate *time.Time
	Notes      *string
	Status     *string
}

// Create inserts a policy and loads its owner and vehicle.
func (r *PolicyRepository) Create(ctx context.Context, policy *models.Policy) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(policy).Error; err != nil {
		return err
	}
	return r.populated(db).First(policy, "id = ?", policy.ID).Error
}

// Update applies the non-nil fields of upd and returns the stored policy.
func (r *PolicyRepository) Update(ctx context.Context, id uuid.UUID, upd PolicyUpdate) (*models.Policy, error) {
	db := r.db.WithContext(ctx)

	var policy models.Policy
	if err := db.First(&policy, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	updates := map[string]interface{}{}
	if upd.PolicyLink != nil {
		updates["policy_link"] = *upd.PolicyLink
	}
	if upd.ExpiryDate != nil {
		updates["expiry_date"] = *upd.ExpiryDate
	}
	if upd.Notes != nil {
		updates["notes"] = *upd.Notes
	}
	if upd.Status != nil {
		updates["status"] = *upd.Status
	}

	if len(updates) > 0 {
		if err := db.Model(&policy).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	var stored models.Policy
	if err := r.populated(db).First(&stored, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &stored, nil
}

// ListByUser returns the policies owned by userID with their vehicles loaded.
func (r *PolicyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Policy, error) {
	var policies []models.Policy
	if err := r.db.WithContext(ctx).
		Preload("Vehicle", selectVehicleSummary).
		Where("user_id = ?", userID).
		Order("expiry_date asc").
		Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// ListAll returns every policy in the filter's expiry bucket, soonest
// expiry first, with owner and vehicle loaded.
func (r *PolicyRepository) ListAll(ctx context.Context, filter models.PolicyFilter) ([]models.Policy, error) {
	query := r.populated(r.db.WithContext(ctx))

	switch filter.Expiry {
	case models.ExpiryExpired:
		query = query.Where("expiry_date < ?", filter.Now)
	case models.ExpiryActive:
		query = query.Where("expiry_date >= ?", filter.Now)
	case models.ExpirySoon:
		query = query.Where("expiry_date >= ? AND expiry_date <= ?", filter.Now, filter.Now.Add(models.SoonWindow))
	}

	var policies []models.Policy
	if err := query.Order("expiry_date asc").Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// ListDue returns Active policies expiring within [start, end] with owner
// and vehicle loaded.
func (r *PolicyRepository) ListDue(ctx context.Context, start, end time.Time) ([]models.Policy, error) {
	var policies []models.Policy
	if err := r.populated(r.db.WithContext(ctx)).
		Where("status = ? AND expiry_date >= ? AND expiry_date <= ?", models.PolicyActive, start, end).
		Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// SetStatus changes the status of a single policy.
func (r *PolicyRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Policy{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of policies per status.
func (r *PolicyRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).Model(&models.Policy{}).
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

func (r *PolicyRepository) populated(db *gorm.DB) *gorm.DB {
	return db.Preload("User", selectUserSummary).Preload("Vehicle", selectVehicleSummary)
}
