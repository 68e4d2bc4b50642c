package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sanjey2005/friends-associates/internal/models"
)

// UserRepository persists customer accounts.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A taken phone or email yields a
// *DuplicateError.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return duplicate(r.db.WithContext(ctx).Create(user).Error)
}

// Save writes every column of an existing user.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return duplicate(r.db.WithContext(ctx).Save(user).Error)
}

// FindByID loads a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindByPhone loads the user registered with phone.
func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

// FindByEmail loads the user registered with email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// PhoneTakenByOther reports whether phone belongs to a user other than id.
func (r *UserRepository) PhoneTakenByOther(ctx context.Context, phone string, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("phone = ? AND id <> ?", phone, id).
		Count(&count).Error
	return count > 0, err
}

// EmailTakenByOther reports whether email belongs to a user other than id.
// Pass uuid.Nil to check against every user.
func (r *UserRepository) EmailTakenByOther(ctx context.Context, email string, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&count).Error
	return count > 0, err
}

// FindByVerificationToken loads the user holding an unexpired verification token.
func (r *UserRepository) FindByVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	return r.findOne(ctx, "verification_token = ? AND verification_token_expiry > ?", token, now)
}

// ConsumeResetToken stores passwordHash on the user holding the unexpired
// reset token and clears the token in the same statement. Of two concurrent
// calls with one token only the first matches; the other gets ErrNotFound.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("reset_password_token = ? AND reset_password_token_expiry > ?", token, now).
		Updates(map[string]interface{}{
			"password":                    passwordHash,
			"reset_password_token":        nil,
			"reset_password_token_expiry": nil,
			"updated_at":                  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns users newest first. A limit of zero returns every user.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := r.db.WithContext(ctx).Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update overwrites name and phone of a user. A nil email leaves the stored
// address untouched.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, name, phone string, email *string) (*models.User, error) {
	fields := map[string]interface{}{
		"name":       name,
		"phone":      phone,
		"updated_at": time.Now(),
	}
	if email != nil {
		fields["email"] = *email
	}

	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, duplicate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes a user. Vehicles, policies and chats are left in place.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}
