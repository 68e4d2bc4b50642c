package models

import (
	"time"
)

// User represents a customer account. Phone is the login identity.
type User struct {
	BaseModel
	Name                     string     `gorm:"not null" json:"name"`
	Phone                    string     `gorm:"uniqueIndex;not null" json:"phone"`
	Email                    *string    `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash             string     `gorm:"column:password" json:"-"`
	IsVerified               bool       `gorm:"not null;default:false" json:"isVerified"`
	VerificationToken        *string    `gorm:"index" json:"-"`
	VerificationTokenExpiry  *time.Time `json:"-"`
	ResetPasswordToken       *string    `gorm:"index" json:"-"`
	ResetPasswordTokenExpiry *time.Time `json:"-"`
}

// EmailAddress returns the user's email or an empty string.
func (u *User) EmailAddress() string {
	if u == nil || u.Email == nil {
		return ""
	}
	return *u.Email
}

// HasPassword reports whether a password hash has been set on the account.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// UserSummary is the owner projection embedded in vehicle, policy and chat
// listings.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone"`
}

// Summary projects the user onto UserSummary. A nil user yields nil.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.EmailAddress(),
		Phone: u.Phone,
	}
}

// Admin is a back-office account. Admins are seeded, never self-registered.
type Admin struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password;not null" json:"-"`
	Role         string `gorm:"not null;default:'admin'" json:"role"`
}

// StringPtr returns nil for an empty string so optional unique columns
// store NULL instead of "".
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
