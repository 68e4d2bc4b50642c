package models

import (
	"time"

	"github.com/google/uuid"
)

// Policy statuses.
const (
	PolicyActive       = "Active"
	PolicyExpiringSoon = "Expiring Soon"
	PolicyExpired      = "Expired"
)

// Policy is an insurance policy tied to one user and one vehicle.
type Policy struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	VehicleID  uuid.UUID `gorm:"type:uuid;index;not null" json:"vehicleId"`
	Vehicle    *Vehicle  `gorm:"foreignKey:VehicleID" json:"-"`
	PolicyLink string    `json:"policyLink,omitempty"`
	ExpiryDate time.Time `gorm:"index;not null" json:"expiryDate"`
	Notes      string    `json:"notes,omitempty"`
	Status     string    `gorm:"index;not null;default:'Active'" json:"status"`
}

// Expiry buckets understood by the admin policy listing.
const (
	ExpiryExpired = "expired"
	ExpiryActive  = "active"
	ExpirySoon    = "soon"
)

// SoonWindow is how far ahead the "soon" bucket and the reminder job look.
const SoonWindow = 7 * 24 * time.Hour

// PolicyFilter narrows the admin policy listing.
type PolicyFilter struct {
	Expiry string
	Now    time.Time
}
