package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Vehicle types accepted by the back office.
const (
	VehicleBike       = "Bike"
	VehicleCar        = "Car"
	VehicleCommercial = "Commercial"
)

// Board types apply to cars only.
const (
	BoardOwn = "Own Board"
	BoardT   = "T Board"
)

// Vehicle is an insured vehicle owned by a user.
type Vehicle struct {
	BaseModel
	UserID       uuid.UUID      `gorm:"type:uuid;index;not null" json:"userId"`
	User         *User          `gorm:"foreignKey:UserID" json:"-"`
	Type         string         `gorm:"not null" json:"type"`
	VehicleModel string         `gorm:"not null" json:"vehicleModel"`
	RegNumber    string         `gorm:"index;not null" json:"regNumber"`
	BoardType    string         `json:"boardType,omitempty"`
	Details      datatypes.JSON `json:"details,omitempty"`
}

// VehicleSummary is the vehicle projection embedded in policy listings.
type VehicleSummary struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	VehicleModel string `json:"vehicleModel"`
	RegNumber    string `json:"regNumber"`
}

// Summary projects the vehicle onto VehicleSummary. A nil vehicle yields nil.
func (v *Vehicle) Summary() *VehicleSummary {
	if v == nil {
		return nil
	}
	return &VehicleSummary{
		ID:           v.ID.String(),
		Type:         v.Type,
		VehicleModel: v.VehicleModel,
		RegNumber:    v.RegNumber,
	}
}

// NormalizeBoardType returns the board type to store for a vehicle type.
func NormalizeBoardType(vehicleType, boardType string) string {
	if vehicleType != VehicleCar {
		return ""
	}
	if boardType == "" {
		return BoardOwn
	}
	return boardType
}
