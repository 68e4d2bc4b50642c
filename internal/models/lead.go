package models

// Lead statuses.
const (
	LeadNotCompleted      = "Not Completed"
	LeadCompleted         = "Completed"
	LeadCustomerDidntPick = "Customer Didn't Pick"
)

// Lead is a quote request submitted from the public site. It is not linked
// to a user account.
type Lead struct {
	BaseModel
	Name           string `gorm:"not null" json:"name"`
	Email          string `gorm:"not null" json:"email"`
	Phone          string `gorm:"not null" json:"phone"`
	VehicleType    string `gorm:"not null" json:"vehicleType"`
	VehicleModel   string `json:"vehicleModel,omitempty"`
	MfgYear        string `json:"mfgYear,omitempty"`
	RegNumber      string `json:"regNumber,omitempty"`
	InsuranceType  string `gorm:"not null" json:"insuranceType"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
	Status         string `gorm:"index;not null;default:'Not Completed'" json:"status"`
}
