// models/vendor.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor is the supplier master.
type Vendor struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VendorCode        string    `gorm:"size:50;uniqueIndex;not null" json:"vendor_code"`
	VendorName        string    `gorm:"size:200;not null" json:"vendor_name"`
	ContactPerson     string    `gorm:"size:100" json:"contact_person,omitempty"`
	Phone             string    `gorm:"size:15" json:"phone,omitempty"`
	Email             string    `gorm:"size:100" json:"email,omitempty"`
	Address           string    `gorm:"type:text" json:"address,omitempty"`
	GSTNumber         string    `gorm:"size:50" json:"gst_number,omitempty"`
	PANNumber         string    `gorm:"size:50" json:"pan_number,omitempty"`
	BankName          string    `gorm:"size:100" json:"bank_name,omitempty"`
	BankAccountNumber string    `gorm:"size:50" json:"bank_account_number,omitempty"`
	IFSCCode          string    `gorm:"size:20" json:"ifsc_code,omitempty"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Vendor) TableName() string {
	return "vendors"
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
