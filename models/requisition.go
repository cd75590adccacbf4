// models/requisition.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Requisition is an internal purchase request carrying a unique,
// system-generated document number (EEL/2026/001). The number is
// assigned once at creation and never recomputed; rows are never
// hard-deleted through the public interface.
type Requisition struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RequisitionNumber string    `gorm:"size:50;uniqueIndex;not null" json:"requisition_number"`
	RequisitionDate   JSONDate  `gorm:"type:date;not null" json:"requisition_date"`
	Remarks           string    `gorm:"type:text" json:"remarks,omitempty"`
	CreatedByID       uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedBy         *User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT" json:"created_by,omitempty"`
	IsAssigned        bool      `gorm:"not null;default:false" json:"is_assigned"`

	Items []RequisitionItem `gorm:"foreignKey:RequisitionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Requisition) TableName() string {
	return "requisitions"
}

func (r *Requisition) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// RequisitionItem is one (product, quantity) line owned by a requisition.
type RequisitionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RequisitionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"requisition_id"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"quantity"`
	Remarks       string          `gorm:"type:text" json:"remarks,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (RequisitionItem) TableName() string {
	return "requisition_items"
}

func (ri *RequisitionItem) BeforeCreate(tx *gorm.DB) (err error) {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return
}

// VendorRequisitionAssignment splits some or all of a requisition's
// line items to one vendor for sourcing. A requisition may carry any
// number of assignments; none is ever deleted through the public
// interface.
type VendorRequisitionAssignment struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	RequisitionID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"requisition_id"`
	Requisition    *Requisition `gorm:"foreignKey:RequisitionID;constraint:OnDelete:RESTRICT" json:"requisition,omitempty"`
	VendorID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor         *Vendor      `gorm:"foreignKey:VendorID;constraint:OnDelete:RESTRICT" json:"vendor,omitempty"`
	AssignmentDate JSONDate     `gorm:"type:date;not null" json:"assignment_date"`
	Remarks        string       `gorm:"type:text" json:"remarks,omitempty"`
	AssignedByID   uuid.UUID    `gorm:"type:uuid;not null" json:"assigned_by_id"`
	AssignedBy     *User        `gorm:"foreignKey:AssignedByID;constraint:OnDelete:RESTRICT" json:"assigned_by,omitempty"`

	Items []VendorRequisitionItem `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (VendorRequisitionAssignment) TableName() string {
	return "vendor_requisition_assignments"
}

func (a *VendorRequisitionAssignment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// VendorRequisitionItem is one line of a vendor assignment. ProductID
// duplicates the product reachable via the requisition item; the write
// path validates the two always match.
type VendorRequisitionItem struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"assignment_id"`
	RequisitionItemID uuid.UUID        `gorm:"type:uuid;not null;index" json:"requisition_item_id"`
	RequisitionItem   *RequisitionItem `gorm:"foreignKey:RequisitionItemID;constraint:OnDelete:RESTRICT" json:"requisition_item,omitempty"`
	ProductID         uuid.UUID        `gorm:"type:uuid;not null" json:"product_id"`
	Product           *Product         `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity          decimal.Decimal  `gorm:"type:numeric(10,2);not null" json:"quantity"`
}

func (VendorRequisitionItem) TableName() string {
	return "vendor_requisition_items"
}

func (vi *VendorRequisitionItem) BeforeCreate(tx *gorm.DB) (err error) {
	if vi.ID == uuid.Nil {
		vi.ID = uuid.New()
	}
	return
}
