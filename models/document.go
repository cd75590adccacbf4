// models/document.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entity kinds a document may be linked to. Links are a typed
// (entity_kind, entity_id) pair, not a free-form dynamic reference.
const (
	EntityKindRequisition      = "requisition"
	EntityKindVendorAssignment = "vendor_assignment"
	EntityKindProduct          = "product"
	EntityKindVendor           = "vendor"
)

// KnownEntityKinds lists every kind accepted by the link write path.
var KnownEntityKinds = []string{
	EntityKindRequisition,
	EntityKindVendorAssignment,
	EntityKindProduct,
	EntityKindVendor,
}

// IsKnownEntityKind reports whether kind is an accepted link target.
func IsKnownEntityKind(kind string) bool {
	for _, k := range KnownEntityKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// DocumentType is the master for document categories
// (Purchase Order, Invoice, QC Report, ...).
type DocumentType struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Code        string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DocumentType) TableName() string {
	return "document_types"
}

func (dt *DocumentType) BeforeCreate(tx *gorm.DB) (err error) {
	if dt.ID == uuid.Nil {
		dt.ID = uuid.New()
	}
	return
}

// Document stores uploaded file metadata. The file itself lives on
// local disk under the configured upload directory.
type Document struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentTypeID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"document_type_id"`
	DocumentType     *DocumentType  `gorm:"foreignKey:DocumentTypeID;constraint:OnDelete:RESTRICT" json:"document_type,omitempty"`
	FilePath         string         `gorm:"size:500;not null" json:"file_path"`
	OriginalFilename string         `gorm:"size:255" json:"original_filename,omitempty"`
	Description      string         `gorm:"type:text" json:"description,omitempty"`
	Metadata         datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	UploadedByID     uuid.UUID      `gorm:"type:uuid;not null" json:"uploaded_by_id"`
	UploadedBy       *User          `gorm:"foreignKey:UploadedByID;constraint:OnDelete:RESTRICT" json:"uploaded_by,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

// DocumentLink attaches a document to one ERP object.
type DocumentLink struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	Document   *Document `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"document,omitempty"`
	EntityKind string    `gorm:"size:50;not null;index:idx_document_links_entity" json:"entity_kind"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_document_links_entity" json:"entity_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (DocumentLink) TableName() string {
	return "document_links"
}

func (dl *DocumentLink) BeforeCreate(tx *gorm.DB) (err error) {
	if dl.ID == uuid.Nil {
		dl.ID = uuid.New()
	}
	return
}
