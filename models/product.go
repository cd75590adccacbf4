// models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the item master. Rows referenced by requisition or
// assignment lines are protected from deletion at the FK level.
type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ItemCode     string          `gorm:"size:50;uniqueIndex;not null" json:"item_code"`
	ItemName     string          `gorm:"size:200;not null" json:"item_name"`
	Description  string          `gorm:"type:text" json:"description,omitempty"`
	HSNCode      string          `gorm:"size:20" json:"hsn_code,omitempty"`
	Unit         string          `gorm:"size:20;not null;default:PCS" json:"unit"`
	CurrentStock decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"current_stock"`
	ReorderLevel decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"reorder_level"`
	Rate         decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"rate"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
