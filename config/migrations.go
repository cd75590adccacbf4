package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"eel.in/erp/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "15072026_create_master_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Product{}, &models.Vendor{})
			},
		},
		{
			ID: "15072026_create_requisition_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Requisition{}, &models.RequisitionItem{},
					&models.VendorRequisitionAssignment{}, &models.VendorRequisitionItem{})
			},
		},
		{
			ID: "02082026_create_document_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.DocumentType{}, &models.Document{}, &models.DocumentLink{})
			},
		},
	})

	return m.Migrate()
}
