package config

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"eel.in/erp/models"
)

// SeedAdminUser creates the bootstrap admin account if it does not
// exist yet. Credentials come from the environment so a fresh deploy
// can log in and create the real users.
func SeedAdminUser() {
	code := Getenv("ADMIN_EMPLOYEE_CODE", "ADMIN001")

	var existing models.User
	err := DB.Where("employee_code = ?", code).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Warning: admin seed lookup failed: %v", err)
		return
	}

	password := Getenv("ADMIN_PASSWORD", "changeme")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: admin seed hash failed: %v", err)
		return
	}

	admin := models.User{
		EmployeeCode: code,
		Name:         "Administrator",
		Email:        Getenv("ADMIN_EMAIL", "admin@eel.in"),
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Warning: admin seed failed: %v", err)
		return
	}
	log.Printf("Seeded admin user %s", code)
}

// SeedDocumentTypes creates the default document type masters.
func SeedDocumentTypes() {
	types := []models.DocumentType{
		{Name: "Purchase Order", Code: "PO", Description: "Purchase order issued to a vendor"},
		{Name: "Invoice", Code: "INV", Description: "Vendor invoice"},
		{Name: "Packing List", Code: "PL", Description: "Shipment packing list"},
		{Name: "QC Report", Code: "QC", Description: "Quality control inspection report"},
		{Name: "Quotation", Code: "QTN", Description: "Vendor quotation"},
	}

	for _, dt := range types {
		var count int64
		if err := DB.Model(&models.DocumentType{}).Where("code = ?", dt.Code).Count(&count).Error; err != nil {
			log.Printf("Warning: document type seed lookup failed: %v", err)
			return
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&dt).Error; err != nil {
			log.Printf("Warning: document type seed failed for %s: %v", dt.Code, err)
		}
	}
}
