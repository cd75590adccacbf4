// handlers/vendors.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"eel.in/erp/config"
	"eel.in/erp/models"
)

type vendorPayload struct {
	VendorCode        string `json:"vendor_code" validate:"required,max=50"`
	VendorName        string `json:"vendor_name" validate:"required,max=200"`
	ContactPerson     string `json:"contact_person" validate:"max=100"`
	Phone             string `json:"phone" validate:"max=15"`
	Email             string `json:"email" validate:"omitempty,email"`
	Address           string `json:"address"`
	GSTNumber         string `json:"gst_number" validate:"max=50"`
	PANNumber         string `json:"pan_number" validate:"max=50"`
	BankName          string `json:"bank_name" validate:"max=100"`
	BankAccountNumber string `json:"bank_account_number" validate:"max=50"`
	IFSCCode          string `json:"ifsc_code" validate:"max=20"`
	IsActive          *bool  `json:"is_active"`
}

func GetAllVendors(w http.ResponseWriter, r *http.Request) {
	var vendors []models.Vendor
	if err := config.DB.Order("vendor_name").Find(&vendors).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func CreateVendor(w http.ResponseWriter, r *http.Request) {
	var req vendorPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	vendor := models.Vendor{
		VendorCode:        strings.ToUpper(req.VendorCode),
		VendorName:        req.VendorName,
		ContactPerson:     req.ContactPerson,
		Phone:             req.Phone,
		Email:             req.Email,
		Address:           req.Address,
		GSTNumber:         req.GSTNumber,
		PANNumber:         req.PANNumber,
		BankName:          req.BankName,
		BankAccountNumber: req.BankAccountNumber,
		IFSCCode:          req.IFSCCode,
		IsActive:          true,
	}
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
	}
	if err := config.DB.Create(&vendor).Error; err != nil {
		if isDuplicateKeyError(err) {
			http.Error(w, "vendor code already exists", http.StatusConflict)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

func GetVendor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var vendor models.Vendor
	if err := config.DB.First(&vendor, "id = ?", id).Error; err != nil {
		http.Error(w, "vendor not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

func UpdateVendor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var vendor models.Vendor
	if err := config.DB.First(&vendor, "id = ?", id).Error; err != nil {
		http.Error(w, "vendor not found", http.StatusNotFound)
		return
	}

	var req vendorPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	vendor.VendorCode = strings.ToUpper(req.VendorCode)
	vendor.VendorName = req.VendorName
	vendor.ContactPerson = req.ContactPerson
	vendor.Phone = req.Phone
	vendor.Email = req.Email
	vendor.Address = req.Address
	vendor.GSTNumber = req.GSTNumber
	vendor.PANNumber = req.PANNumber
	vendor.BankName = req.BankName
	vendor.BankAccountNumber = req.BankAccountNumber
	vendor.IFSCCode = req.IFSCCode
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
	}
	if err := config.DB.Save(&vendor).Error; err != nil {
		if isDuplicateKeyError(err) {
			http.Error(w, "vendor code already exists", http.StatusConflict)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, vendor)
}

// DeleteVendor removes a vendor unless assignments still reference it.
func DeleteVendor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var vendor models.Vendor
	if err := config.DB.First(&vendor, "id = ?", id).Error; err != nil {
		http.Error(w, "vendor not found", http.StatusNotFound)
		return
	}
	if err := config.DB.Delete(&vendor).Error; err != nil {
		if isForeignKeyError(err) {
			http.Error(w, "vendor is referenced by assignments and cannot be deleted", http.StatusConflict)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
