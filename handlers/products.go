// handlers/products.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"eel.in/erp/config"
	"eel.in/erp/models"
)

var validate = validator.New()

type productPayload struct {
	ItemCode     string          `json:"item_code" validate:"required,max=50"`
	ItemName     string          `json:"item_name" validate:"required,max=200"`
	Description  string          `json:"description"`
	HSNCode      string          `json:"hsn_code" validate:"max=20"`
	Unit         string          `json:"unit" validate:"max=20"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	Rate         decimal.Decimal `json:"rate"`
	IsActive     *bool           `json:"is_active"`
}

func GetAllProducts(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if err := config.DB.Order("created_at DESC").Find(&products).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetLowStockProducts returns active products at or below their reorder level.
func GetLowStockProducts(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	err := config.DB.
		Where("current_stock <= reorder_level AND is_active = ?", true).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func GetActiveProducts(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if err := config.DB.Where("is_active = ?", true).Order("created_at DESC").Find(&products).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product := models.Product{
		ItemCode:     strings.ToUpper(req.ItemCode),
		ItemName:     req.ItemName,
		Description:  req.Description,
		HSNCode:      req.HSNCode,
		Unit:         req.Unit,
		CurrentStock: req.CurrentStock,
		ReorderLevel: req.ReorderLevel,
		Rate:         req.Rate,
		IsActive:     true,
	}
	if product.Unit == "" {
		product.Unit = "PCS"
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := config.DB.Create(&product).Error; err != nil {
		if isDuplicateKeyError(err) {
			http.Error(w, "item code already exists", http.StatusConflict)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var product models.Product
	if err := config.DB.First(&product, "id = ?", id).Error; err != nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var product models.Product
	if err := config.DB.First(&product, "id = ?", id).Error; err != nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}

	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product.ItemCode = strings.ToUpper(req.ItemCode)
	product.ItemName = req.ItemName
	product.Description = req.Description
	product.HSNCode = req.HSNCode
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	product.CurrentStock = req.CurrentStock
	product.ReorderLevel = req.ReorderLevel
	product.Rate = req.Rate
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := config.DB.Save(&product).Error; err != nil {
		if isDuplicateKeyError(err) {
			http.Error(w, "item code already exists", http.StatusConflict)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product. Products referenced by requisition
// or assignment lines are protected by RESTRICT constraints and
// surface as a conflict.
func DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var product models.Product
	if err := config.DB.First(&product, "id = ?", id).Error; err != nil {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err := config.DB.Delete(&product).Error; err != nil {
		if isForeignKeyError(err) {
			http.Error(w, "product is referenced by requisitions and cannot be deleted", http.StatusConflict)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isForeignKeyError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}
