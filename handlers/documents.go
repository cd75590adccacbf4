// handlers/documents.go
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"eel.in/erp/config"
	"eel.in/erp/middleware"
	"eel.in/erp/models"
)

func GetAllDocumentTypes(w http.ResponseWriter, r *http.Request) {
	var types []models.DocumentType
	if err := config.DB.Order("name").Find(&types).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

type documentTypePayload struct {
	Name        string `json:"name" validate:"required,max=100"`
	Code        string `json:"code" validate:"required,max=50"`
	Description string `json:"description"`
}

func CreateDocumentType(w http.ResponseWriter, r *http.Request) {
	var req documentTypePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dt := models.DocumentType{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		IsActive:    true,
	}
	if err := config.DB.Create(&dt).Error; err != nil {
		if isDuplicateKeyError(err) {
			http.Error(w, "document type name or code already exists", http.StatusConflict)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, dt)
}

// UploadDocument stores the file on local disk and records its
// metadata. Multipart fields: file, document_type_id, description.
func UploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := os.MkdirAll(config.UploadDir, 0755); err != nil {
		http.Error(w, "failed to create upload directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Parse the multipart form (max 50MB)
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	docTypeID, err := uuid.Parse(r.FormValue("document_type_id"))
	if err != nil {
		http.Error(w, "document_type_id is required", http.StatusBadRequest)
		return
	}
	var docType models.DocumentType
	if err := config.DB.First(&docType, "id = ?", docTypeID).Error; err != nil {
		http.Error(w, "document type not found", http.StatusNotFound)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Timestamped filename avoids collisions between same-named uploads
	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("%s-%s", timestamp, header.Filename)
	diskPath := filepath.Join(config.UploadDir, filename)

	dst, err := os.Create(diskPath)
	if err != nil {
		http.Error(w, "failed to create file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "failed to save file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	doc := models.Document{
		DocumentTypeID:   docTypeID,
		FilePath:         fmt.Sprintf("/uploads/%s", filename),
		OriginalFilename: header.Filename,
		Description:      r.FormValue("description"),
		UploadedByID:     middleware.GetUserID(r),
	}
	if err := config.DB.Create(&doc).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func GetAllDocuments(w http.ResponseWriter, r *http.Request) {
	var docs []models.Document
	if err := config.DB.Preload("DocumentType").Order("created_at DESC").Find(&docs).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

type documentLinkPayload struct {
	EntityKind string    `json:"entity_kind" validate:"required"`
	EntityID   uuid.UUID `json:"entity_id" validate:"required"`
}

// LinkDocument attaches a document to one ERP object via a typed
// (entity_kind, entity_id) pair. The target record must exist.
func LinkDocument(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var doc models.Document
	if err := config.DB.First(&doc, "id = ?", docID).Error; err != nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}

	var req documentLinkPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.IsKnownEntityKind(req.EntityKind) {
		http.Error(w, "unknown entity kind", http.StatusBadRequest)
		return
	}
	if !entityExists(req.EntityKind, req.EntityID) {
		http.Error(w, "linked entity not found", http.StatusNotFound)
		return
	}

	link := models.DocumentLink{
		DocumentID: docID,
		EntityKind: req.EntityKind,
		EntityID:   req.EntityID,
	}
	if err := config.DB.Create(&link).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// GetDocumentsByEntity lists every document linked to one ERP object.
func GetDocumentsByEntity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind := vars["kind"]
	if !models.IsKnownEntityKind(kind) {
		http.Error(w, "unknown entity kind", http.StatusBadRequest)
		return
	}
	entityID, err := uuid.Parse(vars["entityId"])
	if err != nil {
		http.Error(w, "invalid entity id", http.StatusBadRequest)
		return
	}

	links := []models.DocumentLink{}
	err = config.DB.
		Preload("Document").
		Preload("Document.DocumentType").
		Where("entity_kind = ? AND entity_id = ?", kind, entityID).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func entityExists(kind string, id uuid.UUID) bool {
	var count int64
	switch kind {
	case models.EntityKindRequisition:
		config.DB.Model(&models.Requisition{}).Where("id = ?", id).Count(&count)
	case models.EntityKindVendorAssignment:
		config.DB.Model(&models.VendorRequisitionAssignment{}).Where("id = ?", id).Count(&count)
	case models.EntityKindProduct:
		config.DB.Model(&models.Product{}).Where("id = ?", id).Count(&count)
	case models.EntityKindVendor:
		config.DB.Model(&models.Vendor{}).Where("id = ?", id).Count(&count)
	}
	return count > 0
}
