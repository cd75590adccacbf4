package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"eel.in/erp/config"
	"eel.in/erp/handlers"
	"eel.in/erp/middleware"
	"eel.in/erp/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.UploadDir))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	// User profile endpoint
	api.HandleFunc("/profile", handlers.Profile).Methods("GET")

	registerMasterRoutes(api)
	registerRequisitionRoutes(api)
	registerDocumentRoutes(api)

	return r
}

// registerMasterRoutes wires the product and vendor masters. Master
// data deletion is admin-only.
func registerMasterRoutes(api *mux.Router) {
	admin := []string{models.RoleAdmin}

	api.HandleFunc("/products", handlers.GetAllProducts).Methods("GET")
	api.HandleFunc("/products", handlers.CreateProduct).Methods("POST")
	api.HandleFunc("/products/low_stock", handlers.GetLowStockProducts).Methods("GET")
	api.HandleFunc("/products/active", handlers.GetActiveProducts).Methods("GET")
	api.HandleFunc("/products/{id}", handlers.GetProduct).Methods("GET")
	api.HandleFunc("/products/{id}", handlers.UpdateProduct).Methods("PUT")
	api.Handle("/products/{id}", middleware.RequireRole(admin,
		http.HandlerFunc(handlers.DeleteProduct))).Methods("DELETE")

	api.HandleFunc("/vendors", handlers.GetAllVendors).Methods("GET")
	api.HandleFunc("/vendors", handlers.CreateVendor).Methods("POST")
	api.HandleFunc("/vendors/{id}", handlers.GetVendor).Methods("GET")
	api.HandleFunc("/vendors/{id}", handlers.UpdateVendor).Methods("PUT")
	api.Handle("/vendors/{id}", middleware.RequireRole(admin,
		http.HandlerFunc(handlers.DeleteVendor))).Methods("DELETE")
}

// registerRequisitionRoutes wires the requisition and vendor
// assignment workflow. The DELETE routes stay registered on purpose:
// both always answer 403 with a structured body rather than 405.
func registerRequisitionRoutes(api *mux.Router) {
	api.HandleFunc("/requisitions", handlers.GetAllRequisitions).Methods("GET")
	api.HandleFunc("/requisitions", handlers.CreateRequisition).Methods("POST")
	api.HandleFunc("/requisitions/export", handlers.ExportRequisitionsToExcel).Methods("GET")
	api.HandleFunc("/requisitions/{id}", handlers.GetRequisition).Methods("GET")
	api.HandleFunc("/requisitions/{id}", handlers.UpdateRequisition).Methods("PUT")
	api.HandleFunc("/requisitions/{id}", handlers.DeleteRequisition).Methods("DELETE")
	api.HandleFunc("/requisitions/{id}/items", handlers.GetRequisitionItems).Methods("GET")
	api.HandleFunc("/requisitions/{id}/assignments", handlers.GetRequisitionAssignments).Methods("GET")

	api.HandleFunc("/vendor-assignments", handlers.GetAllVendorAssignments).Methods("GET")
	api.HandleFunc("/vendor-assignments", handlers.CreateVendorAssignment).Methods("POST")
	api.HandleFunc("/vendor-assignments/{id}", handlers.GetVendorAssignment).Methods("GET")
	api.HandleFunc("/vendor-assignments/{id}", handlers.DeleteVendorAssignment).Methods("DELETE")
}

func registerDocumentRoutes(api *mux.Router) {
	api.HandleFunc("/document-types", handlers.GetAllDocumentTypes).Methods("GET")
	api.HandleFunc("/document-types", handlers.CreateDocumentType).Methods("POST")
	api.HandleFunc("/documents", handlers.GetAllDocuments).Methods("GET")
	api.HandleFunc("/documents", handlers.UploadDocument).Methods("POST")
	api.HandleFunc("/documents/{id}/links", handlers.LinkDocument).Methods("POST")
	api.HandleFunc("/documents/by-entity/{kind}/{entityId}", handlers.GetDocumentsByEntity).Methods("GET")
}
