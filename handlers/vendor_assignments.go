// handlers/vendor_assignments.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"eel.in/erp/middleware"
	"eel.in/erp/pkg/requisition"
)

type assignmentItemPayload struct {
	RequisitionItemID uuid.UUID       `json:"requisition_item_id" validate:"required"`
	ProductID         uuid.UUID       `json:"product_id" validate:"required"`
	Quantity          decimal.Decimal `json:"quantity" validate:"required"`
}

type createAssignmentPayload struct {
	RequisitionID uuid.UUID               `json:"requisition_id" validate:"required"`
	VendorID      uuid.UUID               `json:"vendor_id" validate:"required"`
	Remarks       string                  `json:"remarks"`
	Items         []assignmentItemPayload `json:"items" validate:"required,min=1,dive"`
}

func GetAllVendorAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := reqService().ListAllAssignments()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

// CreateVendorAssignment assigns requisition lines to a vendor. The
// assigning user comes from the token.
func CreateVendorAssignment(w http.ResponseWriter, r *http.Request) {
	var payload createAssignmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	in := requisition.CreateAssignmentInput{
		RequisitionID: payload.RequisitionID,
		VendorID:      payload.VendorID,
		AssignedBy:    middleware.GetUserID(r),
		Remarks:       payload.Remarks,
	}
	for _, item := range payload.Items {
		in.Items = append(in.Items, requisition.AssignmentItemInput{
			RequisitionItemID: item.RequisitionItemID,
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
		})
	}

	assignment, err := reqService().CreateAssignment(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

func GetVendorAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	assignment, err := reqService().GetAssignment(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

// DeleteVendorAssignment always refuses with a structured 403 body.
func DeleteVendorAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	writeServiceError(w, reqService().DeleteAssignment(id))
}
