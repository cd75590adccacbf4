// handlers/requisitions.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"eel.in/erp/middleware"
	"eel.in/erp/models"
	"eel.in/erp/pkg/requisition"
)

type requisitionItemPayload struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	Remarks   string          `json:"remarks"`
}

type createRequisitionPayload struct {
	RequisitionDate models.JSONDate          `json:"requisition_date" validate:"required"`
	Remarks         string                   `json:"remarks"`
	Items           []requisitionItemPayload `json:"items" validate:"required,min=1,dive"`
}

type updateRequisitionPayload struct {
	RequisitionDate *models.JSONDate `json:"requisition_date"`
	Remarks         *string          `json:"remarks"`
}

func GetAllRequisitions(w http.ResponseWriter, r *http.Request) {
	reqs, err := reqService().ListRequisitions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// CreateRequisition creates a requisition with its line items. The
// creator identity comes from the token, never from the body.
func CreateRequisition(w http.ResponseWriter, r *http.Request) {
	var payload createRequisitionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	in := requisition.CreateRequisitionInput{
		Date:      payload.RequisitionDate.Time(),
		Remarks:   payload.Remarks,
		CreatedBy: middleware.GetUserID(r),
	}
	for _, item := range payload.Items {
		in.Items = append(in.Items, requisition.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Remarks:   item.Remarks,
		})
	}

	req, err := reqService().CreateRequisition(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func GetRequisition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	req, err := reqService().GetRequisition(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func UpdateRequisition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var payload updateRequisitionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	in := requisition.UpdateRequisitionInput{Remarks: payload.Remarks}
	if payload.RequisitionDate != nil {
		d := payload.RequisitionDate.Time()
		in.Date = &d
	}

	req, err := reqService().UpdateRequisition(id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// DeleteRequisition always refuses with a structured 403 body.
func DeleteRequisition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	writeServiceError(w, reqService().DeleteRequisition(id))
}

func GetRequisitionItems(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	view, err := reqService().ListItems(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func GetRequisitionAssignments(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	view, err := reqService().ListAssignments(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
