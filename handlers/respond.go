// handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"eel.in/erp/config"
	"eel.in/erp/pkg/requisition"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the requisition error taxonomy onto HTTP
// statuses: validation 400, forbidden policy 403 with a structured
// body, missing record 404, anything else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *requisition.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
		return
	}

	var ferr *requisition.ForbiddenError
	if errors.As(err, &ferr) {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"error":   ferr.Reason,
			"message": ferr.Message,
		})
		return
	}

	var nerr *requisition.NotFoundError
	if errors.As(err, &nerr) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": nerr.Error()})
		return
	}

	http.Error(w, "internal error: "+err.Error(), http.StatusInternalServerError)
}

// reqService builds the requisition service over the shared connection.
func reqService() *requisition.Service {
	return requisition.NewService(config.DB, config.NumberPrefix)
}
