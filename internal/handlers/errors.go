package handlers

import (
	"errors"
	"log"
	"net/http"

	"strokeclash/internal/service"
	"strokeclash/internal/validation"
)

// errorResponse is the JSON body of every error status
type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// respondValidationError returns 400 with the list of offending fields
func respondValidationError(w http.ResponseWriter, fields []string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:  "validation",
		Fields: fields,
	})
}

// respondBadRequest returns 400 for malformed payloads
func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// respondServiceError maps a service-layer error onto the response taxonomy:
// missing records get 404, invalid operations get 400, everything else is a
// logged 500 with a generic body.
func respondServiceError(w http.ResponseWriter, err error) {
	if verr := validation.AsError(err); verr != nil {
		respondValidationError(w, verr.Fields)
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
		return
	}
	if errors.Is(err, service.ErrInvalid) {
		respondBadRequest(w, err.Error())
		return
	}

	log.Printf("Internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:   "internal",
		Message: "something went wrong",
	})
}
