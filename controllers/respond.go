package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"thingsmatch_server/services"
)

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps a service error kind to an HTTP status and writes a
// structured error body. Anything outside the taxonomy is a 500 with a
// generic message; details stay in the server log.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrAuth):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, services.ErrInvalidState):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	}
	respondJSON(w, status, map[string]string{
		"error": message,
		"code":  services.ErrorKind(err),
	})
}
