package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fouad-abdeen/SocialApp-Server/internal/service"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError sends a JSON error body with the given status code.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeServiceError maps service sentinels to HTTP status codes. Unmapped
// errors are reported as a generic 500 to avoid leaking internals.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrUnauthorized):
		WriteError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		WriteError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrConflict):
		WriteError(w, err.Error(), http.StatusConflict)
	default:
		WriteError(w, "something went wrong", http.StatusInternalServerError)
	}
}
