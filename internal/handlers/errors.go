package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"storynest/internal/service"
	"storynest/internal/validation"
)

// API error codes returned in the "code" field of error responses
const (
	CodeValidationError   = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeNotAllowed        = "NOT_ALLOWED"
	CodeScheduleBlocked   = "SCHEDULE_BLOCKED"
	CodeDailyLimitReached = "DAILY_LIMIT_REACHED"
	CodeSessionEnded      = "SESSION_ENDED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL_ERROR"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// respondWithServiceError maps service-layer errors onto HTTP statuses and
// API error codes. Unrecognized errors become opaque 500s with the detail
// kept in the server log.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var validationErr validation.ValidationError
	if errors.As(err, &validationErr) {
		respondWithError(w, http.StatusBadRequest, CodeValidationError, validationErr.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrChildNotFound),
		errors.Is(err, service.ErrBookNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		respondWithError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, service.ErrChildInactive),
		errors.Is(err, service.ErrBookNotAllowed):
		respondWithError(w, http.StatusForbidden, CodeNotAllowed, err.Error())
	case errors.Is(err, service.ErrScheduleBlocked):
		respondWithError(w, http.StatusForbidden, CodeScheduleBlocked, err.Error())
	case errors.Is(err, service.ErrDailyLimitReached):
		respondWithError(w, http.StatusForbidden, CodeDailyLimitReached, err.Error())
	case errors.Is(err, service.ErrSessionEnded):
		respondWithError(w, http.StatusConflict, CodeSessionEnded, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}
