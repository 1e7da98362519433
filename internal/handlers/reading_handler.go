package handlers

import (
	"encoding/json"
	"net/http"

	"storynest/internal/service"
)

// ReadingHandler serves the reading session lifecycle endpoints
type ReadingHandler struct {
	reading *service.ReadingService
}

// NewReadingHandler creates a new reading handler
func NewReadingHandler(reading *service.ReadingService) *ReadingHandler {
	return &ReadingHandler{reading: reading}
}

// StartReading handles POST /api/child/reading/start/{bookId}
func (h *ReadingHandler) StartReading(w http.ResponseWriter, r *http.Request) {
	childID := ChildIDFromContext(r.Context())
	bookID, ok := pathID(w, r, "bookId")
	if !ok {
		return
	}

	result, err := h.reading.StartReading(childID, bookID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

type progressRequest struct {
	PageIndex *int `json:"pageIndex"`
}

// TrackProgress handles POST /api/child/reading/{sessionId}/progress
func (h *ReadingHandler) TrackProgress(w http.ResponseWriter, r *http.Request) {
	childID := ChildIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PageIndex == nil {
		respondWithError(w, http.StatusBadRequest, CodeValidationError, "pageIndex is required")
		return
	}

	result, err := h.reading.TrackProgress(childID, sessionID, *req.PageIndex)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// EndReading handles POST /api/child/reading/{sessionId}/end
func (h *ReadingHandler) EndReading(w http.ResponseWriter, r *http.Request) {
	childID := ChildIDFromContext(r.Context())
	sessionID := r.PathValue("sessionId")

	result, err := h.reading.EndReading(childID, sessionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetResume handles GET /api/child/books/{bookId}/resume
func (h *ReadingHandler) GetResume(w http.ResponseWriter, r *http.Request) {
	childID := ChildIDFromContext(r.Context())
	bookID, ok := pathID(w, r, "bookId")
	if !ok {
		return
	}

	state, err := h.reading.GetResumeState(childID, bookID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}
