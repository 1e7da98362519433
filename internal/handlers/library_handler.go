package handlers

import (
	"net/http"
	"strconv"

	"storynest/internal/service"
)

// LibraryHandler serves the child-facing catalog endpoints
type LibraryHandler struct {
	library *service.LibraryService
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(library *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// GetLibrary handles GET /api/child/library
func (h *LibraryHandler) GetLibrary(w http.ResponseWriter, r *http.Request) {
	childID := ChildIDFromContext(r.Context())

	result, err := h.library.ListAllowedBooks(childID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toLibraryView(result))
}

// GetBook handles GET /api/child/books/{bookId}
func (h *LibraryHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	childID := ChildIDFromContext(r.Context())
	bookID, ok := pathID(w, r, "bookId")
	if !ok {
		return
	}

	book, err := h.library.GetBookIfAllowed(childID, bookID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBookView(*book))
}

// GetPages handles GET /api/child/books/{bookId}/pages
func (h *LibraryHandler) GetPages(w http.ResponseWriter, r *http.Request) {
	childID := ChildIDFromContext(r.Context())
	bookID, ok := pathID(w, r, "bookId")
	if !ok {
		return
	}

	pages, err := h.library.GetPagesIfAllowed(childID, bookID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageViews(pages))
}

// pathID parses a numeric path parameter, writing a validation error on
// malformed input
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, CodeValidationError, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
