package service

import (
	"fmt"

	"storynest/internal/models"
)

// LibraryService builds the child-facing view of the catalog: only books the
// child's policy allows, annotated with the quota left for today
type LibraryService struct {
	access        *AccessService
	bookStore     BookStore
	taxonomyStore TaxonomyStore
}

// NewLibraryService creates a new library service
func NewLibraryService(access *AccessService, bookStore BookStore, taxonomyStore TaxonomyStore) *LibraryService {
	return &LibraryService{
		access:        access,
		bookStore:     bookStore,
		taxonomyStore: taxonomyStore,
	}
}

// LibraryResult is the child's library view
type LibraryResult struct {
	Books            []models.Book     `json:"books"`
	Categories       []models.Category `json:"categories"`
	RemainingMinutes int               `json:"remainingMinutes"`
}

// ListAllowedBooks returns every book the child may read, the categories
// those books span, and the minutes left on today's quota. The schedule and
// quota gates apply here too: a blocked child is redirected by the client
// rather than shown an empty grid.
func (s *LibraryService) ListAllowedBooks(childID int64) (*LibraryResult, error) {
	if _, err := s.access.GetActiveChild(childID); err != nil {
		return nil, err
	}

	policy, consumed, err := s.access.AssertCanReadNow(childID)
	if err != nil {
		return nil, err
	}

	books, err := s.bookStore.ListEligible(policy)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoriesRepresented(books)
	if err != nil {
		return nil, err
	}

	remaining := policy.DailyLimitMinutes - consumed
	if remaining < 0 {
		remaining = 0
	}

	return &LibraryResult{
		Books:            books,
		Categories:       categories,
		RemainingMinutes: remaining,
	}, nil
}

// GetBookIfAllowed returns a single book's details after the content gates.
// Metadata stays visible outside the schedule window.
func (s *LibraryService) GetBookIfAllowed(childID, bookID int64) (*models.Book, error) {
	if _, err := s.access.GetActiveChild(childID); err != nil {
		return nil, err
	}

	policy, err := s.access.policyStore.GetOrCreate(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return s.access.GetAllowedBook(bookID, policy)
}

// GetPagesIfAllowed returns a book's pages. Page content is actual reading,
// so the schedule and quota gates apply in addition to the content gates.
func (s *LibraryService) GetPagesIfAllowed(childID, bookID int64) ([]models.BookPage, error) {
	if _, err := s.access.GetActiveChild(childID); err != nil {
		return nil, err
	}

	policy, _, err := s.access.AssertCanReadNow(childID)
	if err != nil {
		return nil, err
	}

	book, err := s.access.GetAllowedBook(bookID, policy)
	if err != nil {
		return nil, err
	}

	return s.bookStore.GetPages(book.ID)
}

// categoriesRepresented collects the distinct categories across the listed
// books, sorted by name
func (s *LibraryService) categoriesRepresented(books []models.Book) ([]models.Category, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, book := range books {
		for _, id := range book.CategoryIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	return s.taxonomyStore.GetCategoriesByIDs(ids)
}
