package service

import (
	"time"

	"storynest/internal/models"
)

// The store interfaces declare what each service needs from the repository
// layer. Repositories satisfy them directly; tests use in-package fakes.

// ParentStore provides parent account lookups
type ParentStore interface {
	GetParentByID(parentID int64) (*models.Parent, error)
}

// ChildStore provides child profile lookups
type ChildStore interface {
	GetChildByID(childID int64) (*models.Child, error)
}

// PolicyStore provides policy persistence
type PolicyStore interface {
	GetOrCreate(childID int64) (*models.Policy, error)
	Update(policy *models.Policy) error
}

// BookStore provides catalog reads
type BookStore interface {
	GetBookByID(bookID int64) (*models.Book, error)
	GetPages(bookID int64) ([]models.BookPage, error)
	ListEligible(policy *models.Policy) ([]models.Book, error)
}

// TaxonomyStore provides category and age-group lookups
type TaxonomyStore interface {
	MissingCategoryIDs(ids []int64) ([]int64, error)
	MissingAgeGroupIDs(ids []int64) ([]int64, error)
	GetCategoriesByIDs(ids []int64) ([]models.Category, error)
}

// SessionStore provides reading-session persistence
type SessionStore interface {
	GetSessionByID(sessionID string) (*models.ReadingSession, error)
	GetOpenSession(childID, bookID int64) (*models.ReadingSession, error)
	GetLatestEndedSession(childID, bookID int64) (*models.ReadingSession, error)
	CreateSession(session *models.ReadingSession) error
	AppendProgress(sessionID string, pageIndex int, at time.Time) error
	CountPagesRead(sessionID string) (int, error)
	FinalizeSession(sessionID string, endedAt time.Time, minutes int) (bool, error)
	MinutesConsumedSince(childID int64, since time.Time) (int, error)
	ListIdleOpenSessionIDs(cutoff time.Time) ([]string, error)
}
