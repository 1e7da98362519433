package models

import "time"

// Book statuses
const (
	BookStatusDraft     = "draft"
	BookStatusPublished = "published"
	BookStatusArchived  = "archived"
)

// Book visibility values
const (
	BookVisibilityPrivate = "private"
	BookVisibilityPublic  = "public"
)

// Book represents a book in the catalog. The reading core treats books as
// read-only; authoring and approval happen elsewhere.
type Book struct {
	ID          int64
	Title       string
	Author      string
	Status      string
	Visibility  string
	IsApproved  bool
	AgeGroupID  *int64
	CategoryIDs []int64
	PageCount   int
	CoverURL    string
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsEligibleForChildren reports whether the book can ever be shown to a child,
// regardless of any per-child policy
func (b *Book) IsEligibleForChildren() bool {
	return b.Status == BookStatusPublished &&
		b.Visibility == BookVisibilityPublic &&
		b.IsApproved
}

// BookPage is a single page of book content
type BookPage struct {
	BookID    int64
	PageIndex int
	Content   string
	ImageURL  string
}
