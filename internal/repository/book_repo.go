package repository

import (
	"database/sql"
	"fmt"

	"storynest/internal/database"
	"storynest/internal/models"
)

// BookRepository handles read-only database operations for books. Authoring,
// approval and upload live in a separate admin surface.
type BookRepository struct {
	db *database.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *database.DB) *BookRepository {
	return &BookRepository{db: db}
}

// GetBookByID retrieves a book by ID with its category references loaded
func (r *BookRepository) GetBookByID(bookID int64) (*models.Book, error) {
	query := `
		SELECT id, title, author, status, visibility, is_approved, age_group_id,
		       page_count, cover_url, published_at, created_at, updated_at
		FROM books
		WHERE id = ?
	`
	book := &models.Book{}
	var ageGroupID sql.NullInt64
	var publishedAt sql.NullTime

	err := r.db.QueryRow(query, bookID).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Status,
		&book.Visibility,
		&book.IsApproved,
		&ageGroupID,
		&book.PageCount,
		&book.CoverURL,
		&publishedAt,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if ageGroupID.Valid {
		book.AgeGroupID = &ageGroupID.Int64
	}
	if publishedAt.Valid {
		book.PublishedAt = &publishedAt.Time
	}

	categoryIDs, err := r.getCategoryIDs(bookID)
	if err != nil {
		return nil, err
	}
	book.CategoryIDs = categoryIDs

	return book, nil
}

// GetPages retrieves the pages of a book in reading order
func (r *BookRepository) GetPages(bookID int64) ([]models.BookPage, error) {
	query := `
		SELECT book_id, page_index, content, image_url
		FROM book_pages
		WHERE book_id = ?
		ORDER BY page_index ASC
	`
	rows, err := r.db.Query(query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []models.BookPage
	for rows.Next() {
		var page models.BookPage
		if err := rows.Scan(&page.BookID, &page.PageIndex, &page.Content, &page.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}

	return pages, rows.Err()
}

// ListEligible retrieves every published, public, approved book that passes
// the policy's allowlists, newest published first. This is the batch form of
// the per-book authorization check used by the child library.
func (r *BookRepository) ListEligible(policy *models.Policy) ([]models.Book, error) {
	query := `
		SELECT id, title, author, status, visibility, is_approved, age_group_id,
		       page_count, cover_url, published_at, created_at, updated_at
		FROM books
		WHERE status = ? AND visibility = ? AND is_approved = ?
	`
	args := []interface{}{models.BookStatusPublished, models.BookVisibilityPublic, true}

	if policy.RestrictsAgeGroups() {
		query += fmt.Sprintf(" AND age_group_id IN (%s)", placeholders(len(policy.AllowedAgeGroupIDs)))
		args = append(args, int64Args(policy.AllowedAgeGroupIDs)...)
	}

	if policy.RestrictsCategories() {
		query += fmt.Sprintf(
			" AND id IN (SELECT book_id FROM book_categories WHERE category_id IN (%s))",
			placeholders(len(policy.AllowedCategoryIDs)),
		)
		args = append(args, int64Args(policy.AllowedCategoryIDs)...)
	}

	query += " ORDER BY published_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var book models.Book
		var ageGroupID sql.NullInt64
		var publishedAt sql.NullTime
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Status,
			&book.Visibility,
			&book.IsApproved,
			&ageGroupID,
			&book.PageCount,
			&book.CoverURL,
			&publishedAt,
			&book.CreatedAt,
			&book.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		if ageGroupID.Valid {
			book.AgeGroupID = &ageGroupID.Int64
		}
		if publishedAt.Valid {
			book.PublishedAt = &publishedAt.Time
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadCategoryIDs(books); err != nil {
		return nil, err
	}

	return books, nil
}

// getCategoryIDs loads the category references of a single book
func (r *BookRepository) getCategoryIDs(bookID int64) ([]int64, error) {
	query := "SELECT category_id FROM book_categories WHERE book_id = ? ORDER BY category_id ASC"
	rows, err := r.db.Query(query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query book categories: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan category id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// loadCategoryIDs fills CategoryIDs for a batch of books with one query
func (r *BookRepository) loadCategoryIDs(books []models.Book) error {
	if len(books) == 0 {
		return nil
	}

	bookIDs := make([]int64, len(books))
	index := make(map[int64]*models.Book, len(books))
	for i := range books {
		bookIDs[i] = books[i].ID
		index[books[i].ID] = &books[i]
	}

	query := fmt.Sprintf(
		"SELECT book_id, category_id FROM book_categories WHERE book_id IN (%s)",
		placeholders(len(bookIDs)),
	)
	rows, err := r.db.Query(query, int64Args(bookIDs)...)
	if err != nil {
		return fmt.Errorf("failed to query book categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID, categoryID int64
		if err := rows.Scan(&bookID, &categoryID); err != nil {
			return fmt.Errorf("failed to scan book category: %w", err)
		}
		if book, ok := index[bookID]; ok {
			book.CategoryIDs = append(book.CategoryIDs, categoryID)
		}
	}

	return rows.Err()
}
