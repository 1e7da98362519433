package repository

import (
	"database/sql"
	"fmt"

	"storynest/internal/database"
	"storynest/internal/models"
)

// ParentRepository handles database operations for parent accounts
type ParentRepository struct {
	db *database.DB
}

// NewParentRepository creates a new parent repository
func NewParentRepository(db *database.DB) *ParentRepository {
	return &ParentRepository{db: db}
}

// GetParentByID retrieves a parent by ID
func (r *ParentRepository) GetParentByID(parentID int64) (*models.Parent, error) {
	query := "SELECT id, email, name, created_at, updated_at FROM parents WHERE id = ?"
	parent := &models.Parent{}
	err := r.db.QueryRow(query, parentID).Scan(
		&parent.ID,
		&parent.Email,
		&parent.Name,
		&parent.CreatedAt,
		&parent.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get parent: %w", err)
	}

	return parent, nil
}
