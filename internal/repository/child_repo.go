package repository

import (
	"database/sql"
	"fmt"

	"storynest/internal/database"
	"storynest/internal/models"
)

// ChildRepository handles database operations for child profiles
type ChildRepository struct {
	db *database.DB
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *database.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

// GetChildByID retrieves a child by ID
func (r *ChildRepository) GetChildByID(childID int64) (*models.Child, error) {
	query := `
		SELECT id, parent_id, name, is_active, age_group_id, created_at, updated_at
		FROM children
		WHERE id = ?
	`
	child := &models.Child{}
	var ageGroupID sql.NullInt64

	err := r.db.QueryRow(query, childID).Scan(
		&child.ID,
		&child.ParentID,
		&child.Name,
		&child.IsActive,
		&ageGroupID,
		&child.CreatedAt,
		&child.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}

	if ageGroupID.Valid {
		child.AgeGroupID = &ageGroupID.Int64
	}

	return child, nil
}

// GetParentChildren retrieves all children belonging to a parent
func (r *ChildRepository) GetParentChildren(parentID int64) ([]models.Child, error) {
	query := `
		SELECT id, parent_id, name, is_active, age_group_id, created_at, updated_at
		FROM children
		WHERE parent_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var children []models.Child
	for rows.Next() {
		var child models.Child
		var ageGroupID sql.NullInt64
		if err := rows.Scan(
			&child.ID,
			&child.ParentID,
			&child.Name,
			&child.IsActive,
			&ageGroupID,
			&child.CreatedAt,
			&child.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		if ageGroupID.Valid {
			child.AgeGroupID = &ageGroupID.Int64
		}
		children = append(children, child)
	}

	return children, rows.Err()
}
