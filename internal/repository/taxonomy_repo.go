package repository

import (
	"fmt"

	"storynest/internal/database"
	"storynest/internal/models"
)

// TaxonomyRepository handles database operations for categories and age groups
type TaxonomyRepository struct {
	db *database.DB
}

// NewTaxonomyRepository creates a new taxonomy repository
func NewTaxonomyRepository(db *database.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

// MissingCategoryIDs returns the subset of ids that reference no existing category
func (r *TaxonomyRepository) MissingCategoryIDs(ids []int64) ([]int64, error) {
	return r.missingIDs("categories", ids)
}

// MissingAgeGroupIDs returns the subset of ids that reference no existing age group
func (r *TaxonomyRepository) MissingAgeGroupIDs(ids []int64) ([]int64, error) {
	return r.missingIDs("age_groups", ids)
}

func (r *TaxonomyRepository) missingIDs(table string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT id FROM %s WHERE id IN (%s)", table, placeholders(len(ids)))
	rows, err := r.db.Query(query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	found := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	seen := make(map[int64]bool)
	for _, id := range ids {
		if !found[id] && !seen[id] {
			missing = append(missing, id)
			seen[id] = true
		}
	}

	return missing, nil
}

// GetCategoriesByIDs retrieves categories by id, sorted by name
func (r *TaxonomyRepository) GetCategoriesByIDs(ids []int64) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(
		"SELECT id, name, slug FROM categories WHERE id IN (%s) ORDER BY name ASC",
		placeholders(len(ids)),
	)
	rows, err := r.db.Query(query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}

// SeedDefaults inserts the starter age groups and categories if they are
// not present yet. Safe to call on every boot.
func (r *TaxonomyRepository) SeedDefaults() error {
	ageGroups := []models.AgeGroup{
		{Name: "3-5", MinAge: 3, MaxAge: 5},
		{Name: "6-8", MinAge: 6, MaxAge: 8},
		{Name: "9-12", MinAge: 9, MaxAge: 12},
	}

	suffix := r.db.Dialect.ConflictIgnoreSuffix("name")
	for _, group := range ageGroups {
		query := "INSERT INTO age_groups (name, min_age, max_age) VALUES (?, ?, ?) " + suffix
		if _, err := r.db.Exec(query, group.Name, group.MinAge, group.MaxAge); err != nil {
			return fmt.Errorf("failed to seed age group %s: %w", group.Name, err)
		}
	}

	categories := []models.Category{
		{Name: "Animals", Slug: "animals"},
		{Name: "Adventure", Slug: "adventure"},
		{Name: "Bedtime", Slug: "bedtime"},
		{Name: "Fairy Tales", Slug: "fairy-tales"},
		{Name: "Science", Slug: "science"},
	}

	for _, category := range categories {
		query := "INSERT INTO categories (name, slug) VALUES (?, ?) " + suffix
		if _, err := r.db.Exec(query, category.Name, category.Slug); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Name, err)
		}
	}

	return nil
}
