package repository

import (
	"database/sql"
	"fmt"

	"storynest/internal/database"
	"storynest/internal/models"
)

// PolicyRepository handles database operations for per-child access policies
type PolicyRepository struct {
	db *database.DB
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *database.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// GetByChildID retrieves the policy for a child, with allowlists loaded
func (r *PolicyRepository) GetByChildID(childID int64) (*models.Policy, error) {
	query := `
		SELECT id, child_id, daily_limit_minutes, schedule_start, schedule_end,
		       created_at, updated_at
		FROM policies
		WHERE child_id = ?
	`
	policy := &models.Policy{}
	var scheduleStart, scheduleEnd sql.NullString

	err := r.db.QueryRow(query, childID).Scan(
		&policy.ID,
		&policy.ChildID,
		&policy.DailyLimitMinutes,
		&scheduleStart,
		&scheduleEnd,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}

	if scheduleStart.Valid && scheduleEnd.Valid {
		policy.Schedule = &models.ScheduleWindow{
			Start: scheduleStart.String,
			End:   scheduleEnd.String,
		}
	}

	if err := r.loadAllowlists(policy); err != nil {
		return nil, err
	}

	return policy, nil
}

// GetOrCreate returns the child's policy, lazily creating one with safe
// defaults on first access. Concurrent first accesses race on the insert;
// the UNIQUE constraint on child_id makes the loser re-read the winning row
// instead of creating a second policy.
func (r *PolicyRepository) GetOrCreate(childID int64) (*models.Policy, error) {
	policy, err := r.GetByChildID(childID)
	if err != nil {
		return nil, err
	}
	if policy != nil {
		return policy, nil
	}

	query := "INSERT INTO policies (child_id, daily_limit_minutes) VALUES (?, ?)"
	_, err = r.db.Exec(query, childID, models.DefaultDailyLimitMinutes)
	if err != nil && !r.db.Dialect.IsUniqueViolation(err) {
		return nil, fmt.Errorf("failed to create policy: %w", err)
	}

	policy, err = r.GetByChildID(childID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, fmt.Errorf("policy for child %d missing after create", childID)
	}

	return policy, nil
}

// Update persists the policy row and replaces both allowlists atomically
func (r *PolicyRepository) Update(policy *models.Policy) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var scheduleStart, scheduleEnd interface{}
	if policy.Schedule != nil {
		scheduleStart = policy.Schedule.Start
		scheduleEnd = policy.Schedule.End
	}

	query := `
		UPDATE policies
		SET daily_limit_minutes = ?, schedule_start = ?, schedule_end = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	if _, err := tx.Exec(query, policy.DailyLimitMinutes, scheduleStart, scheduleEnd, policy.ID); err != nil {
		return fmt.Errorf("failed to update policy: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM policy_allowed_categories WHERE policy_id = ?", policy.ID); err != nil {
		return fmt.Errorf("failed to clear category allowlist: %w", err)
	}
	for _, categoryID := range policy.AllowedCategoryIDs {
		insert := "INSERT INTO policy_allowed_categories (policy_id, category_id) VALUES (?, ?)"
		if _, err := tx.Exec(insert, policy.ID, categoryID); err != nil {
			return fmt.Errorf("failed to insert allowed category: %w", err)
		}
	}

	if _, err := tx.Exec("DELETE FROM policy_allowed_age_groups WHERE policy_id = ?", policy.ID); err != nil {
		return fmt.Errorf("failed to clear age-group allowlist: %w", err)
	}
	for _, ageGroupID := range policy.AllowedAgeGroupIDs {
		insert := "INSERT INTO policy_allowed_age_groups (policy_id, age_group_id) VALUES (?, ?)"
		if _, err := tx.Exec(insert, policy.ID, ageGroupID); err != nil {
			return fmt.Errorf("failed to insert allowed age group: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit policy update: %w", err)
	}

	return nil
}

// loadAllowlists fills the policy's category and age-group allowlists
func (r *PolicyRepository) loadAllowlists(policy *models.Policy) error {
	rows, err := r.db.Query(
		"SELECT category_id FROM policy_allowed_categories WHERE policy_id = ? ORDER BY category_id ASC",
		policy.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query category allowlist: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan allowed category: %w", err)
		}
		policy.AllowedCategoryIDs = append(policy.AllowedCategoryIDs, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	groupRows, err := r.db.Query(
		"SELECT age_group_id FROM policy_allowed_age_groups WHERE policy_id = ? ORDER BY age_group_id ASC",
		policy.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query age-group allowlist: %w", err)
	}
	defer groupRows.Close()

	for groupRows.Next() {
		var id int64
		if err := groupRows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan allowed age group: %w", err)
		}
		policy.AllowedAgeGroupIDs = append(policy.AllowedAgeGroupIDs, id)
	}

	return groupRows.Err()
}
