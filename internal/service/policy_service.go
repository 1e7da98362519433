package service

import (
	"fmt"

	"storynest/internal/models"
	"storynest/internal/validation"
)

// PolicyService manages per-child policies on behalf of parents
type PolicyService struct {
	childStore    ChildStore
	policyStore   PolicyStore
	taxonomyStore TaxonomyStore
}

// NewPolicyService creates a new policy service
func NewPolicyService(childStore ChildStore, policyStore PolicyStore, taxonomyStore TaxonomyStore) *PolicyService {
	return &PolicyService{
		childStore:    childStore,
		policyStore:   policyStore,
		taxonomyStore: taxonomyStore,
	}
}

// PolicyUpdate carries a partial policy change. Nil fields are left as they
// are; ClearSchedule removes the window entirely and wins over Schedule.
type PolicyUpdate struct {
	AllowedCategoryIDs *[]int64
	AllowedAgeGroupIDs *[]int64
	DailyLimitMinutes  *int
	Schedule           *models.ScheduleWindow
	ClearSchedule      bool
}

// GetPolicy returns the policy of a child belonging to the parent, creating
// it with defaults on first access
func (s *PolicyService) GetPolicy(parentID, childID int64) (*models.Policy, error) {
	if err := s.assertOwnership(parentID, childID); err != nil {
		return nil, err
	}
	policy, err := s.policyStore.GetOrCreate(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	return policy, nil
}

// UpdatePolicy validates and applies a partial policy change, returning the
// updated policy
func (s *PolicyService) UpdatePolicy(parentID, childID int64, update PolicyUpdate) (*models.Policy, error) {
	if err := s.assertOwnership(parentID, childID); err != nil {
		return nil, err
	}

	if err := s.validateUpdate(update); err != nil {
		return nil, err
	}

	policy, err := s.policyStore.GetOrCreate(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	if update.AllowedCategoryIDs != nil {
		policy.AllowedCategoryIDs = *update.AllowedCategoryIDs
	}
	if update.AllowedAgeGroupIDs != nil {
		policy.AllowedAgeGroupIDs = *update.AllowedAgeGroupIDs
	}
	if update.DailyLimitMinutes != nil {
		policy.DailyLimitMinutes = *update.DailyLimitMinutes
	}
	if update.ClearSchedule {
		policy.Schedule = nil
	} else if update.Schedule != nil {
		policy.Schedule = update.Schedule
	}

	if err := s.policyStore.Update(policy); err != nil {
		return nil, fmt.Errorf("failed to save policy: %w", err)
	}

	return policy, nil
}

// assertOwnership checks the child exists and belongs to the parent. A child
// owned by someone else looks identical to a missing one.
func (s *PolicyService) assertOwnership(parentID, childID int64) error {
	child, err := s.childStore.GetChildByID(childID)
	if err != nil {
		return fmt.Errorf("failed to load child: %w", err)
	}
	if child == nil || child.ParentID != parentID {
		return ErrChildNotFound
	}
	return nil
}

func (s *PolicyService) validateUpdate(update PolicyUpdate) error {
	if update.DailyLimitMinutes != nil {
		if err := validation.ValidateDailyLimit(*update.DailyLimitMinutes); err != nil {
			return err
		}
	}

	if update.Schedule != nil && !update.ClearSchedule {
		if err := validation.ValidateClockTime("schedule.start", update.Schedule.Start); err != nil {
			return err
		}
		if err := validation.ValidateClockTime("schedule.end", update.Schedule.End); err != nil {
			return err
		}
	}

	if update.AllowedCategoryIDs != nil {
		missing, err := s.taxonomyStore.MissingCategoryIDs(*update.AllowedCategoryIDs)
		if err != nil {
			return fmt.Errorf("failed to check category ids: %w", err)
		}
		if len(missing) > 0 {
			return validation.UnknownIDsError("allowedCategoryIds", missing)
		}
	}

	if update.AllowedAgeGroupIDs != nil {
		missing, err := s.taxonomyStore.MissingAgeGroupIDs(*update.AllowedAgeGroupIDs)
		if err != nil {
			return fmt.Errorf("failed to check age-group ids: %w", err)
		}
		if len(missing) > 0 {
			return validation.UnknownIDsError("allowedAgeGroupIds", missing)
		}
	}

	return nil
}
