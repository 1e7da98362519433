package models

import "time"

// DefaultDailyLimitMinutes is applied when a policy is lazily created
const DefaultDailyLimitMinutes = 60

// Daily limit bounds in minutes
const (
	MinDailyLimitMinutes = 1
	MaxDailyLimitMinutes = 600
)

// ScheduleWindow is a daily wall-clock window during which reading is
// permitted. Start and End are HH:mm strings; a window with Start > End
// wraps midnight.
type ScheduleWindow struct {
	Start string
	End   string
}

// Policy holds the per-child access rules: content allowlists, the daily
// reading quota and an optional schedule window. Exactly one policy exists
// per child once first accessed. Empty allowlists mean "no restriction".
type Policy struct {
	ID                 int64
	ChildID            int64
	AllowedCategoryIDs []int64
	AllowedAgeGroupIDs []int64
	DailyLimitMinutes  int
	Schedule           *ScheduleWindow
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DefaultPolicy returns the policy created on first access for a child:
// no category or age-group restriction, default daily limit, no schedule.
func DefaultPolicy(childID int64) *Policy {
	return &Policy{
		ChildID:           childID,
		DailyLimitMinutes: DefaultDailyLimitMinutes,
	}
}

// RestrictsCategories reports whether the category allowlist is in effect
func (p *Policy) RestrictsCategories() bool {
	return len(p.AllowedCategoryIDs) > 0
}

// RestrictsAgeGroups reports whether the age-group allowlist is in effect
func (p *Policy) RestrictsAgeGroups() bool {
	return len(p.AllowedAgeGroupIDs) > 0
}

// AllowsCategoryOf reports whether the book passes the category allowlist.
// An empty allowlist allows every book.
func (p *Policy) AllowsCategoryOf(book *Book) bool {
	if !p.RestrictsCategories() {
		return true
	}
	for _, allowed := range p.AllowedCategoryIDs {
		for _, have := range book.CategoryIDs {
			if allowed == have {
				return true
			}
		}
	}
	return false
}

// AllowsAgeGroupOf reports whether the book passes the age-group allowlist.
// An empty allowlist allows every book; a book without an age group only
// passes when the allowlist is empty.
func (p *Policy) AllowsAgeGroupOf(book *Book) bool {
	if !p.RestrictsAgeGroups() {
		return true
	}
	if book.AgeGroupID == nil {
		return false
	}
	for _, allowed := range p.AllowedAgeGroupIDs {
		if allowed == *book.AgeGroupID {
			return true
		}
	}
	return false
}
