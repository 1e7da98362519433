package service

import (
	"fmt"
	"time"

	"storynest/internal/models"
)

// AccessService enforces the per-child reading gates: the schedule window,
// the daily minute quota and the content allowlists. Every child-facing
// operation funnels through it.
type AccessService struct {
	childStore   ChildStore
	policyStore  PolicyStore
	bookStore    BookStore
	sessionStore SessionStore
	clock        Clock
}

// NewAccessService creates a new access service
func NewAccessService(childStore ChildStore, policyStore PolicyStore, bookStore BookStore, sessionStore SessionStore, clock Clock) *AccessService {
	return &AccessService{
		childStore:   childStore,
		policyStore:  policyStore,
		bookStore:    bookStore,
		sessionStore: sessionStore,
		clock:        clock,
	}
}

// GetActiveChild loads a child profile and rejects missing or deactivated ones
func (s *AccessService) GetActiveChild(childID int64) (*models.Child, error) {
	child, err := s.childStore.GetChildByID(childID)
	if err != nil {
		return nil, fmt.Errorf("failed to load child: %w", err)
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	if !child.IsActive {
		return nil, ErrChildInactive
	}
	return child, nil
}

// MinutesConsumedToday sums the minutes charged against the child's quota
// for sessions started since the current UTC day began. Only ended sessions
// count; an open one consumes nothing until finalized.
func (s *AccessService) MinutesConsumedToday(childID int64) (int, error) {
	return s.sessionStore.MinutesConsumedSince(childID, startOfUTCDay(s.clock.Now()))
}

// AssertCanReadNow checks the schedule window and daily quota for a child,
// loading (and lazily creating) their policy on the way. Returns the policy
// and today's consumed minutes so callers don't query them twice.
func (s *AccessService) AssertCanReadNow(childID int64) (*models.Policy, int, error) {
	policy, err := s.policyStore.GetOrCreate(childID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load policy: %w", err)
	}

	if !WithinSchedule(policy.Schedule, s.clock.Now()) {
		return policy, 0, ErrScheduleBlocked
	}

	consumed, err := s.MinutesConsumedToday(childID)
	if err != nil {
		return policy, 0, fmt.Errorf("failed to sum today's minutes: %w", err)
	}
	if consumed >= policy.DailyLimitMinutes {
		return policy, consumed, ErrDailyLimitReached
	}

	return policy, consumed, nil
}

// GetAllowedBook loads a book and checks it against the child's policy.
// Books that fail the catalog gates (unpublished, private, unapproved) are
// reported as not found; books that fail the allowlists as not allowed.
func (s *AccessService) GetAllowedBook(bookID int64, policy *models.Policy) (*models.Book, error) {
	book, err := s.bookStore.GetBookByID(bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	if book == nil || !book.IsEligibleForChildren() {
		return nil, ErrBookNotFound
	}
	if !policy.AllowsCategoryOf(book) || !policy.AllowsAgeGroupOf(book) {
		return nil, ErrBookNotAllowed
	}
	return book, nil
}

// startOfUTCDay truncates an instant to the UTC midnight that began its day.
// Quota days roll over at 00:00 UTC for every child.
func startOfUTCDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
