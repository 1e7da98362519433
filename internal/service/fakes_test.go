package service

import (
	"context"
	"fmt"
	"time"

	"storynest/internal/models"
	"storynest/internal/repository"
)

// In-memory store fakes shared by the service tests.

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type fakeChildStore struct {
	children map[int64]*models.Child
}

func (s *fakeChildStore) GetChildByID(childID int64) (*models.Child, error) {
	return s.children[childID], nil
}

type fakeParentStore struct {
	parents map[int64]*models.Parent
}

func (s *fakeParentStore) GetParentByID(parentID int64) (*models.Parent, error) {
	return s.parents[parentID], nil
}

type fakePolicyStore struct {
	policies map[int64]*models.Policy
	nextID   int64
}

func newFakePolicyStore() *fakePolicyStore {
	return &fakePolicyStore{policies: make(map[int64]*models.Policy)}
}

func (s *fakePolicyStore) GetOrCreate(childID int64) (*models.Policy, error) {
	if policy, ok := s.policies[childID]; ok {
		return policy, nil
	}
	s.nextID++
	policy := models.DefaultPolicy(childID)
	policy.ID = s.nextID
	s.policies[childID] = policy
	return policy, nil
}

func (s *fakePolicyStore) Update(policy *models.Policy) error {
	s.policies[policy.ChildID] = policy
	return nil
}

type fakeBookStore struct {
	books map[int64]*models.Book
	pages map[int64][]models.BookPage
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{
		books: make(map[int64]*models.Book),
		pages: make(map[int64][]models.BookPage),
	}
}

func (s *fakeBookStore) GetBookByID(bookID int64) (*models.Book, error) {
	return s.books[bookID], nil
}

func (s *fakeBookStore) GetPages(bookID int64) ([]models.BookPage, error) {
	return s.pages[bookID], nil
}

func (s *fakeBookStore) ListEligible(policy *models.Policy) ([]models.Book, error) {
	var books []models.Book
	for _, book := range s.books {
		if !book.IsEligibleForChildren() {
			continue
		}
		if !policy.AllowsCategoryOf(book) || !policy.AllowsAgeGroupOf(book) {
			continue
		}
		books = append(books, *book)
	}
	return books, nil
}

type fakeTaxonomyStore struct {
	categories map[int64]models.Category
	ageGroups  map[int64]bool
}

func newFakeTaxonomyStore() *fakeTaxonomyStore {
	return &fakeTaxonomyStore{
		categories: make(map[int64]models.Category),
		ageGroups:  make(map[int64]bool),
	}
}

func (s *fakeTaxonomyStore) MissingCategoryIDs(ids []int64) ([]int64, error) {
	var missing []int64
	for _, id := range ids {
		if _, ok := s.categories[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (s *fakeTaxonomyStore) MissingAgeGroupIDs(ids []int64) ([]int64, error) {
	var missing []int64
	for _, id := range ids {
		if !s.ageGroups[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (s *fakeTaxonomyStore) GetCategoriesByIDs(ids []int64) ([]models.Category, error) {
	var categories []models.Category
	for _, id := range ids {
		if category, ok := s.categories[id]; ok {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

type fakeSessionStore struct {
	sessions map[string]*models.ReadingSession
	nextID   int64
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.ReadingSession)}
}

func (s *fakeSessionStore) GetSessionByID(sessionID string) (*models.ReadingSession, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (s *fakeSessionStore) GetOpenSession(childID, bookID int64) (*models.ReadingSession, error) {
	for _, session := range s.sessions {
		if session.ChildID == childID && session.BookID == bookID && session.IsOpen() {
			copied := *session
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeSessionStore) GetLatestEndedSession(childID, bookID int64) (*models.ReadingSession, error) {
	var latest *models.ReadingSession
	for _, session := range s.sessions {
		if session.ChildID != childID || session.BookID != bookID || session.IsOpen() {
			continue
		}
		if latest == nil || session.EndedAt.After(*latest.EndedAt) {
			latest = session
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (s *fakeSessionStore) CreateSession(session *models.ReadingSession) error {
	for _, existing := range s.sessions {
		if existing.ChildID == session.ChildID && existing.BookID == session.BookID && existing.IsOpen() {
			return repository.ErrOpenSessionExists
		}
	}
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *fakeSessionStore) AppendProgress(sessionID string, pageIndex int, at time.Time) error {
	session, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %s not found", sessionID)
	}
	s.nextID++
	session.Events = append(session.Events, models.ProgressEvent{
		ID:         s.nextID,
		SessionID:  sessionID,
		PageIndex:  pageIndex,
		OccurredAt: at,
	})
	for _, page := range session.PagesRead {
		if page == pageIndex {
			return nil
		}
	}
	session.PagesRead = append(session.PagesRead, pageIndex)
	return nil
}

func (s *fakeSessionStore) CountPagesRead(sessionID string) (int, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return 0, nil
	}
	return len(session.PagesRead), nil
}

func (s *fakeSessionStore) FinalizeSession(sessionID string, endedAt time.Time, minutes int) (bool, error) {
	session, ok := s.sessions[sessionID]
	if !ok || !session.IsOpen() {
		return false, nil
	}
	ended := endedAt
	session.EndedAt = &ended
	session.Minutes = minutes
	return true, nil
}

func (s *fakeSessionStore) MinutesConsumedSince(childID int64, since time.Time) (int, error) {
	total := 0
	for _, session := range s.sessions {
		if session.ChildID == childID && session.EndedAt != nil && !session.StartedAt.Before(since) {
			total += session.Minutes
		}
	}
	return total, nil
}

func (s *fakeSessionStore) ListIdleOpenSessionIDs(cutoff time.Time) ([]string, error) {
	var ids []string
	for id, session := range s.sessions {
		if session.IsOpen() && session.LastActivityAt().Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeNotifier struct {
	sent []string
}

func (n *fakeNotifier) IsEnabled() bool {
	return true
}

func (n *fakeNotifier) SendDailyLimitEmail(ctx context.Context, toEmail, toName, childName string, limitMinutes int) error {
	n.sent = append(n.sent, toEmail)
	return nil
}
