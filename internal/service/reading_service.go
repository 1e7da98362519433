package service

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"storynest/internal/models"
	"storynest/internal/repository"
	"storynest/internal/validation"
)

// DailyLimitNotifier tells a parent their child's reading quota ran out
type DailyLimitNotifier interface {
	IsEnabled() bool
	SendDailyLimitEmail(ctx context.Context, toEmail, toName, childName string, limitMinutes int) error
}

// ReadingService drives the reading session lifecycle: starting or resuming
// a session, recording page progress, and ending the session with a quota
// charge. All entry points re-check the access gates.
type ReadingService struct {
	access       *AccessService
	sessionStore SessionStore
	parentStore  ParentStore
	childStore   ChildStore
	notifier     DailyLimitNotifier
	clock        Clock
}

// NewReadingService creates a new reading service
func NewReadingService(access *AccessService, sessionStore SessionStore, parentStore ParentStore, childStore ChildStore, notifier DailyLimitNotifier, clock Clock) *ReadingService {
	return &ReadingService{
		access:       access,
		sessionStore: sessionStore,
		parentStore:  parentStore,
		childStore:   childStore,
		notifier:     notifier,
		clock:        clock,
	}
}

// StartResult is returned when a child opens a book
type StartResult struct {
	SessionID       string `json:"sessionId"`
	ResumePageIndex int    `json:"resumePageIndex"`
	Resumed         bool   `json:"resumed"`
}

// ProgressResult is returned after a page view is recorded
type ProgressResult struct {
	SessionID      string `json:"sessionId"`
	PagesReadCount int    `json:"pagesReadCount"`
}

// EndResult summarizes a finished session and the child's remaining quota
type EndResult struct {
	SessionID            string    `json:"sessionId"`
	Minutes              int       `json:"minutes"`
	PagesRead            int       `json:"pagesRead"`
	EndedAt              time.Time `json:"endedAt"`
	DailyLimitMinutes    int       `json:"dailyLimitMinutes"`
	ConsumedTodayMinutes int       `json:"consumedTodayMinutes"`
	RemainingMinutes     int       `json:"remainingMinutes"`
}

// ResumeState describes where a child left off in a book
type ResumeState struct {
	HasProgress      bool       `json:"hasProgress"`
	PageIndex        int        `json:"pageIndex"`
	SessionID        string     `json:"sessionId,omitempty"`
	HasActiveSession bool       `json:"hasActiveSession"`
	LastActivityAt   *time.Time `json:"lastActivityAt,omitempty"`
}

// StartReading opens a reading session for a child and book, after passing
// the schedule, quota and content gates. Starting a book that already has an
// open session resumes it instead of creating a second one.
func (s *ReadingService) StartReading(childID, bookID int64) (*StartResult, error) {
	child, err := s.access.GetActiveChild(childID)
	if err != nil {
		return nil, err
	}

	policy, _, err := s.access.AssertCanReadNow(childID)
	if err != nil {
		return nil, err
	}

	book, err := s.access.GetAllowedBook(bookID, policy)
	if err != nil {
		return nil, err
	}

	open, err := s.sessionStore.GetOpenSession(childID, book.ID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return &StartResult{
			SessionID:       open.ID,
			ResumePageIndex: open.ResumePageIndex(),
			Resumed:         true,
		}, nil
	}

	// Seed the landing page from the last finished read-through, if any
	resumePage := 0
	previous, err := s.sessionStore.GetLatestEndedSession(childID, book.ID)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		resumePage = previous.ResumePageIndex()
	}

	session := &models.ReadingSession{
		ID:        uuid.New().String(),
		ChildID:   childID,
		ParentID:  child.ParentID,
		BookID:    book.ID,
		StartedAt: s.clock.Now(),
	}
	if err := s.sessionStore.CreateSession(session); err != nil {
		if errors.Is(err, repository.ErrOpenSessionExists) {
			// A concurrent start won the race; resume its session
			open, err := s.sessionStore.GetOpenSession(childID, book.ID)
			if err != nil {
				return nil, err
			}
			if open != nil {
				return &StartResult{
					SessionID:       open.ID,
					ResumePageIndex: open.ResumePageIndex(),
					Resumed:         true,
				}, nil
			}
		}
		return nil, err
	}

	return &StartResult{
		SessionID:       session.ID,
		ResumePageIndex: resumePage,
		Resumed:         false,
	}, nil
}

// TrackProgress records a page view on an open session. The page set
// deduplicates repeats; the event log keeps every view for resume ordering.
func (s *ReadingService) TrackProgress(childID int64, sessionID string, pageIndex int) (*ProgressResult, error) {
	if _, err := s.access.GetActiveChild(childID); err != nil {
		return nil, err
	}

	session, err := s.getOwnedSession(childID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, ErrSessionEnded
	}

	if pageIndex < 0 {
		return nil, validation.ValidationError{Field: "pageIndex", Message: "must not be negative"}
	}
	book, err := s.access.bookStore.GetBookByID(session.BookID)
	if err != nil {
		return nil, err
	}
	if book != nil && book.PageCount > 0 && pageIndex >= book.PageCount {
		return nil, validation.ValidationError{Field: "pageIndex", Message: "exceeds the book's page count"}
	}

	if err := s.sessionStore.AppendProgress(session.ID, pageIndex, s.clock.Now()); err != nil {
		return nil, err
	}

	count, err := s.sessionStore.CountPagesRead(session.ID)
	if err != nil {
		return nil, err
	}

	return &ProgressResult{SessionID: session.ID, PagesReadCount: count}, nil
}

// EndReading closes a session and charges its minutes against today's quota.
// Ending an already-ended session returns the stored summary without
// charging again, so retries and double-taps are harmless.
func (s *ReadingService) EndReading(childID int64, sessionID string) (*EndResult, error) {
	if _, err := s.access.GetActiveChild(childID); err != nil {
		return nil, err
	}

	session, err := s.getOwnedSession(childID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return s.endResultFor(session)
	}

	endedAt := s.clock.Now()
	minutes := sessionMinutes(session.StartedAt, endedAt)

	closed, err := s.sessionStore.FinalizeSession(session.ID, endedAt, minutes)
	if err != nil {
		return nil, err
	}
	if !closed {
		// Lost a race with a concurrent end; the stored row is authoritative
		session, err = s.sessionStore.GetSessionByID(sessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
		return s.endResultFor(session)
	}

	session.EndedAt = &endedAt
	session.Minutes = minutes

	result, err := s.endResultFor(session)
	if err != nil {
		return nil, err
	}

	if result.RemainingMinutes == 0 && result.ConsumedTodayMinutes-minutes < result.DailyLimitMinutes {
		s.notifyDailyLimit(session, result.DailyLimitMinutes)
	}

	return result, nil
}

// GetResumeState reports where the child left off in a book: the open
// session if one exists, otherwise the most recently ended one
func (s *ReadingService) GetResumeState(childID, bookID int64) (*ResumeState, error) {
	if _, err := s.access.GetActiveChild(childID); err != nil {
		return nil, err
	}

	policy, err := s.access.policyStore.GetOrCreate(childID)
	if err != nil {
		return nil, err
	}
	book, err := s.access.GetAllowedBook(bookID, policy)
	if err != nil {
		return nil, err
	}

	open, err := s.sessionStore.GetOpenSession(childID, book.ID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		lastActivity := open.LastActivityAt()
		return &ResumeState{
			HasProgress:      open.HasProgress(),
			PageIndex:        open.ResumePageIndex(),
			SessionID:        open.ID,
			HasActiveSession: true,
			LastActivityAt:   &lastActivity,
		}, nil
	}

	previous, err := s.sessionStore.GetLatestEndedSession(childID, book.ID)
	if err != nil {
		return nil, err
	}
	if previous != nil {
		lastActivity := previous.LastActivityAt()
		return &ResumeState{
			HasProgress:    previous.HasProgress(),
			PageIndex:      previous.ResumePageIndex(),
			LastActivityAt: &lastActivity,
		}, nil
	}

	return &ResumeState{}, nil
}

// CloseAbandonedSessions finalizes open sessions with no activity since the
// idle timeout. Each one is charged up to its last recorded activity, not up
// to now, so a tablet left open overnight doesn't burn the whole quota.
func (s *ReadingService) CloseAbandonedSessions(idleTimeout time.Duration) (int, error) {
	cutoff := s.clock.Now().Add(-idleTimeout)
	ids, err := s.sessionStore.ListIdleOpenSessionIDs(cutoff)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, id := range ids {
		session, err := s.sessionStore.GetSessionByID(id)
		if err != nil {
			log.Printf("Failed to load idle session %s: %v", id, err)
			continue
		}
		if session == nil || !session.IsOpen() {
			continue
		}

		endedAt := session.LastActivityAt()
		minutes := sessionMinutes(session.StartedAt, endedAt)
		ok, err := s.sessionStore.FinalizeSession(session.ID, endedAt, minutes)
		if err != nil {
			log.Printf("Failed to close idle session %s: %v", id, err)
			continue
		}
		if ok {
			closed++
		}
	}

	return closed, nil
}

// getOwnedSession loads a session and hides sessions of other children
func (s *ReadingService) getOwnedSession(childID int64, sessionID string) (*models.ReadingSession, error) {
	session, err := s.sessionStore.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.ChildID != childID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *ReadingService) endResultFor(session *models.ReadingSession) (*EndResult, error) {
	policy, err := s.access.policyStore.GetOrCreate(session.ChildID)
	if err != nil {
		return nil, err
	}
	consumed, err := s.access.MinutesConsumedToday(session.ChildID)
	if err != nil {
		return nil, err
	}

	remaining := policy.DailyLimitMinutes - consumed
	if remaining < 0 {
		remaining = 0
	}

	pages, err := s.sessionStore.CountPagesRead(session.ID)
	if err != nil {
		return nil, err
	}

	endedAt := s.clock.Now()
	if session.EndedAt != nil {
		endedAt = *session.EndedAt
	}

	return &EndResult{
		SessionID:            session.ID,
		Minutes:              session.Minutes,
		PagesRead:            pages,
		EndedAt:              endedAt,
		DailyLimitMinutes:    policy.DailyLimitMinutes,
		ConsumedTodayMinutes: consumed,
		RemainingMinutes:     remaining,
	}, nil
}

// notifyDailyLimit emails the parent; a send failure never fails the
// child's request
func (s *ReadingService) notifyDailyLimit(session *models.ReadingSession, limitMinutes int) {
	if s.notifier == nil || !s.notifier.IsEnabled() {
		return
	}

	parent, err := s.parentStore.GetParentByID(session.ParentID)
	if err != nil || parent == nil {
		log.Printf("Failed to load parent %d for limit notice: %v", session.ParentID, err)
		return
	}
	child, err := s.childStore.GetChildByID(session.ChildID)
	if err != nil || child == nil {
		log.Printf("Failed to load child %d for limit notice: %v", session.ChildID, err)
		return
	}

	if err := s.notifier.SendDailyLimitEmail(context.Background(), parent.Email, parent.Name, child.Name, limitMinutes); err != nil {
		log.Printf("Failed to send daily limit email: %v", err)
	}
}

// sessionMinutes converts a session's elapsed time into whole minutes for
// the quota. Rounded to the nearest minute, with a floor of one so every
// finished session costs something.
func sessionMinutes(startedAt, endedAt time.Time) int {
	elapsed := endedAt.Sub(startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	minutes := int(math.Round(elapsed.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
