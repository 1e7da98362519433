package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storynest/internal/database"
	"storynest/internal/models"
)

// ErrOpenSessionExists is returned by CreateSession when the child already
// has an open session for the same book.
var ErrOpenSessionExists = errors.New("open reading session already exists")

// SessionRepository handles database operations for reading sessions
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = "id, child_id, parent_id, book_id, started_at, ended_at, minutes"

// GetSessionByID retrieves a session with its page set and event log loaded
func (r *SessionRepository) GetSessionByID(sessionID string) (*models.ReadingSession, error) {
	query := "SELECT " + sessionColumns + " FROM reading_sessions WHERE id = ?"
	session, err := r.scanSession(r.db.QueryRow(query, sessionID))
	if err != nil || session == nil {
		return session, err
	}

	if err := r.loadProgress(session); err != nil {
		return nil, err
	}

	return session, nil
}

// GetOpenSession retrieves the child's open session for a book, if any
func (r *SessionRepository) GetOpenSession(childID, bookID int64) (*models.ReadingSession, error) {
	query := "SELECT " + sessionColumns + `
		FROM reading_sessions
		WHERE child_id = ? AND book_id = ? AND ended_at IS NULL
	`
	session, err := r.scanSession(r.db.QueryRow(query, childID, bookID))
	if err != nil || session == nil {
		return session, err
	}

	if err := r.loadProgress(session); err != nil {
		return nil, err
	}

	return session, nil
}

// GetLatestEndedSession retrieves the child's most recently ended session for
// a book. Used to seed the resume position after a session has closed.
func (r *SessionRepository) GetLatestEndedSession(childID, bookID int64) (*models.ReadingSession, error) {
	query := "SELECT " + sessionColumns + `
		FROM reading_sessions
		WHERE child_id = ? AND book_id = ? AND ended_at IS NOT NULL
		ORDER BY ended_at DESC
		LIMIT 1
	`
	session, err := r.scanSession(r.db.QueryRow(query, childID, bookID))
	if err != nil || session == nil {
		return session, err
	}

	if err := r.loadProgress(session); err != nil {
		return nil, err
	}

	return session, nil
}

// CreateSession inserts a new open session. The partial unique index on
// (child_id, book_id) for open rows turns a concurrent duplicate start into
// ErrOpenSessionExists so the caller can re-read and resume instead.
func (r *SessionRepository) CreateSession(session *models.ReadingSession) error {
	query := `
		INSERT INTO reading_sessions (id, child_id, parent_id, book_id, started_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, session.ID, session.ChildID, session.ParentID, session.BookID, session.StartedAt)
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return ErrOpenSessionExists
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// AppendProgress records a page-turn event and marks the page as read. The
// event log keeps every turn; the page set ignores repeats of the same page.
func (r *SessionRepository) AppendProgress(sessionID string, pageIndex int, at time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	eventQuery := "INSERT INTO reading_progress_events (session_id, page_index, occurred_at) VALUES (?, ?, ?)"
	if _, err := tx.Exec(eventQuery, sessionID, pageIndex, at); err != nil {
		return fmt.Errorf("failed to insert progress event: %w", err)
	}

	pageQuery := "INSERT INTO reading_session_pages (session_id, page_index) VALUES (?, ?) " +
		r.db.Dialect.ConflictIgnoreSuffix("session_id, page_index")
	if _, err := tx.Exec(pageQuery, sessionID, pageIndex); err != nil {
		return fmt.Errorf("failed to insert session page: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit progress: %w", err)
	}

	return nil
}

// CountPagesRead returns the number of distinct pages read in a session
func (r *SessionRepository) CountPagesRead(sessionID string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM reading_session_pages WHERE session_id = ?"
	if err := r.db.QueryRow(query, sessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pages read: %w", err)
	}

	return count, nil
}

// FinalizeSession closes an open session, recording when it ended and the
// minutes it consumed. Returns false when the session was already ended, so
// a concurrent or repeated end call charges the quota exactly once.
func (r *SessionRepository) FinalizeSession(sessionID string, endedAt time.Time, minutes int) (bool, error) {
	query := `
		UPDATE reading_sessions
		SET ended_at = ?, minutes = ?
		WHERE id = ? AND ended_at IS NULL
	`
	result, err := r.db.Exec(query, endedAt, minutes, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to finalize session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected > 0, nil
}

// MinutesConsumedSince sums the minutes of the child's finalized sessions
// started at or after the given instant. Open sessions consume nothing until
// they end; a session is charged to the day it started on.
func (r *SessionRepository) MinutesConsumedSince(childID int64, since time.Time) (int, error) {
	var minutes int
	query := `
		SELECT COALESCE(SUM(minutes), 0)
		FROM reading_sessions
		WHERE child_id = ? AND ended_at IS NOT NULL AND started_at >= ?
	`
	if err := r.db.QueryRow(query, childID, since).Scan(&minutes); err != nil {
		return 0, fmt.Errorf("failed to sum consumed minutes: %w", err)
	}

	return minutes, nil
}

// ListIdleOpenSessionIDs returns open sessions whose last activity (latest
// progress event, or session start when there are none) predates the cutoff
func (r *SessionRepository) ListIdleOpenSessionIDs(cutoff time.Time) ([]string, error) {
	query := `
		SELECT s.id
		FROM reading_sessions s
		LEFT JOIN reading_progress_events e ON e.session_id = s.id
		WHERE s.ended_at IS NULL
		GROUP BY s.id, s.started_at
		HAVING COALESCE(MAX(e.occurred_at), s.started_at) < ?
	`
	rows, err := r.db.Query(query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query idle sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *SessionRepository) scanSession(row *sql.Row) (*models.ReadingSession, error) {
	session := &models.ReadingSession{}
	var endedAt sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.ChildID,
		&session.ParentID,
		&session.BookID,
		&session.StartedAt,
		&endedAt,
		&session.Minutes,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if endedAt.Valid {
		session.EndedAt = &endedAt.Time
	}

	return session, nil
}

// loadProgress fills the session's page set and event log. Pages come back
// in page order, events in insertion order.
func (r *SessionRepository) loadProgress(session *models.ReadingSession) error {
	pageRows, err := r.db.Query(
		"SELECT page_index FROM reading_session_pages WHERE session_id = ? ORDER BY page_index ASC",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query session pages: %w", err)
	}
	defer pageRows.Close()

	for pageRows.Next() {
		var pageIndex int
		if err := pageRows.Scan(&pageIndex); err != nil {
			return fmt.Errorf("failed to scan session page: %w", err)
		}
		session.PagesRead = append(session.PagesRead, pageIndex)
	}
	if err := pageRows.Err(); err != nil {
		return err
	}

	eventRows, err := r.db.Query(
		"SELECT id, session_id, page_index, occurred_at FROM reading_progress_events WHERE session_id = ? ORDER BY id ASC",
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query progress events: %w", err)
	}
	defer eventRows.Close()

	for eventRows.Next() {
		var event models.ProgressEvent
		if err := eventRows.Scan(&event.ID, &event.SessionID, &event.PageIndex, &event.OccurredAt); err != nil {
			return fmt.Errorf("failed to scan progress event: %w", err)
		}
		session.Events = append(session.Events, event)
	}

	return eventRows.Err()
}
