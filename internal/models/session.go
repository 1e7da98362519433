package models

import "time"

// ProgressEvent is one page view recorded during a reading session. Events
// form an append-only log: repeats and backward jumps are kept as-is.
type ProgressEvent struct {
	ID         int64
	SessionID  string
	PageIndex  int
	OccurredAt time.Time
}

// ReadingSession represents one attempt by one child to read one book.
// A session is "open" until EndedAt is set; at most one open session exists
// per (child, book). PagesRead is the deduplicated set of page indices while
// Events preserves every view in order; the set gives cheap "pages read"
// counts, the log is authoritative for the resume position.
type ReadingSession struct {
	ID        string
	ChildID   int64
	ParentID  int64
	BookID    int64
	StartedAt time.Time
	EndedAt   *time.Time
	Minutes   int
	PagesRead []int
	Events    []ProgressEvent
}

// IsOpen reports whether the session has not been finalized yet
func (s *ReadingSession) IsOpen() bool {
	return s.EndedAt == nil
}

// ResumePageIndex derives the page a child should land on when reopening the
// book. The last progress event wins when the log is non-empty (a child may
// navigate backward, so insertion order matters, not the numeric maximum).
// Without events the highest page in the set is used, and 0 as a last resort.
func (s *ReadingSession) ResumePageIndex() int {
	if len(s.Events) > 0 {
		return s.Events[len(s.Events)-1].PageIndex
	}
	max := 0
	for _, page := range s.PagesRead {
		if page > max {
			max = page
		}
	}
	return max
}

// HasProgress reports whether any page view was ever recorded
func (s *ReadingSession) HasProgress() bool {
	return len(s.Events) > 0 || len(s.PagesRead) > 0
}

// LastActivityAt returns the time of the most recent progress event, falling
// back to the session start when nothing was recorded
func (s *ReadingSession) LastActivityAt() time.Time {
	if len(s.Events) > 0 {
		return s.Events[len(s.Events)-1].OccurredAt
	}
	return s.StartedAt
}
