package models

import (
	"testing"
	"time"
)

func TestResumePageIndex(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		session  ReadingSession
		expected int
	}{
		{
			name:     "no progress at all",
			session:  ReadingSession{},
			expected: 0,
		},
		{
			name: "last event wins over page set maximum",
			session: ReadingSession{
				PagesRead: []int{0, 1, 2, 7},
				Events: []ProgressEvent{
					{PageIndex: 7, OccurredAt: now},
					{PageIndex: 3, OccurredAt: now.Add(time.Minute)},
				},
			},
			expected: 3,
		},
		{
			name: "backward navigation preserved",
			session: ReadingSession{
				Events: []ProgressEvent{
					{PageIndex: 5},
					{PageIndex: 1},
				},
			},
			expected: 1,
		},
		{
			name: "page set maximum used when log is empty",
			session: ReadingSession{
				PagesRead: []int{2, 0, 1},
			},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.session.ResumePageIndex()
			if result != tt.expected {
				t.Errorf("ResumePageIndex() = %d, want %d", result, tt.expected)
			}
		})
	}
}

func TestPolicyAllowsCategoryOf(t *testing.T) {
	book := &Book{CategoryIDs: []int64{4, 9}}

	tests := []struct {
		name     string
		policy   Policy
		expected bool
	}{
		{
			name:     "empty allowlist allows all",
			policy:   Policy{},
			expected: true,
		},
		{
			name:     "intersecting allowlist allows",
			policy:   Policy{AllowedCategoryIDs: []int64{9, 12}},
			expected: true,
		},
		{
			name:     "disjoint allowlist blocks",
			policy:   Policy{AllowedCategoryIDs: []int64{12}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.policy.AllowsCategoryOf(book)
			if result != tt.expected {
				t.Errorf("AllowsCategoryOf() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestPolicyAllowsAgeGroupOf(t *testing.T) {
	groupID := int64(2)

	tests := []struct {
		name     string
		policy   Policy
		book     Book
		expected bool
	}{
		{
			name:     "empty allowlist allows ungrouped book",
			policy:   Policy{},
			book:     Book{},
			expected: true,
		},
		{
			name:     "matching age group allows",
			policy:   Policy{AllowedAgeGroupIDs: []int64{2}},
			book:     Book{AgeGroupID: &groupID},
			expected: true,
		},
		{
			name:     "ungrouped book blocked by restricted policy",
			policy:   Policy{AllowedAgeGroupIDs: []int64{2}},
			book:     Book{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.policy.AllowsAgeGroupOf(&tt.book)
			if result != tt.expected {
				t.Errorf("AllowsAgeGroupOf() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestBookIsEligibleForChildren(t *testing.T) {
	eligible := Book{Status: BookStatusPublished, Visibility: BookVisibilityPublic, IsApproved: true}
	if !eligible.IsEligibleForChildren() {
		t.Error("published public approved book should be eligible")
	}

	draft := eligible
	draft.Status = BookStatusDraft
	if draft.IsEligibleForChildren() {
		t.Error("draft book should not be eligible")
	}

	private := eligible
	private.Visibility = BookVisibilityPrivate
	if private.IsEligibleForChildren() {
		t.Error("private book should not be eligible")
	}

	unapproved := eligible
	unapproved.IsApproved = false
	if unapproved.IsEligibleForChildren() {
		t.Error("unapproved book should not be eligible")
	}
}
