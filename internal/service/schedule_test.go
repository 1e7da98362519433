package service

import (
	"testing"
	"time"

	"storynest/internal/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestWithinSchedule(t *testing.T) {
	tests := []struct {
		name     string
		window   *models.ScheduleWindow
		now      time.Time
		expected bool
	}{
		{
			name:     "nil window never blocks",
			window:   nil,
			now:      at(3, 0),
			expected: true,
		},
		{
			name:     "inside daytime window",
			window:   &models.ScheduleWindow{Start: "09:00", End: "17:00"},
			now:      at(12, 30),
			expected: true,
		},
		{
			name:     "before daytime window",
			window:   &models.ScheduleWindow{Start: "09:00", End: "17:00"},
			now:      at(8, 59),
			expected: false,
		},
		{
			name:     "boundary start is inclusive",
			window:   &models.ScheduleWindow{Start: "09:00", End: "17:00"},
			now:      at(9, 0),
			expected: true,
		},
		{
			name:     "boundary end is inclusive",
			window:   &models.ScheduleWindow{Start: "09:00", End: "17:00"},
			now:      at(17, 0),
			expected: true,
		},
		{
			name:     "wrapping window allows late evening",
			window:   &models.ScheduleWindow{Start: "20:00", End: "07:00"},
			now:      at(23, 0),
			expected: true,
		},
		{
			name:     "wrapping window allows early morning",
			window:   &models.ScheduleWindow{Start: "20:00", End: "07:00"},
			now:      at(5, 0),
			expected: true,
		},
		{
			name:     "wrapping window blocks midday",
			window:   &models.ScheduleWindow{Start: "20:00", End: "07:00"},
			now:      at(12, 0),
			expected: false,
		},
		{
			name:     "start equals end covers that minute",
			window:   &models.ScheduleWindow{Start: "10:00", End: "10:00"},
			now:      at(10, 0),
			expected: true,
		},
		{
			name:     "start equals end blocks other minutes",
			window:   &models.ScheduleWindow{Start: "10:00", End: "10:00"},
			now:      at(10, 1),
			expected: false,
		},
		{
			name:     "malformed stored window does not block",
			window:   &models.ScheduleWindow{Start: "25:00", End: "07:00"},
			now:      at(12, 0),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinSchedule(tt.window, tt.now)
			if result != tt.expected {
				t.Errorf("WithinSchedule() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMinutesSinceMidnight(t *testing.T) {
	tests := []struct {
		value    string
		expected int
		ok       bool
	}{
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{"07:30", 450, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			result, ok := minutesSinceMidnight(tt.value)
			if ok != tt.ok || result != tt.expected {
				t.Errorf("minutesSinceMidnight(%q) = (%d, %v), want (%d, %v)",
					tt.value, result, ok, tt.expected, tt.ok)
			}
		})
	}
}
