package service

import (
	"strconv"
	"strings"
	"time"

	"storynest/internal/models"
)

// WithinSchedule reports whether the wall-clock time falls inside the
// schedule window. A nil window never blocks. Start == End means the window
// covers the single minute it names; Start > End wraps past midnight, so
// 20:00-07:00 allows evenings and early mornings but blocks midday.
func WithinSchedule(window *models.ScheduleWindow, now time.Time) bool {
	if window == nil {
		return true
	}

	start, okStart := minutesSinceMidnight(window.Start)
	end, okEnd := minutesSinceMidnight(window.End)
	if !okStart || !okEnd {
		// A malformed stored window must not lock a child out
		return true
	}

	current := now.Hour()*60 + now.Minute()

	if start <= end {
		return current >= start && current <= end
	}
	return current >= start || current <= end
}

// minutesSinceMidnight parses an HH:mm string into minutes past midnight
func minutesSinceMidnight(value string) (int, bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}

	return hour*60 + minute, true
}
