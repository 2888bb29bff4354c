// services/streak.go - Consecutive-day streak tracking
package services

import (
	"time"

	"arise/models"
)

// StreakResult reports what a streak update did.
type StreakResult struct {
	Streak    int
	Increased bool
	Reset     bool
}

// dateOf truncates a timestamp to its calendar day.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween is the whole number of calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(dateOf(b).Sub(dateOf(a)).Hours() / 24)
}

// ApplyStreak updates the user's streak in memory for an activity at
// `now` and returns what changed. Persisting the user is the caller's
// job, inside whatever transaction surrounds the activity.
//
// Policy: first ever activity starts the streak at 1; a second activity
// on the same day changes nothing; the next calendar day increments;
// any gap of two or more days resets to 1.
func ApplyStreak(user *models.User, now time.Time) StreakResult {
	today := dateOf(now)

	if user.LastActiveDate == nil {
		user.StreakCount = 1
		user.LastActiveDate = &today
		return StreakResult{Streak: 1, Increased: true}
	}

	switch daysBetween(*user.LastActiveDate, now) {
	case 0:
		return StreakResult{Streak: user.StreakCount}
	case 1:
		user.StreakCount++
		user.LastActiveDate = &today
		return StreakResult{Streak: user.StreakCount, Increased: true}
	default:
		user.StreakCount = 1
		user.LastActiveDate = &today
		return StreakResult{Streak: 1, Reset: true}
	}
}
