package domain

import (
	"fmt"
	"time"
)

const (
	MinGrade     = 0
	MaxGrade     = 5
	DefaultGrade = 1
)

const day = 24 * time.Hour

// reviewOffsets maps a grade to the delay before the next review.
// Existing data depends on these values, do not tune them.
var reviewOffsets = [...]time.Duration{
	day / 2,
	1 * day,
	2 * day,
	4 * day,
	7 * day,
	14 * day,
}

// fallbackOffset applies to any grade outside the table
const fallbackOffset = 1 * day

// ReviewOffset returns the delay before the next review for a grade
func ReviewOffset(grade int) time.Duration {
	if grade < MinGrade || grade >= len(reviewOffsets) {
		return fallbackOffset
	}
	return reviewOffsets[grade]
}

// ClampGrade bounds a grade to the familiarity range
func ClampGrade(grade int) int {
	if grade < MinGrade {
		return MinGrade
	}
	if grade > MaxGrade {
		return MaxGrade
	}
	return grade
}

// ScheduleReview computes the familiarity and due time recorded for a grade
func ScheduleReview(now time.Time, grade int) Review {
	return Review{
		Familiarity: ClampGrade(grade),
		Due:         now.Add(ReviewOffset(grade)),
	}
}

// DueString returns a user-friendly description of when a review is due
func DueString(due *time.Time, now time.Time) string {
	if due == nil || !due.After(now) {
		return "now"
	}

	// Check if today
	if sameDay(*due, now) {
		return "later today"
	}

	// Check if tomorrow
	if sameDay(*due, now.AddDate(0, 0, 1)) {
		return "tomorrow"
	}

	return due.Format("2 Jan 2006")
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// GradeLabel returns the button caption for a grade
func GradeLabel(grade int) string {
	offset := ReviewOffset(grade)
	if offset < day {
		return fmt.Sprintf("%d (%dh)", grade, int(offset/time.Hour))
	}
	return fmt.Sprintf("%d (%dd)", grade, int(offset/day))
}
