package scheduler

import (
	"fmt"
	"time"

	"github.com/mifops/gmao-core/internal/models"
)

// NextDueAt adds freq.Count units of freq.Unit to from. Month, quarter
// and year additions clamp to the last valid day of the resulting
// month when the source day-of-month does not exist there (Jan 31 + 1
// month is Feb 28 or 29, never March), so a recurrence anchored late
// in the month never drifts into the following one. The unit is
// validated at plan creation; an unknown unit here means corrupted
// data and panics rather than returning from unchanged, which would
// stall the recurrence.
func NextDueAt(freq models.Frequency, from time.Time) time.Time {
	switch freq.Unit {
	case models.FrequencyDay:
		return from.AddDate(0, 0, freq.Count)
	case models.FrequencyWeek:
		return from.AddDate(0, 0, 7*freq.Count)
	case models.FrequencyMonth:
		return addMonthsClamped(from, freq.Count)
	case models.FrequencyQuarter:
		return addMonthsClamped(from, 3*freq.Count)
	case models.FrequencyYear:
		return addMonthsClamped(from, 12*freq.Count)
	default:
		panic(fmt.Sprintf("unknown frequency unit %q", freq.Unit))
	}
}

// addMonthsClamped shifts t by the given number of months, clamping
// the day-of-month to the length of the target month. time.AddDate is
// avoided here because it normalizes overflow days into the next
// month.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	first := time.Date(year, month+time.Month(months), 1, hour, min, sec, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month. Day zero of
// the following month normalizes to this month's last day.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DefaultUpcomingWindow is how far ahead of its due date a plan is
// reported as upcoming rather than scheduled. A policy constant, not a
// hard law.
const DefaultUpcomingWindow = 7 * 24 * time.Hour

// Classify buckets a plan by its due date relative to now. An inactive
// plan is always inactive, whatever its dates. For a fixed plan,
// increasing now only ever moves the result forward along
// scheduled, upcoming, overdue.
func Classify(plan models.MaintenancePlan, now time.Time, upcomingWindow time.Duration) models.Classification {
	if !plan.Active {
		return models.ClassificationInactive
	}
	if plan.NextDueAt.Before(now) {
		return models.ClassificationOverdue
	}
	if !plan.NextDueAt.After(now.Add(upcomingWindow)) {
		return models.ClassificationUpcoming
	}
	return models.ClassificationScheduled
}
