// Package timefmt renders timestamps as human-relative text. Every function
// takes the reference time explicitly so callers can pin the clock in tests.
package timefmt

import (
	"fmt"
	"time"
)

// Urgency orders deadline display tiers from calm to overdue.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyElevated
	UrgencyUrgent
	UrgencyOverdue
)

var weekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// utcDayDiff returns the whole-day difference between two instants using
// UTC calendar days. A deadline stored as 23:59 UTC must not slip to the
// next or previous day when the viewer's local zone differs.
func utcDayDiff(deadline, now time.Time) int {
	d := deadline.UTC()
	n := now.UTC()
	dd := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	nd := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	return int(dd.Sub(nd) / (24 * time.Hour))
}

// DayLabel renders a deadline for the registry list: relative words for the
// nearest days, a weekday name within the week, an absolute date beyond it.
// Day arithmetic is UTC-calendar based.
func DayLabel(deadline, now time.Time) string {
	diff := utcDayDiff(deadline, now)
	switch {
	case diff == 0:
		return "today"
	case diff == 1:
		return "tomorrow"
	case diff == -1:
		return "yesterday"
	case diff < -1:
		return fmt.Sprintf("%d days ago", -diff)
	case diff < 7:
		return weekdays[deadline.UTC().Weekday()]
	}
	d := deadline.UTC()
	return fmt.Sprintf("%d/%d", int(d.Month()), d.Day())
}

// Duration renders the time spent between start and end. A nil end means
// the work is still in progress and is measured against now.
func Duration(start time.Time, end *time.Time, now time.Time) string {
	until := now
	if end != nil {
		until = *end
	}
	minutes := int(until.Sub(start) / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d h %d min", minutes/60, minutes%60)
}

// Deadline classifies a deadline into an urgency tier and renders its text.
// Tiers are checked in order; the first match wins. Same-day and next-day
// buckets use UTC calendar days, matching DayLabel on the same card.
func Deadline(deadline, now time.Time) (string, Urgency) {
	diff := deadline.Sub(now)
	hours := diff.Hours()
	days := utcDayDiff(deadline, now)
	clock := deadline.Format("15:04")

	if diff < 0 {
		overdueHours := int(-diff / time.Hour)
		if overdueHours < 24 {
			return fmt.Sprintf("overdue by %d h", overdueHours), UrgencyOverdue
		}
		return fmt.Sprintf("overdue by %d days", overdueHours/24), UrgencyOverdue
	}

	switch days {
	case 0:
		switch {
		case hours < 6:
			return fmt.Sprintf("due tonight at %s", clock), UrgencyUrgent
		case hours < 12:
			return fmt.Sprintf("due today at %s", clock), UrgencyElevated
		default:
			return fmt.Sprintf("due today at %s", clock), UrgencyNormal
		}
	case 1:
		if hours < 36 {
			return fmt.Sprintf("due tomorrow at %s", clock), UrgencyElevated
		}
		return fmt.Sprintf("due tomorrow at %s", clock), UrgencyNormal
	}
	if days < 7 {
		return fmt.Sprintf("due %s at %s", weekdays[deadline.UTC().Weekday()], clock), UrgencyNormal
	}
	d := deadline.UTC()
	return fmt.Sprintf("due %d/%d at %s", int(d.Month()), d.Day(), clock), UrgencyNormal
}

// Countdown renders the detail view's live remaining-time line. Unlike the
// registry this runs on wall-clock elapsed time, not calendar days.
func Countdown(deadline, now time.Time) (string, Urgency) {
	diff := deadline.Sub(now)

	if diff < 0 {
		over := -diff
		h := int(over / time.Hour)
		m := int(over%time.Hour) / int(time.Minute)
		if h > 0 {
			return fmt.Sprintf("overdue by %d h %d min", h, m), UrgencyOverdue
		}
		return fmt.Sprintf("overdue by %d min", m), UrgencyOverdue
	}

	h := int(diff / time.Hour)
	m := int(diff%time.Hour) / int(time.Minute)
	switch {
	case h == 0:
		return fmt.Sprintf("%d min until deadline", m), UrgencyUrgent
	case h < 6:
		return fmt.Sprintf("%d h %d min until deadline", h, m), UrgencyElevated
	}
	return fmt.Sprintf("%d h %d min until deadline", h, m), UrgencyNormal
}

// DateTime renders an absolute month/day clock stamp.
func DateTime(t time.Time) string {
	return fmt.Sprintf("%d/%d %s", int(t.Month()), t.Day(), t.Format("15:04"))
}
