package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDayLabel(t *testing.T) {
	now := at("2026-01-06T01:00:00Z")

	tests := []struct {
		name     string
		deadline string
		want     string
	}{
		{"same utc day late evening", "2026-01-06T23:59:00Z", "today"},
		{"next day", "2026-01-07T08:00:00Z", "tomorrow"},
		{"previous day", "2026-01-05T22:00:00Z", "yesterday"},
		{"three days past", "2026-01-03T10:00:00Z", "3 days ago"},
		{"within the week", "2026-01-09T10:00:00Z", "Fri"},
		{"six days out still a weekday", "2026-01-12T10:00:00Z", "Mon"},
		{"exactly seven days is absolute", "2026-01-13T10:00:00Z", "1/13"},
		{"beyond the week", "2026-01-20T10:00:00Z", "1/20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayLabel(at(tt.deadline), now))
		})
	}
}

// A deadline 23h59m out that stays on the same UTC calendar day must read
// "today" even when the viewer sits behind UTC and local arithmetic would
// say otherwise.
func TestDayLabelUsesUTCDays(t *testing.T) {
	behind := time.FixedZone("behind-utc", -8*3600)
	now := at("2026-01-06T01:00:00Z").In(behind)
	deadline := at("2026-01-06T23:59:00Z").In(behind)

	assert.Equal(t, "today", DayLabel(deadline, now))
}

func TestDuration(t *testing.T) {
	start := at("2026-01-06T10:00:00Z")

	t.Run("under an hour", func(t *testing.T) {
		assert.Equal(t, "45 min", Duration(start, nil, at("2026-01-06T10:45:30Z")))
	})

	t.Run("hours and minutes with explicit end", func(t *testing.T) {
		end := at("2026-01-06T12:05:00Z")
		assert.Equal(t, "2 h 5 min", Duration(start, &end, at("2026-01-07T00:00:00Z")))
	})
}

func TestDeadlineTiers(t *testing.T) {
	now := at("2026-01-06T08:00:00Z")

	tests := []struct {
		name     string
		deadline string
		tier     Urgency
	}{
		{"overdue wins regardless of magnitude", "2026-01-06T07:59:00Z", UrgencyOverdue},
		{"overdue by days", "2026-01-03T07:00:00Z", UrgencyOverdue},
		{"same day under six hours", "2026-01-06T13:00:00Z", UrgencyUrgent},
		{"same day under twelve hours", "2026-01-06T19:00:00Z", UrgencyElevated},
		{"same day later", "2026-01-06T22:00:00Z", UrgencyNormal},
		{"tomorrow within 36 hours", "2026-01-07T10:00:00Z", UrgencyElevated},
		{"tomorrow beyond 36 hours", "2026-01-07T23:00:00Z", UrgencyNormal},
		{"weekday tier", "2026-01-10T10:00:00Z", UrgencyNormal},
		{"absolute tier", "2026-01-20T10:00:00Z", UrgencyNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, tier := Deadline(at(tt.deadline), now)
			assert.Equal(t, tt.tier, tier)
			require.NotEmpty(t, text)
		})
	}
}

// An evening view of a next-morning deadline crosses a UTC day boundary in
// under 24 hours. Deadline must bucket it as tomorrow, agreeing with DayLabel
// on the same card, not as a calm same-day entry.
func TestDeadlineUsesUTCDayBuckets(t *testing.T) {
	now := at("2026-01-06T20:00:00Z")

	text, tier := Deadline(at("2026-01-07T10:00:00Z"), now)
	assert.Equal(t, "due tomorrow at 10:00", text)
	assert.Equal(t, UrgencyElevated, tier)
	assert.Equal(t, "tomorrow", DayLabel(at("2026-01-07T10:00:00Z"), now))
}

func TestDeadlineText(t *testing.T) {
	now := at("2026-01-06T08:00:00Z")

	text, _ := Deadline(at("2026-01-10T10:30:00Z"), now)
	assert.Equal(t, "due Sat at 10:30", text)

	text, _ = Deadline(at("2026-01-20T10:30:00Z"), now)
	assert.Equal(t, "due 1/20 at 10:30", text)
}

func TestCountdown(t *testing.T) {
	now := at("2026-01-06T08:00:00Z")

	t.Run("overdue under an hour", func(t *testing.T) {
		text, tier := Countdown(at("2026-01-06T07:35:00Z"), now)
		assert.Equal(t, "overdue by 25 min", text)
		assert.Equal(t, UrgencyOverdue, tier)
	})

	t.Run("minutes remaining is urgent", func(t *testing.T) {
		text, tier := Countdown(at("2026-01-06T08:40:00Z"), now)
		assert.Equal(t, "40 min until deadline", text)
		assert.Equal(t, UrgencyUrgent, tier)
	})

	t.Run("a few hours remaining is elevated", func(t *testing.T) {
		_, tier := Countdown(at("2026-01-06T11:30:00Z"), now)
		assert.Equal(t, UrgencyElevated, tier)
	})

	t.Run("plenty of time is normal", func(t *testing.T) {
		text, tier := Countdown(at("2026-01-06T20:15:00Z"), now)
		assert.Equal(t, "12 h 15 min until deadline", text)
		assert.Equal(t, UrgencyNormal, tier)
	})
}
