package deadline

import (
	"time"

	"warfront/internal/domain/game"
)

var durations = map[game.TimingMode]time.Duration{
	game.TimingAsync1D: 24 * time.Hour,
	game.TimingAsync3D: 72 * time.Hour,
}

// Compute returns the turn deadline for a turn starting at turnStartedAt.
// Realtime and unknown modes have no deadline. With excludeWeekends the
// duration is only consumed on weekdays (UTC calendar days); a cursor that
// lands inside Saturday or Sunday jumps to the following Monday 00:00 UTC.
func Compute(turnStartedAt time.Time, mode game.TimingMode, excludeWeekends bool) (time.Time, bool) {
	d, ok := durations[mode]
	if !ok {
		return time.Time{}, false
	}
	if !excludeWeekends {
		return turnStartedAt.Add(d), true
	}

	cursor := turnStartedAt.UTC()
	remaining := d
	for remaining > 0 {
		if isWeekend(cursor) {
			cursor = nextMonday(cursor)
			continue
		}
		slice := nextSaturday(cursor).Sub(cursor)
		if slice > remaining {
			slice = remaining
		}
		cursor = cursor.Add(slice)
		remaining -= slice
	}
	return cursor.In(turnStartedAt.Location()), true
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func nextMonday(t time.Time) time.Time {
	days := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return midnight(t).AddDate(0, 0, days)
}

func nextSaturday(t time.Time) time.Time {
	days := (int(time.Saturday) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return midnight(t).AddDate(0, 0, days)
}
