package utils

import (
	"math"
	"time"
)

// ScheduleEnd derives the end of a placement from the event duration.
// Fractional hours are converted to whole minutes (rounded) rather than carried
// as fractional seconds, so 2.5h is exactly 2h30m and 0.33h is 20m.
func ScheduleEnd(start time.Time, durationHours float64) time.Time {
	hours := math.Floor(durationHours)
	minutes := math.Round((durationHours - hours) * 60)
	return start.Add(time.Duration(hours) * time.Hour).Add(time.Duration(minutes) * time.Minute)
}

// Overlaps is the half-open interval test [aStart, aEnd) ∩ [bStart, bEnd) ≠ ∅
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// WithinTrip reports whether [start, end] lies inside [tripStart, tripEnd].
// A nil bound means the group declares no range and everything fits.
func WithinTrip(start, end time.Time, tripStart, tripEnd *time.Time) bool {
	if tripStart == nil || tripEnd == nil {
		return true
	}
	return !start.Before(*tripStart) && !end.After(*tripEnd)
}

// ParseDay parses a YYYY-MM-DD string into the UTC [day, day+24h) window
func ParseDay(value string) (time.Time, time.Time, error) {
	day, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return day, day.Add(24 * time.Hour), nil
}

// ParseDateTime accepts RFC3339 timestamps or plain YYYY-MM-DD dates (UTC midnight)
func ParseDateTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, value)
}
