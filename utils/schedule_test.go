package utils

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 7, 2, hour, minute, 0, 0, time.UTC)
}

func TestScheduleEnd(t *testing.T) {
	tests := []struct {
		hours    float64
		expected time.Time
	}{
		{2.5, at(12, 30)},
		{1, at(11, 0)},
		{0, at(10, 0)},
		{0.33, at(10, 20)},
		{1.75, at(11, 45)},
		{24, at(10, 0).Add(24 * time.Hour)},
	}

	for _, tt := range tests {
		if got := ScheduleEnd(at(10, 0), tt.hours); !got.Equal(tt.expected) {
			t.Errorf("ScheduleEnd(10:00, %v): expected %v, got %v", tt.hours, tt.expected, got)
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     [2]time.Time
		expected bool
	}{
		{"partial overlap", [2]time.Time{at(10, 0), at(12, 30)}, [2]time.Time{at(11, 0), at(12, 0)}, true},
		{"containment", [2]time.Time{at(8, 0), at(16, 0)}, [2]time.Time{at(10, 0), at(11, 0)}, true},
		{"identical", [2]time.Time{at(10, 0), at(11, 0)}, [2]time.Time{at(10, 0), at(11, 0)}, true},
		{"touching end to start", [2]time.Time{at(10, 0), at(12, 30)}, [2]time.Time{at(12, 30), at(13, 30)}, false},
		{"disjoint", [2]time.Time{at(8, 0), at(9, 0)}, [2]time.Time{at(10, 0), at(11, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a[0], tt.a[1], tt.b[0], tt.b[1]); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
			if got := Overlaps(tt.b[0], tt.b[1], tt.a[0], tt.a[1]); got != tt.expected {
				t.Errorf("reversed: expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestWithinTrip(t *testing.T) {
	start := at(0, 0)
	end := at(23, 59)

	tests := []struct {
		name      string
		from, to  time.Time
		tripStart *time.Time
		tripEnd   *time.Time
		expected  bool
	}{
		{"inside", at(10, 0), at(11, 0), &start, &end, true},
		{"exactly the trip", start, end, &start, &end, true},
		{"starts before", start.Add(-time.Minute), at(1, 0), &start, &end, false},
		{"ends after", at(23, 0), end.Add(time.Minute), &start, &end, false},
		{"no bounds", start.Add(-48 * time.Hour), start.Add(-47 * time.Hour), nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinTrip(tt.from, tt.to, tt.tripStart, tt.tripEnd); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	from, to, err := ParseDay("2024-07-02")
	if err != nil {
		t.Fatalf("ParseDay failed: %v", err)
	}
	if !from.Equal(at(0, 0)) || !to.Equal(at(0, 0).Add(24*time.Hour)) {
		t.Errorf("unexpected window %v - %v", from, to)
	}

	if _, _, err := ParseDay("02/07/2024"); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"2024-07-02T10:00:00Z", at(10, 0), false},
		{"2024-07-02T12:00:00+02:00", at(10, 0), false},
		{"2024-07-02", at(0, 0), false},
		{"tomorrow", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := ParseDateTime(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDateTime(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDateTime(%q) failed: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.expected) {
			t.Errorf("ParseDateTime(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}
