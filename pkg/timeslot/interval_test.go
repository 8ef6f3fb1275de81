package timeslot

import (
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		start   string
		end     string
		wantErr bool
	}{
		{"valid interval", "2026-09-01", "09:00", "10:30", false},
		{"full day bounds", "2026-09-01", "00:00", "23:59", false},
		{"start equals end", "2026-09-01", "09:00", "09:00", true},
		{"start after end", "2026-09-01", "10:00", "09:00", true},
		{"bad date format", "01-09-2026", "09:00", "10:00", true},
		{"impossible date", "2026-02-30", "09:00", "10:00", true},
		{"missing leading zero", "2026-09-01", "9:00", "10:00", true},
		{"hour out of range", "2026-09-01", "24:00", "25:00", true},
		{"minute out of range", "2026-09-01", "09:60", "10:00", true},
		{"empty times", "2026-09-01", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.date, tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%q, %q, %q) error = %v, wantErr %v", tt.date, tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{
			"identical intervals",
			Interval{"2026-09-01", "09:00", "10:00"},
			Interval{"2026-09-01", "09:00", "10:00"},
			true,
		},
		{
			"partial overlap",
			Interval{"2026-09-01", "09:00", "10:00"},
			Interval{"2026-09-01", "09:30", "10:30"},
			true,
		},
		{
			"containment",
			Interval{"2026-09-01", "09:00", "12:00"},
			Interval{"2026-09-01", "10:00", "11:00"},
			true,
		},
		{
			"back to back does not overlap",
			Interval{"2026-09-01", "09:00", "10:00"},
			Interval{"2026-09-01", "10:00", "11:00"},
			false,
		},
		{
			"disjoint same day",
			Interval{"2026-09-01", "09:00", "10:00"},
			Interval{"2026-09-01", "14:00", "15:00"},
			false,
		},
		{
			"same times different dates",
			Interval{"2026-09-01", "09:00", "10:00"},
			Interval{"2026-09-02", "09:00", "10:00"},
			false,
		},
		{
			"one minute overlap",
			Interval{"2026-09-01", "09:00", "10:01"},
			Interval{"2026-09-01", "10:00", "11:00"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// The rule is symmetric by construction.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithin(t *testing.T) {
	iv := Interval{Date: "2026-09-01", Start: "09:00", End: "10:00"}

	tests := []struct {
		name  string
		open  string
		close string
		want  bool
	}{
		{"inside hours", "08:00", "18:00", true},
		{"exactly the hours", "09:00", "10:00", true},
		{"starts before open", "09:30", "18:00", false},
		{"ends after close", "08:00", "09:30", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := iv.Within(tt.open, tt.close); got != tt.want {
				t.Errorf("Within(%q, %q) = %v, want %v", tt.open, tt.close, got, tt.want)
			}
		})
	}
}

func TestEndsBefore(t *testing.T) {
	iv := Interval{Date: "2026-09-01", Start: "09:00", End: "10:00"}

	tests := []struct {
		name string
		now  Clock
		want bool
	}{
		{"day before", Clock{"2026-08-31", "23:00"}, false},
		{"same day before end", Clock{"2026-09-01", "09:59"}, false},
		{"same day exactly at end", Clock{"2026-09-01", "10:00"}, true},
		{"same day after end", Clock{"2026-09-01", "10:01"}, true},
		{"day after", Clock{"2026-09-02", "00:00"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := iv.EndsBefore(tt.now); got != tt.want {
				t.Errorf("EndsBefore(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestStartsBefore(t *testing.T) {
	iv := Interval{Date: "2026-09-01", Start: "09:00", End: "10:00"}

	if iv.StartsBefore(Clock{"2026-09-01", "09:00"}) {
		t.Error("interval starting exactly now should not count as started")
	}
	if !iv.StartsBefore(Clock{"2026-09-01", "09:01"}) {
		t.Error("interval should count as started one minute in")
	}
	if !iv.StartsBefore(Clock{"2026-09-02", "00:00"}) {
		t.Error("interval on a past date should count as started")
	}
}

func TestClockAt(t *testing.T) {
	now := time.Date(2026, 9, 1, 7, 5, 42, 0, time.UTC)
	clock := ClockAt(now)

	if clock.Date != "2026-09-01" {
		t.Errorf("expected date 2026-09-01, got %s", clock.Date)
	}
	if clock.Time != "07:05" {
		t.Errorf("expected time 07:05, got %s", clock.Time)
	}
}
