package household

import (
	"testing"
	"time"
)

func TestNormalizeTimes_SortsAndDedups(t *testing.T) {
	got, err := NormalizeTimes([]TimeOfDay{{20, 0}, {8, 0}, {20, 0}, {8, 30}})
	if err != nil {
		t.Fatalf("NormalizeTimes error: %v", err)
	}
	want := []TimeOfDay{{8, 0}, {8, 30}, {20, 0}}
	if len(got) != len(want) {
		t.Fatalf("expected %d times, got %#v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestNormalizeTimes_RejectsEmptyAndOutOfRange(t *testing.T) {
	if _, err := NormalizeTimes(nil); err != ErrInvalidSchedule {
		t.Fatalf("expected ErrInvalidSchedule for empty times, got %v", err)
	}
	if _, err := NormalizeTimes([]TimeOfDay{{24, 0}}); err != ErrInvalidSchedule {
		t.Fatalf("expected ErrInvalidSchedule for hour 24, got %v", err)
	}
	if _, err := NormalizeTimes([]TimeOfDay{{8, 60}}); err != ErrInvalidSchedule {
		t.Fatalf("expected ErrInvalidSchedule for minute 60, got %v", err)
	}
}

func TestSchedule_Normalize_DefaultsAndEndBeforeStart(t *testing.T) {
	s, err := Schedule{Times: []TimeOfDay{{9, 0}}}.Normalize()
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if s.Frequency != FrequencyDaily {
		t.Fatalf("expected default frequency daily, got %s", s.Frequency)
	}

	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	_, err = Schedule{Times: []TimeOfDay{{9, 0}}, StartDate: start, EndDate: &end}.Normalize()
	if err != ErrInvalidSchedule {
		t.Fatalf("expected ErrInvalidSchedule for end before start, got %v", err)
	}

	_, err = Schedule{Frequency: "hourly", Times: []TimeOfDay{{9, 0}}}.Normalize()
	if err != ErrInvalidSchedule {
		t.Fatalf("expected ErrInvalidSchedule for unknown frequency, got %v", err)
	}
}

func TestSchedule_OccursOn_DateRangeInclusive(t *testing.T) {
	loc := time.UTC
	start := time.Date(2024, 3, 1, 15, 0, 0, 0, loc)
	end := time.Date(2024, 3, 3, 1, 0, 0, 0, loc)
	s := Schedule{Frequency: FrequencyDaily, Times: []TimeOfDay{{8, 0}}, StartDate: start, EndDate: &end}

	cases := map[string]bool{
		"2024-02-29": false,
		"2024-03-01": true,
		"2024-03-02": true,
		"2024-03-03": true,
		"2024-03-04": false,
	}
	for day, want := range cases {
		d, _ := time.ParseInLocation("2006-01-02", day, loc)
		if got := s.OccursOn(d, loc); got != want {
			t.Fatalf("%s: expected %v, got %v", day, want, got)
		}
	}
}

func TestSchedule_OccursOn_Weekly(t *testing.T) {
	loc := time.UTC
	// 2024-03-04 es lunes.
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, loc)

	implicit := Schedule{Frequency: FrequencyWeekly, Times: []TimeOfDay{{8, 0}}, StartDate: start}
	if !implicit.OccursOn(start.AddDate(0, 0, 7), loc) {
		t.Fatalf("expected weekly schedule to occur one week later")
	}
	if implicit.OccursOn(start.AddDate(0, 0, 1), loc) {
		t.Fatalf("expected weekly schedule not to occur on tuesday")
	}

	explicit := Schedule{
		Frequency: FrequencyWeekly,
		Times:     []TimeOfDay{{8, 0}},
		StartDate: start,
		Weekdays:  []time.Weekday{time.Wednesday, time.Friday},
	}
	if explicit.OccursOn(start, loc) {
		t.Fatalf("expected explicit weekdays to exclude monday")
	}
	if !explicit.OccursOn(start.AddDate(0, 0, 2), loc) {
		t.Fatalf("expected explicit weekdays to include wednesday")
	}

	open := Schedule{Frequency: FrequencyWeekly, Times: []TimeOfDay{{8, 0}}}
	if !open.OccursOn(start.AddDate(0, 0, 3), loc) {
		t.Fatalf("expected weekly schedule without start or weekdays to occur every day")
	}
}

func TestSchedule_EndedBefore(t *testing.T) {
	loc := time.UTC
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, loc)
	s := Schedule{Frequency: FrequencyDaily, Times: []TimeOfDay{{8, 0}}, EndDate: &end}

	if s.EndedBefore(time.Date(2024, 3, 3, 23, 0, 0, 0, loc), loc) {
		t.Fatalf("expected schedule still running on its end date")
	}
	if !s.EndedBefore(time.Date(2024, 3, 4, 0, 0, 0, 0, loc), loc) {
		t.Fatalf("expected schedule ended the day after its end date")
	}
}

func TestSchedule_StartsAfter(t *testing.T) {
	loc := time.UTC
	s := Schedule{Frequency: FrequencyDaily, Times: []TimeOfDay{{8, 0}}, StartDate: time.Date(2024, 3, 5, 12, 0, 0, 0, loc)}

	if !s.StartsAfter(time.Date(2024, 3, 4, 23, 59, 0, 0, loc), loc) {
		t.Fatalf("expected schedule not started the day before")
	}
	if s.StartsAfter(time.Date(2024, 3, 5, 0, 0, 0, 0, loc), loc) {
		t.Fatalf("expected schedule started on its start date")
	}
	if (Schedule{}).StartsAfter(time.Date(2000, 1, 1, 0, 0, 0, 0, loc), loc) {
		t.Fatalf("expected zero start date to mean already started")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("08:05")
	if err != nil || got != (TimeOfDay{Hour: 8, Minute: 5}) {
		t.Fatalf("unexpected: %+v %v", got, err)
	}
	for _, bad := range []string{"", "8", "24:00", "07:60", "aa:bb"} {
		if _, err := ParseTimeOfDay(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
