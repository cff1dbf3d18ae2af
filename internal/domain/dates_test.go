package domain_test

import (
	"reflect"
	"testing"

	"github.com/Moowses/stay-engine/internal/domain"
)

func TestNightsBetween(t *testing.T) {
	cases := []struct {
		in, out string
		want    int
	}{
		{"2025-07-01", "2025-07-03", 2},
		{"2025-07-01", "2025-07-02", 1},
		{"2025-07-01", "2025-07-01", 0},
		{"2025-07-03", "2025-07-01", 0},
		{"2024-02-28", "2024-03-01", 2}, // leap year
		{"2025-02-28", "2025-03-01", 1},
		{"2025-12-30", "2026-01-02", 3}, // year rollover
		{"garbage", "2025-07-01", 0},
		{"2025-07-01", "", 0},
	}
	for _, c := range cases {
		if got := domain.NightsBetween(c.in, c.out); got != c.want {
			t.Errorf("NightsBetween(%q, %q) = %d, want %d", c.in, c.out, got, c.want)
		}
	}
}

func TestDaysIn_HalfOpen(t *testing.T) {
	got := domain.DaysIn("2025-06-29", "2025-07-02")
	want := []string{"2025-06-29", "2025-06-30", "2025-07-01"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DaysIn = %v, want %v", got, want)
	}
	if domain.DaysIn("2025-07-01", "2025-07-01") != nil {
		t.Fatal("empty window must enumerate nothing")
	}
}

func TestNextDay(t *testing.T) {
	cases := map[string]string{
		"2024-02-28": "2024-02-29",
		"2023-02-28": "2023-03-01",
		"2025-12-31": "2026-01-01",
		"not-a-day":  "",
	}
	for in, want := range cases {
		if got := domain.NextDay(in); got != want {
			t.Errorf("NextDay(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDateRangeValidate(t *testing.T) {
	if err := (domain.DateRange{CheckIn: "2025-07-01", CheckOut: "2025-07-02"}).Validate(); err != nil {
		t.Fatalf("one-night range should validate: %v", err)
	}
	for _, r := range []domain.DateRange{
		{CheckIn: "2025-07-01", CheckOut: "2025-07-01"},
		{CheckIn: "2025-07-02", CheckOut: "2025-07-01"},
		{CheckIn: "", CheckOut: "2025-07-01"},
		{CheckIn: "2025-7-1", CheckOut: "2025-07-05"},
	} {
		if err := r.Validate(); err != domain.ErrInvalidDateRange {
			t.Errorf("range %+v: expected ErrInvalidDateRange, got %v", r, err)
		}
	}
}

// Committing a range and reading it back must never shift a day; the keys are
// rebuilt from calendar fields, not epoch math.
func TestFormatDayRoundTrip(t *testing.T) {
	for _, day := range []string{"2025-01-01", "2024-02-29", "2025-10-26", "2025-03-30"} {
		tt, err := domain.ParseDay(day)
		if err != nil {
			t.Fatalf("ParseDay(%q): %v", day, err)
		}
		if got := domain.FormatDay(tt); got != day {
			t.Errorf("round-trip %q -> %q", day, got)
		}
	}
}
