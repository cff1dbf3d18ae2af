package domain

import (
	"fmt"
	"time"
)

// DayLayout is the canonical key format for every per-night map in the engine.
const DayLayout = "2006-01-02"

// maxEnumeratedNights bounds day enumeration so a garbage window from upstream
// can't spin the aggregator.
const maxEnumeratedNights = 1000

// ParseDay parses a canonical YYYY-MM-DD key. The returned time is only ever
// used for calendar-field arithmetic; it is never converted between zones.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad day key %q: %w", s, err)
	}
	return t, nil
}

// FormatDay rebuilds the canonical key from calendar fields (year/month/day),
// never from an epoch conversion. A key formatted through a zone shift would
// silently move every night's price and availability lookup by one day.
func FormatDay(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// IsDay reports whether s is a well-formed day key.
func IsDay(s string) bool {
	_, err := ParseDay(s)
	return err == nil
}

// NextDay returns the key of the following calendar day. AddDate steps by
// calendar fields, so Feb 28 → Feb 29 on leap years and Dec 31 → Jan 1 roll
// over correctly. Returns "" for a malformed key.
func NextDay(day string) string {
	t, err := ParseDay(day)
	if err != nil {
		return ""
	}
	return FormatDay(t.AddDate(0, 0, 1))
}

// NightsBetween counts the nights in the half-open interval [checkIn, checkOut)
// by stepping whole calendar days. Returns 0 when either key is malformed or
// checkOut is not strictly after checkIn.
func NightsBetween(checkIn, checkOut string) int {
	from, err := ParseDay(checkIn)
	if err != nil {
		return 0
	}
	to, err := ParseDay(checkOut)
	if err != nil || !to.After(from) {
		return 0
	}
	n := 0
	for d := from; d.Before(to) && n < maxEnumeratedNights; d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// DaysIn enumerates the day keys of [from, to), from included, to excluded.
// Malformed or empty windows yield nil.
func DaysIn(from, to string) []string {
	start, err := ParseDay(from)
	if err != nil {
		return nil
	}
	end, err := ParseDay(to)
	if err != nil || !end.After(start) {
		return nil
	}
	out := make([]string, 0, 8)
	for d := start; d.Before(end) && len(out) < maxEnumeratedNights; d = d.AddDate(0, 0, 1) {
		out = append(out, FormatDay(d))
	}
	return out
}
