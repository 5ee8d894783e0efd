package inventory

import (
	"strconv"
	"strings"
	"time"
)

type ExpirationStatus string

const (
	ExpirationPerpetual    ExpirationStatus = "perpetual"
	ExpirationExpired      ExpirationStatus = "expired"
	ExpirationExpiringSoon ExpirationStatus = "expiring_soon"
	ExpirationValid        ExpirationStatus = "valid"
)

// DefaultExpiringSoonDays is the warning window applied when the config
// leaves it unset.
const DefaultExpiringSoonDays = 30

// ClassifyExpiration buckets a raw expiration date against now. An absent
// date, the "N/A" sentinel, or anything unparseable means the license never
// expires. The comparison works on local calendar days: a date before today
// is expired, a date within soonDays of today (inclusive) is expiring soon.
func ClassifyExpiration(dateStr string, now time.Time, soonDays int) ExpirationStatus {
	if soonDays <= 0 {
		soonDays = DefaultExpiringSoonDays
	}

	exp, ok := ParseExpirationDate(dateStr)
	if !ok {
		return ExpirationPerpetual
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if exp.Before(today) {
		return ExpirationExpired
	}
	if !exp.After(today.AddDate(0, 0, soonDays)) {
		return ExpirationExpiringSoon
	}
	return ExpirationValid
}

// ParseExpirationDate parses a raw date string into a local calendar date.
// YYYY-MM-DD and YYYY/MM/DD are decomposed field by field rather than handed
// to a generic parser, so a bare date never shifts across a timezone
// boundary. Other formats fall back to RFC 3339; a failure there means the
// value carries no usable date.
func ParseExpirationDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "N/A") {
		return time.Time{}, false
	}

	if d, ok := decomposeDate(s); ok {
		return d, true
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.Local()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), true
	}
	return time.Time{}, false
}

func decomposeDate(s string) (time.Time, bool) {
	var sep string
	switch {
	case strings.Count(s, "-") == 2:
		sep = "-"
	case strings.Count(s, "/") == 2:
		sep = "/"
	default:
		return time.Time{}, false
	}

	parts := strings.Split(s, sep)
	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	// time.Date normalizes out-of-range days (Feb 31 becomes Mar 3); an
	// impossible calendar date must fail instead.
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// FormatExpirationDate renders a parsed expiration date for display
// (dd/mm/yyyy, the screen's locale). Empty when the license is perpetual.
func FormatExpirationDate(raw string) string {
	d, ok := ParseExpirationDate(raw)
	if !ok {
		return ""
	}
	return d.Format("02/01/2006")
}
