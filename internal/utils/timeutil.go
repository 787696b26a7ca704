package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the absolute form accepted by ParseSince.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

var windowRegex = regexp.MustCompile(`^(\d+)([smhdw])$`)

var windowUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": day,
	"w": 7 * day,
}

// ageSteps are checked in order; the first whose limit exceeds the age wins.
var ageSteps = []struct {
	limit  time.Duration
	unit   time.Duration
	suffix string
}{
	{time.Minute, time.Second, "s"},
	{time.Hour, time.Minute, "m"},
	{day, time.Hour, "h"},
	{7 * day, day, "d"},
	{30 * day, 7 * day, "w"},
	{365 * day, 30 * day, "mo"},
}

// FormatAge renders the time between t and now as a short label such as
// "5m ago". Zero times render as "N/A" and future times as "0s ago".
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	age := now.Sub(t)
	if age < 0 {
		age = 0
	}
	for _, step := range ageSteps {
		if age < step.limit {
			return fmt.Sprintf("%d%s ago", age/step.unit, step.suffix)
		}
	}
	return fmt.Sprintf("%dy ago", age/(365*day))
}

// ParseSince returns the earliest instant admitted by s, which is either a
// window relative to now ("30m", "24h", "7d", "2w") or a date in DateLayout.
func ParseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("time string cannot be empty")
	}

	if m := windowRegex.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid window %q: %w", s, err)
		}
		return now.Add(-time.Duration(n) * windowUnits[m[2]]), nil
	}

	t, err := time.ParseInLocation(DateLayout, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %q. Use '7d'/'24h' or 'YYYY-MM-DD'", s)
	}
	return t, nil
}
