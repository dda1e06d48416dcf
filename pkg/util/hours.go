package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || hh == "" || len(mm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// WithinHours reports whether now's wall clock falls in [open, close).
// Windows crossing midnight are not supported and evaluate closed, as do
// missing or malformed times.
func WithinHours(open, close string, now time.Time) bool {
	start, ok := ParseClock(open)
	if !ok {
		return false
	}
	end, ok := ParseClock(close)
	if !ok {
		return false
	}
	current := now.Hour()*60 + now.Minute()
	return start <= current && current < end
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

// ClockFromHHMM converts the provider's "HHMM" period format to "HH:MM".
func ClockFromHHMM(s string) string {
	if len(s) != 4 {
		return ""
	}
	return s[:2] + ":" + s[2:]
}
