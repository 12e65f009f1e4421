package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DisplayDateFormat is the day-first layout used in tables and exports.
const DisplayDateFormat = "02-01-2006"

// SecondsToHours converts GitLab time-tracking seconds to hours.
func SecondsToHours(seconds int64) float64 {
	return float64(seconds) / 3600
}

// FormatHours renders hours with two decimals and an "h" suffix.
func FormatHours(hours float64) string {
	return fmt.Sprintf("%.2fh", hours)
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// FormatDate renders t with DisplayDateFormat, or fallback for the zero time.
func FormatDate(t time.Time, fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.Format(DisplayDateFormat)
}

// Round2 rounds to two decimals.
func Round2(v float64) float64 {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	out, _ := strconv.ParseFloat(s, 64)
	return out
}

// FormatInt64 is strconv.FormatInt in base 10.
func FormatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

// ParseInt64List parses "1,2, 3" into ids, skipping blanks.
func ParseInt64List(raw string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		out = append(out, id)
	}
	return out, nil
}
