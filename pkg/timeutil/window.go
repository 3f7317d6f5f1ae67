// Package timeutil parses the compact calendar windows taken by --within and
// formats snapshot ages.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	Day  = 24 * time.Hour
	Week = 7 * Day

	// DefaultWindow is used when --within is given without a value.
	DefaultWindow = "1w"

	// MaxWindow bounds a window to ten years of days.
	MaxWindow = 3650 * Day
)

var (
	segment = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	units   = map[string]time.Duration{
		"d":     Day,
		"day":   Day,
		"days":  Day,
		"w":     Week,
		"wk":    Week,
		"wks":   Week,
		"week":  Week,
		"weeks": Week,
	}
)

// ParseWindow parses a window such as "3d", "2w" or "1w2d". Calendar events
// are dated, so only day and week units are accepted.
func ParseWindow(input string) (time.Duration, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		remaining = DefaultWindow
	}

	var total time.Duration
	for len(remaining) > 0 {
		m := segment.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return 0, fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid window value %q: %w", m[1], err)
		}
		unit, ok := units[m[2]]
		if !ok {
			return 0, fmt.Errorf("unsupported window unit %q, use d or w", m[2])
		}
		if n > int64((MaxWindow-total)/unit) {
			return 0, fmt.Errorf("window %q is longer than %d days", strings.TrimSpace(input), Days(MaxWindow))
		}
		total += time.Duration(n) * unit
		remaining = remaining[len(m[0]):]
	}

	if total <= 0 {
		return 0, fmt.Errorf("window must be at least one day")
	}
	return total, nil
}

// Days is the number of whole days in a window.
func Days(d time.Duration) int {
	return int(d / Day)
}

// FormatAge renders an elapsed time with its two largest units, e.g. "3d4h"
// or "12m". Anything under a minute is "just now".
func FormatAge(d time.Duration) string {
	if d < time.Minute {
		return "just now"
	}
	type unit struct {
		label string
		value time.Duration
	}
	all := []unit{{"w", Week}, {"d", Day}, {"h", time.Hour}, {"m", time.Minute}}

	var parts []string
	for _, u := range all {
		if d < u.value {
			if len(parts) > 0 {
				break
			}
			continue
		}
		n := d / u.value
		d -= n * u.value
		parts = append(parts, fmt.Sprintf("%d%s", n, u.label))
		if len(parts) == 2 {
			break
		}
	}
	return strings.Join(parts, "") + " ago"
}
