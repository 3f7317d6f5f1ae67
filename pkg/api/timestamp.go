package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DateLayout is the canonical date-only representation used on the wire
	// and as the grouping key for calendar days.
	DateLayout = "2006-01-02"
	// DisplayLayout is the single human layout for dates.
	DisplayLayout = "January 2, 2006"
)

var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	DateLayout,
}

var (
	locMu    sync.RWMutex
	location = time.Local
)

// SetLocation sets the zone that zoned backend values are read in. It should
// match the zone "now" is taken in; nil means the machine's local zone.
func SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	locMu.Lock()
	location = loc
	locMu.Unlock()
}

// Location returns the zone set by SetLocation.
func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return location
}

// ParseTime parses the datetime forms the backend emits, reading zoned values
// in Location().
func ParseTime(v string) (time.Time, error) {
	return ParseTimeIn(v, Location())
}

// ParseTimeIn parses v as a wall clock. Values without a zone are taken as
// written; zoned values become the wall clock they show in loc.
func ParseTimeIn(v string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return wall(t.In(loc)), nil
	}
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return wall(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("api: unrecognised timestamp %q", v)
}

func wall(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// WallClock re-expresses an instant as the wall clock it shows in loc, so it
// can be compared against Timestamp values.
func WallClock(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return wall(t.In(loc))
}

// Timestamp is a backend datetime held as a civil wall clock.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t as a wall-clock Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: wall(t)}
}

// Date returns the calendar day of the timestamp.
func (t Timestamp) Date() Date {
	return DateOf(t.Time)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.Format("2006-01-02T15:04:05"))), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	raw, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("api: timestamp must be a string: %w", err)
	}
	t.Time, err = ParseTime(raw)
	return err
}

func (t Timestamp) String() string {
	return t.Format("2006-01-02T15:04:05")
}

// Date is a calendar day with no time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ErrInvalidDate is returned when a date string is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("api: date must be YYYY-MM-DD")

// ParseDate parses the canonical YYYY-MM-DD form. A datetime is accepted too
// and its time component is dropped.
func ParseDate(v string) (Date, error) {
	v = strings.TrimSpace(v)
	if i := strings.IndexAny(v, "T "); i >= 0 {
		v = v[:i]
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, v)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day t falls on in its own location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight of d as a wall-clock time.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// String renders the canonical key form.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

// Label renders the human form.
func (d Date) Label() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DisplayLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	raw, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("api: date must be a string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// StripTime drops the time component from a stored datetime string, the way a
// date input expects it. Empty stays empty.
func StripTime(v string) string {
	if i := strings.IndexByte(v, 'T'); i >= 0 {
		return v[:i]
	}
	return v
}
