// Package date provides a calendar-date type for task due dates.
package date

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the ISO-8601 calendar date layout used on disk and in exports.
const Layout = "2006-01-02"

// Date is a calendar date without a time of day, always in UTC.
type Date struct {
	time.Time
}

// New returns the date for the given year, month and day.
func New(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) Date {
	return New(now.Year(), now.Month(), now.Day())
}

// Parse accepts YYYY-MM-DD or a full RFC 3339 timestamp and returns the
// calendar date it names.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(Layout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	return New(t.Year(), t.Month(), t.Day()), nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(Layout)
}

// Before reports whether d is strictly before the calendar date of t.
func (d Date) Before(t time.Time) bool {
	return d.Time.Before(Today(t).Time)
}

// MarshalYAML writes the date as YYYY-MM-DD.
func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML reads a YYYY-MM-DD or RFC 3339 scalar.
func (d *Date) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON writes the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON reads a quoted YYYY-MM-DD or RFC 3339 string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
