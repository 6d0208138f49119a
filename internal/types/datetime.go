package types

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the layout for calendar dates in forms and CSV files.
	DateLayout = "2006-01-02"

	// ClockLayout is the layout for wall-clock times in forms and CSV files.
	ClockLayout = "15:04"

	// DisplayLayout is the layout timestamps are rendered with on pages.
	DisplayLayout = "02 Jan 2006, 03:04 PM"

	// DefaultClock is used when no time of day is given.
	DefaultClock = "12:00"
)

var errNegative = errors.New("must not be negative")

// ParseDateTime combines a date and an optional time of day into an
// instant in the given zone.
//
// An empty date is an *InputError. Text that cannot be parsed is
// a *FormatError naming the offending field.
func ParseDateTime(date, clock string, zone *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	if date == "" {
		return time.Time{}, &InputError{Field: "date"}
	}

	if clock == "" {
		clock = DefaultClock
	}

	day, err := time.ParseInLocation(DateLayout, date, zone)
	if err != nil {
		return time.Time{}, &FormatError{Field: "date", Value: date, Err: err}
	}

	// Browsers send seconds for some inputs
	wall, err := time.Parse(ClockLayout, clock)
	if err != nil {
		var errSeconds error
		wall, errSeconds = time.Parse("15:04:05", clock)
		if errSeconds != nil {
			return time.Time{}, &FormatError{Field: "time", Value: clock, Err: err}
		}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, zone), nil
}

// ParseDate parses a calendar date to midnight in the given zone.
func ParseDate(field, date string, zone *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), zone)
	if err != nil {
		return time.Time{}, &FormatError{Field: field, Value: date, Err: err}
	}
	return t, nil
}

// StartOfDay returns midnight of the day t falls on in zone.
func StartOfDay(t time.Time, zone *time.Location) time.Time {
	year, month, day := t.In(zone).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, zone)
}

// ParseAmount parses a non-negative decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &InputError{Field: "amount"}
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &FormatError{Field: "amount", Value: s, Err: err}
	}

	if amount.IsNegative() {
		return decimal.Zero, &FormatError{Field: "amount", Value: s, Err: errNegative}
	}

	return amount, nil
}
