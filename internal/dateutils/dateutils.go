// Package dateutils provides calendar-day operations used throughout the application.
// All values produced here are midnight UTC so that day arithmetic is exact.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// CommonFormats is the ordered list of layouts tried by ParseDate.
// Day-first layouts come before the US layout.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	time.RFC3339,
	DateLayoutEuropean,
	"2.1.2006",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	DateLayoutUS,
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseDate parses a date string using the common formats and returns the
// calendar day together with the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return Day(t), format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// MustParseISO parses a YYYY-MM-DD date and panics on failure.
// Intended for constants and tests.
func MustParseISO(dateStr string) time.Time {
	t, err := time.Parse(DateLayoutISO, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// CleanDateString trims and collapses whitespace in a date string
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// Day strips the time of day, keeping the calendar date in UTC
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day
func Today() time.Time {
	return Day(time.Now())
}

// AddDays moves a calendar day forward (or backward) by n days
func AddDays(date time.Time, n int) time.Time {
	return Day(date).AddDate(0, 0, n)
}

// DaysBetween returns the number of whole calendar days from a to b.
// The result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last day of the month for a given date
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// EndOfNextMonth returns the last day of the month following date
func EndOfNextMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 2, -1)
}
