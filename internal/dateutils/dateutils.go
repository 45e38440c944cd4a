// Package dateutils provides the tolerant date handling used when building
// voucher dates from bank statement cells.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layout constants used throughout the application
const (
	DateLayoutISO     = "2006-01-02"
	DateLayoutFull    = "2006-01-02 15:04:05"
	DateLayoutVoucher = "02-01-2006"
)

// CommonFormats is the ordered list of layouts tried when parsing a statement
// date. Ambiguous numeric dates are read month-first; a day-first layout only
// wins when the month-first reading is impossible (e.g. 13/01/2024).
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2/1/2006",
	"1-2-2006",
	"2-1-2006",
	"1.2.2006",
	"2.1.2006",
	"1/2/06",
	"1-2-06",
	"2/1/06",
	"2-1-06",
	"2-Jan-2006",
	"2-Jan-06",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate attempts to parse a date string using CommonFormats in order.
// Returns the parsed time and the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, layout, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToVoucherDate formats a statement date as DD-MM-YYYY and returns the
// two-character day alongside it. Both are empty when the date cannot be
// parsed; this never fails.
func ToVoucherDate(dateStr string) (date, day string) {
	t, _, err := ParseDate(dateStr)
	if err != nil {
		return "", ""
	}
	date = t.Format(DateLayoutVoucher)
	return date, date[:2]
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}
