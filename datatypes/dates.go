package datatypes

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Dates outside this year range are not treated as dates, which keeps codes and plain numbers
// from being read as timestamps.
const (
	MinDateYear = 1900
	MaxDateYear = 2100
)

type dateFormat struct {
	pattern *regexp.Regexp
	// Tried in order. Day-first layouts come before their month-first fallback.
	layouts []string
}

// The fixed date grammar. All dates are parsed in UTC.
var dateFormats = []dateFormat{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), []string{"2006-01-02"}},
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`), []string{"02/01/2006", "01/02/2006"}},
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`), []string{"02/01/06", "01/02/06"}},
	{regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`), []string{"2006/01/02"}},
	{regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`), []string{"02-01-2006", "01-02-2006"}},
}

var (
	isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	isoLayouts    = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}

	dateCharsOnly  = regexp.MustCompile(`^[\d\s/:\-T]+$`)
	dateSeparators = "/-:"
	letters        = regexp.MustCompile(`[a-zA-Z]`)
)

// ParseDate parses a cell value as a date, returning ok=false if it is not one. Strings are
// parsed with the fixed date grammar: the five known date patterns first, then ISO date-times,
// then a fallback for other strings made up of only digits and date separators.
// Numbers are never dates.
func ParseDate(value any) (date time.Time, ok bool) {
	switch value := value.(type) {
	case time.Time:
		if value.IsZero() {
			return time.Time{}, false
		}
		return value, inDateRange(value)
	case string:
		return parseDateString(strings.TrimSpace(value))
	default:
		return time.Time{}, false
	}
}

func parseDateString(str string) (date time.Time, ok bool) {
	if str == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if !format.pattern.MatchString(str) {
			continue
		}
		for _, layout := range format.layouts {
			if date, err := time.Parse(layout, str); err == nil {
				return date, inDateRange(date)
			}
		}
		return time.Time{}, false
	}

	if isoDatePrefix.MatchString(str) {
		for _, layout := range isoLayouts {
			if date, err := time.Parse(layout, str); err == nil {
				return date, inDateRange(date)
			}
		}
	}

	return parseFallbackDate(str)
}

func parseFallbackDate(str string) (date time.Time, ok bool) {
	if !dateCharsOnly.MatchString(str) || !strings.ContainsAny(str, dateSeparators) {
		return time.Time{}, false
	}

	// Day first, like the fixed layouts, with month first as the fallback.
	date, err := dateparse.ParseIn(str, time.UTC, dateparse.PreferMonthFirst(false))
	if err != nil {
		date, err = dateparse.ParseIn(str, time.UTC, dateparse.PreferMonthFirst(true))
		if err != nil {
			return time.Time{}, false
		}
	}
	return date, inDateRange(date)
}

// LooksLikeDate is the per-value date check used by type inference. Unlike ParseDate, a value
// matching one of the five known date patterns counts even if it is not a valid calendar date.
// Apart from ISO date-times, values containing letters never count.
func LooksLikeDate(str string) bool {
	if isoDatePrefix.MatchString(str) {
		if _, ok := parseDateString(str); ok {
			return true
		}
	}

	if HasLetters(str) {
		return false
	}

	for _, format := range dateFormats {
		if format.pattern.MatchString(str) {
			return true
		}
	}

	_, ok := parseFallbackDate(str)
	return ok
}

func HasLetters(str string) bool {
	return letters.MatchString(str)
}

func inDateRange(date time.Time) bool {
	year := date.Year()
	return year >= MinDateYear && year <= MaxDateYear
}
