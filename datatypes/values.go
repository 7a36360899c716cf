package datatypes

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Row maps column names to loosely typed scalar cell values: string, float64 (or another Go
// number type), bool, time.Time or nil. Rows are never mutated once ingested.
type Row map[string]any

// Sheet is a named table of rows, as delivered by ingestion.
type Sheet struct {
	Name string `json:"name"`
	// Column names in source order. Every row has a key for each of these.
	Columns []string `json:"columns"`
	Rows    []Row    `json:"-"`
}

func (sheet Sheet) RowCount() int {
	return len(sheet.Rows)
}

// Validation is the outcome of checking a view or chart configuration against a schema.
// Invalid configurations are reported through this rather than through errors.
type Validation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func Valid() Validation {
	return Validation{Valid: true}
}

func Invalid(format string, args ...any) Validation {
	return Validation{Valid: false, Reason: fmt.Sprintf(format, args...)}
}

// IsEmpty returns true for nil and the empty string, which the engines treat as missing values.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}
	if str, ok := value.(string); ok {
		return str == ""
	}
	return false
}

// ToString coerces a cell value to its string form. nil becomes the empty string, and dates
// without a time-of-day are formatted as YYYY-MM-DD.
func ToString(value any) string {
	switch value := value.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	case time.Time:
		utc := value.UTC()
		if utc.Hour() == 0 && utc.Minute() == 0 && utc.Second() == 0 && utc.Nanosecond() == 0 {
			return utc.Format(time.DateOnly)
		}
		return utc.Format(time.RFC3339)
	default:
		return fmt.Sprint(value)
	}
}

// Fold returns the case-folded form of the given string, for locale-independent
// case-insensitive comparisons.
func Fold(str string) string {
	// Casers are stateful, so we make a new one for each call.
	return cases.Fold().String(str)
}

// EqualFold compares the string forms of two values case-insensitively.
func EqualFold(value1 any, value2 any) bool {
	return Fold(ToString(value1)) == Fold(ToString(value2))
}

// ContainsFold checks whether the string form of value contains the string form of substring,
// case-insensitively.
func ContainsFold(value any, substring any) bool {
	return strings.Contains(Fold(ToString(value)), Fold(ToString(substring)))
}

var currencySymbolStripper = strings.NewReplacer(
	"R$", "", "$", "", "€", "", "£", "", "¥", "", "₹", "", ",", "",
)

// ParseNumeric parses a cell value as a number for statistics and aggregation. Strings have
// currency symbols and thousands separators stripped, and are parsed from their leading numeric
// prefix (so "12 units" gives 12). Non-finite results are rejected.
func ParseNumeric(value any) (number float64, ok bool) {
	switch value := value.(type) {
	case float64:
		return value, isFinite(value)
	case float32:
		return float64(value), isFinite(float64(value))
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		return parseNumberPrefix(currencySymbolStripper.Replace(value))
	default:
		return 0, false
	}
}

var nonNumericChars = regexp.MustCompile(`[^0-9.\-]`)

// ParseLooseNumber parses a value for numeric filter comparisons, discarding every character
// that is not a digit, a dot or a minus sign before parsing.
func ParseLooseNumber(value any) (number float64, ok bool) {
	if value == nil {
		return 0, false
	}
	return parseNumberPrefix(nonNumericChars.ReplaceAllString(ToString(value), ""))
}

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

func parseNumberPrefix(str string) (number float64, ok bool) {
	prefix := numberPrefix.FindString(strings.TrimSpace(str))
	if prefix == "" {
		return 0, false
	}

	number, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return number, isFinite(number)
}

var strictNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

var thousandsSeparatorStripper = strings.NewReplacer(",", "", " ", "", "\t", "")

// IsStrictNumber checks whether the whole string, after removing thousands separators and
// whitespace, is a finite decimal number.
func IsStrictNumber(str string) bool {
	cleaned := thousandsSeparatorStripper.Replace(str)
	if !strictNumber.MatchString(cleaned) {
		return false
	}

	number, err := strconv.ParseFloat(cleaned, 64)
	return err == nil && isFinite(number)
}

func isFinite(number float64) bool {
	return !math.IsNaN(number) && !math.IsInf(number, 0)
}

type timeKey int64

// DistinctKey returns a comparable key for a cell value, so values can be counted in a map.
// Values of different types never share a key, so the number 1 and the string "1" are distinct.
func DistinctKey(value any) any {
	switch value := value.(type) {
	case nil, string, bool, float64, float32, int, int64:
		return value
	case time.Time:
		return timeKey(value.UnixNano())
	default:
		return fmt.Sprintf("%T:%v", value, value)
	}
}
