package schema

import (
	"regexp"
	"strings"
	"time"

	"hermannm.dev/sheetlens/datatypes"
)

// Type detection only looks at this many values from the start of a column.
const typeDetectionSampleSize = 200

// A column gets a type when more than this share of its sampled non-empty values look like that
// type. Types are checked in the order listed here, and the first to pass its threshold wins.
// Boolean comes first so that columns of "0"/"1" are booleans, not numbers. Date needs higher
// confidence than number, since date patterns overlap with numeric codes.
const (
	booleanRatioThreshold  = 0.85
	currencyRatioThreshold = 0.70
	dateRatioThreshold     = 0.85
	numberRatioThreshold   = 0.70
)

type valueKind uint8

const (
	valueEmpty valueKind = iota
	valueBoolean
	valueCurrency
	valueDate
	valueNumber
	valueText
)

var booleanTokens = map[string]struct{}{
	"true": {}, "false": {},
	"sim": {}, "não": {},
	"yes": {}, "no": {},
	"1": {}, "0": {},
	"s": {}, "n": {},
}

var (
	leadingCurrencySymbol  = regexp.MustCompile(`^(R\$|[$€£¥₹])\s*[\d.,]+`)
	trailingCurrencySymbol = regexp.MustCompile(`[\d.,]+\s*(R\$|[$€£¥₹])`)
	currencyWordSuffix     = regexp.MustCompile(`(?i)^[\d.,]+\s*(reais?|dollars?|euros?|pounds?)$`)
)

func detectColumnType(values []any) datatypes.ColumnType {
	sample := values
	if len(sample) > typeDetectionSampleSize {
		sample = sample[:typeDetectionSampleSize]
	}

	counts := make(map[valueKind]int, 6)
	for _, value := range sample {
		counts[classifyValue(value)]++
	}

	validCount := len(sample) - counts[valueEmpty]
	if validCount == 0 {
		return datatypes.ColumnTypeText
	}

	ratio := func(kind valueKind) float64 {
		return float64(counts[kind]) / float64(validCount)
	}

	switch {
	case ratio(valueBoolean) > booleanRatioThreshold:
		return datatypes.ColumnTypeBoolean
	case ratio(valueCurrency) > currencyRatioThreshold:
		return datatypes.ColumnTypeCurrency
	case ratio(valueDate) > dateRatioThreshold:
		return datatypes.ColumnTypeDate
	case ratio(valueNumber) > numberRatioThreshold:
		return datatypes.ColumnTypeNumber
	default:
		return datatypes.ColumnTypeText
	}
}

func classifyValue(value any) valueKind {
	if date, isTime := value.(time.Time); isTime {
		if _, ok := datatypes.ParseDate(date); ok {
			return valueDate
		}
		return valueText
	}

	str := strings.TrimSpace(datatypes.ToString(value))
	switch {
	case str == "":
		return valueEmpty
	case isBooleanLike(str):
		return valueBoolean
	case isCurrencyLike(str):
		return valueCurrency
	case datatypes.LooksLikeDate(str):
		return valueDate
	case datatypes.IsStrictNumber(str):
		return valueNumber
	default:
		return valueText
	}
}

func isBooleanLike(str string) bool {
	_, ok := booleanTokens[datatypes.Fold(str)]
	return ok
}

// A value is currency-like if it has a currency symbol before or after its digits, or a
// currency name suffix. Apart from the "R$" symbol and the suffix, it may not contain letters.
func isCurrencyLike(str string) bool {
	if currencyWordSuffix.MatchString(str) {
		return true
	}

	if datatypes.HasLetters(strings.ReplaceAll(str, "R$", "")) {
		return false
	}

	return leadingCurrencySymbol.MatchString(str) || trailingCurrencySymbol.MatchString(str)
}
