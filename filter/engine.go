package filter

import (
	"reflect"
	"time"

	"hermannm.dev/sheetlens/datatypes"
	"hermannm.dev/sheetlens/schema"
)

// Apply returns the rows that pass every group, in their original order. Columns are used for
// type-aware comparisons, and may be nil if no schema is available.
func Apply(rows []datatypes.Row, groups []Group, columns []schema.ColumnMetadata) []datatypes.Row {
	if len(groups) == 0 {
		return rows
	}

	evaluator := newEvaluator(columns)

	passing := make([]datatypes.Row, 0, len(rows))
	for _, row := range rows {
		if evaluator.passesAll(row, groups) {
			passing = append(passing, row)
		}
	}
	return passing
}

// EvaluateRule checks a single rule against a row.
func EvaluateRule(row datatypes.Row, rule Rule, columns []schema.ColumnMetadata) bool {
	return newEvaluator(columns).evaluateRule(row, rule)
}

type evaluator struct {
	columnTypes map[string]datatypes.ColumnType
}

func newEvaluator(columns []schema.ColumnMetadata) evaluator {
	columnTypes := make(map[string]datatypes.ColumnType, len(columns))
	for _, column := range columns {
		columnTypes[column.Name] = column.Type
	}
	return evaluator{columnTypes: columnTypes}
}

func (evaluator evaluator) passesAll(row datatypes.Row, groups []Group) bool {
	for _, group := range groups {
		if !evaluator.passesGroup(row, group) {
			return false
		}
	}
	return true
}

func (evaluator evaluator) passesGroup(row datatypes.Row, group Group) bool {
	if len(group.Rules) == 0 {
		return true
	}

	if group.Logic == LogicOr {
		for _, rule := range group.Rules {
			if evaluator.evaluateRule(row, rule) {
				return true
			}
		}
		return false
	}

	for _, rule := range group.Rules {
		if !evaluator.evaluateRule(row, rule) {
			return false
		}
	}
	return true
}

func (evaluator evaluator) evaluateRule(row datatypes.Row, rule Rule) bool {
	cellValue := row[rule.ColumnName]

	// notEquals is the only operator that can match against emptiness.
	if rule.Operator != OperatorNotEquals &&
		(datatypes.IsEmpty(cellValue) || datatypes.IsEmpty(rule.Value)) {
		return false
	}

	if evaluator.columnTypes[rule.ColumnName] == datatypes.ColumnTypeDate {
		return evaluateDateRule(cellValue, rule)
	}

	if _, ok := datatypes.ParseDate(cellValue); ok {
		if _, ok := datatypes.ParseDate(rule.Value); ok {
			return evaluateDateRule(cellValue, rule)
		}
	}

	return evaluateValueRule(cellValue, rule)
}

func evaluateDateRule(cellValue any, rule Rule) bool {
	cellDate, cellOK := datatypes.ParseDate(cellValue)
	filterDate, filterOK := datatypes.ParseDate(rule.Value)

	if !cellOK || !filterOK {
		return datatypes.EqualFold(cellValue, rule.Value)
	}

	cellTime := cellDate.UnixMilli()
	filterTime := filterDate.UnixMilli()

	switch rule.Operator {
	case OperatorEquals:
		return cellTime == filterTime
	case OperatorNotEquals:
		return cellTime != filterTime
	case OperatorGreaterThan:
		return cellTime > filterTime
	case OperatorLessThan:
		return cellTime < filterTime
	case OperatorBetween:
		filterDate2, ok := datatypes.ParseDate(rule.Value2)
		if !ok {
			return false
		}
		return inRange(cellDate, filterDate, filterDate2)
	default:
		return true
	}
}

func evaluateValueRule(cellValue any, rule Rule) bool {
	switch rule.Operator {
	case OperatorEquals:
		return datatypes.EqualFold(cellValue, rule.Value)
	case OperatorNotEquals:
		return !datatypes.EqualFold(cellValue, rule.Value)
	case OperatorContains:
		return datatypes.ContainsFold(cellValue, rule.Value)
	case OperatorNotContains:
		return !datatypes.ContainsFold(cellValue, rule.Value)
	case OperatorGreaterThan, OperatorLessThan, OperatorBetween:
		return evaluateNumericRule(cellValue, rule)
	case OperatorIn:
		return matchesAny(cellValue, rule.Value)
	default:
		return true
	}
}

func evaluateNumericRule(cellValue any, rule Rule) bool {
	number, ok := datatypes.ParseLooseNumber(cellValue)
	if !ok {
		return false
	}
	filterNumber, ok := datatypes.ParseLooseNumber(rule.Value)
	if !ok {
		return false
	}

	switch rule.Operator {
	case OperatorGreaterThan:
		return number > filterNumber
	case OperatorLessThan:
		return number < filterNumber
	case OperatorBetween:
		filterNumber2, ok := datatypes.ParseLooseNumber(rule.Value2)
		if !ok {
			return false
		}
		return number >= min(filterNumber, filterNumber2) &&
			number <= max(filterNumber, filterNumber2)
	default:
		return false
	}
}

// Bounds may be given in either order.
func inRange(date time.Time, bound1 time.Time, bound2 time.Time) bool {
	lower, upper := bound1.UnixMilli(), bound2.UnixMilli()
	if lower > upper {
		lower, upper = upper, lower
	}
	value := date.UnixMilli()
	return value >= lower && value <= upper
}

// matchesAny checks whether the cell equals any element of candidates, case-insensitively.
// Candidates that are not a slice never match.
func matchesAny(cellValue any, candidates any) bool {
	switch candidates := candidates.(type) {
	case []any:
		for _, candidate := range candidates {
			if datatypes.EqualFold(cellValue, candidate) {
				return true
			}
		}
		return false
	case []string:
		for _, candidate := range candidates {
			if datatypes.EqualFold(cellValue, candidate) {
				return true
			}
		}
		return false
	}

	reflected := reflect.ValueOf(candidates)
	if reflected.Kind() != reflect.Slice && reflected.Kind() != reflect.Array {
		return false
	}
	for i := range reflected.Len() {
		if datatypes.EqualFold(cellValue, reflected.Index(i).Interface()) {
			return true
		}
	}
	return false
}
