package schema

import (
	"maps"
	"slices"
	"time"

	"hermannm.dev/sheetlens/datatypes"
)

// A column may be used as a dimension when it has at most this many distinct values, and its
// distinct values make up less than the given share of all rows.
const (
	maxDimensionCardinality      = 20
	maxDimensionCardinalityRatio = 0.1
)

// Unique values are listed in the metadata only for columns with at most this many of them.
const (
	maxListedCategoricalValues = 100
	maxListedNumericValues     = 50
)

// InferSheet infers metadata for every column of the given sheet, in source column order.
func InferSheet(sheet datatypes.Sheet) []ColumnMetadata {
	return Infer(sheet.Columns, sheet.Rows)
}

// InferRows infers metadata for every column present in the given rows. Since rows carry no
// column order, columns are returned sorted by name.
func InferRows(rows []datatypes.Row) []ColumnMetadata {
	if len(rows) == 0 {
		return []ColumnMetadata{}
	}

	columnNames := make(map[string]struct{})
	for _, row := range rows {
		for name := range row {
			columnNames[name] = struct{}{}
		}
	}

	return Infer(slices.Sorted(maps.Keys(columnNames)), rows)
}

// Infer produces metadata for the given columns, with one entry per column in the given order.
// The output depends only on the input: calling it twice on the same rows gives equal results.
func Infer(columnNames []string, rows []datatypes.Row) []ColumnMetadata {
	columns := make([]ColumnMetadata, 0, len(columnNames))
	if len(rows) == 0 {
		return columns
	}

	for _, name := range columnNames {
		columns = append(columns, inferColumn(name, rows))
	}
	return columns
}

func inferColumn(name string, rows []datatypes.Row) ColumnMetadata {
	values := make([]any, 0, len(rows))
	nullCount := 0
	for _, row := range rows {
		value := row[name]
		if datatypes.IsEmpty(value) {
			nullCount++
		} else {
			values = append(values, value)
		}
	}

	distinctValues := distinct(values)

	column := ColumnMetadata{
		Name: name,
		Type: detectColumnType(values),
		Stats: Stats{
			DistinctCount: len(distinctValues),
			NullCount:     nullCount,
		},
	}

	isLowCardinality := len(distinctValues) <= maxDimensionCardinality &&
		float64(len(distinctValues)) < float64(len(rows))*maxDimensionCardinalityRatio

	switch column.Type {
	case datatypes.ColumnTypeNumber, datatypes.ColumnTypeCurrency:
		column.PossibleRoles = datatypes.ResolveRoles(isLowCardinality, true)
		addNumericStats(&column, values)
		if len(distinctValues) <= maxListedNumericValues {
			column.UniqueValues = distinctValues
		}
	case datatypes.ColumnTypeDate:
		column.PossibleRoles = datatypes.ResolveRoles(true, false)
		addDateStats(&column, values)
	case datatypes.ColumnTypeText, datatypes.ColumnTypeBoolean:
		column.PossibleRoles = datatypes.ResolveRoles(true, false)
		if len(distinctValues) <= maxListedCategoricalValues {
			column.UniqueValues = distinctValues
		}
	}

	return column
}

// distinct returns the distinct values in order of first occurrence.
func distinct(values []any) []any {
	seen := make(map[any]struct{}, len(values))
	distinctValues := make([]any, 0)
	for _, value := range values {
		key := datatypes.DistinctKey(value)
		if _, alreadySeen := seen[key]; alreadySeen {
			continue
		}
		seen[key] = struct{}{}
		distinctValues = append(distinctValues, value)
	}
	return distinctValues
}

func addNumericStats(column *ColumnMetadata, values []any) {
	var minValue, maxValue, sum float64
	count := 0
	for _, value := range values {
		number, ok := datatypes.ParseNumeric(value)
		if !ok {
			continue
		}

		if count == 0 || number < minValue {
			minValue = number
		}
		if count == 0 || number > maxValue {
			maxValue = number
		}
		sum += number
		count++
	}

	if count == 0 {
		return
	}

	avg := sum / float64(count)
	column.Stats.Min = &minValue
	column.Stats.Max = &maxValue
	column.Stats.Avg = &avg
	column.Min = column.Stats.Min
	column.Max = column.Stats.Max
}

func addDateStats(column *ColumnMetadata, values []any) {
	var minDate, maxDate time.Time
	found := false
	for _, value := range values {
		date, ok := datatypes.ParseDate(value)
		if !ok {
			continue
		}

		if !found || date.Before(minDate) {
			minDate = date
		}
		if !found || date.After(maxDate) {
			maxDate = date
		}
		found = true
	}

	if !found {
		return
	}

	column.Stats.MinDate = &minDate
	column.Stats.MaxDate = &maxDate
	column.MinDate = column.Stats.MinDate
	column.MaxDate = column.Stats.MaxDate
}
