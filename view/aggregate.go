package view

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"hermannm.dev/sheetlens/datatypes"
)

// RowGroup is a set of rows sharing the same values for a list of dimension columns.
type RowGroup struct {
	// The dimension values of the first row in the group, in dimension order.
	DimensionValues []any
	Rows            []datatypes.Row
}

// Separates dimension values in group keys. It is a control character, so it is unlikely to
// appear in cell values.
const groupKeySeparator = "\x1f"

// GroupRows groups rows by the string forms of their values for the given dimension columns.
// Groups are returned in order of first occurrence. With no dimensions, all rows form a single
// group (if there are any rows).
func GroupRows(rows []datatypes.Row, dimensionNames []string) []RowGroup {
	indexByKey := make(map[string]int)
	groups := make([]RowGroup, 0)

	for _, row := range rows {
		key := groupKey(row, dimensionNames)

		index, exists := indexByKey[key]
		if !exists {
			dimensionValues := make([]any, len(dimensionNames))
			for i, name := range dimensionNames {
				dimensionValues[i] = row[name]
			}

			index = len(groups)
			indexByKey[key] = index
			groups = append(groups, RowGroup{DimensionValues: dimensionValues})
		}

		groups[index].Rows = append(groups[index].Rows, row)
	}

	return groups
}

func groupKey(row datatypes.Row, columnNames []string) string {
	var key strings.Builder
	for i, name := range columnNames {
		if i != 0 {
			key.WriteString(groupKeySeparator)
		}
		key.WriteString(datatypes.ToString(row[name]))
	}
	return key.String()
}

// NumericValues returns the values of the given column that parse as finite numbers, skipping
// empty and unparseable cells.
func NumericValues(rows []datatypes.Row, columnName string) []float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		value := row[columnName]
		if datatypes.IsEmpty(value) {
			continue
		}
		if number, ok := datatypes.ParseNumeric(value); ok {
			values = append(values, number)
		}
	}
	return values
}

// Aggregate computes the given aggregation over a group's parsed values. Count is the number of
// rows in the group, regardless of how many of its values parsed. With no values, sum and avg
// give 0, while max and min give ok=false.
//
// Sums are accumulated as decimals, so currency amounts add up exactly.
func Aggregate(
	aggregation datatypes.Aggregation,
	values []float64,
	rowCount int,
) (result float64, ok bool) {
	switch aggregation {
	case datatypes.AggregationCount:
		return float64(rowCount), true
	case datatypes.AggregationSum:
		if len(values) == 0 {
			return 0, true
		}
		sum, _ := decimalSum(values).Float64()
		return sum, true
	case datatypes.AggregationAverage:
		if len(values) == 0 {
			return 0, true
		}
		avg, _ := decimalSum(values).Div(decimal.NewFromInt(int64(len(values)))).Float64()
		return avg, true
	case datatypes.AggregationMax:
		if len(values) == 0 {
			return 0, false
		}
		return slices.Max(values), true
	case datatypes.AggregationMin:
		if len(values) == 0 {
			return 0, false
		}
		return slices.Min(values), true
	default:
		return 0, false
	}
}

func decimalSum(values []float64) decimal.Decimal {
	sum := decimal.Zero
	for _, value := range values {
		sum = sum.Add(decimal.NewFromFloat(value))
	}
	return sum
}
