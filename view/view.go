package view

import (
	"hermannm.dev/sheetlens/datatypes"
	"hermannm.dev/sheetlens/schema"
)

// Column is a column selected for a view, with the role it plays there.
type Column struct {
	ColumnName string         `json:"columnName"`
	Role       datatypes.Role `json:"role"`
	// Zero if the column is not aggregated.
	Aggregation datatypes.Aggregation `json:"aggregation,omitempty"`
}

func (column Column) HasAggregation() bool {
	return column.Aggregation != 0
}

// ColumnNames returns the names of the given view columns, in view order.
func ColumnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, column := range columns {
		names[i] = column.ColumnName
	}
	return names
}

type partition struct {
	dimensions     []Column
	metrics        []Column
	hasAggregation bool
}

func partitionColumns(columns []Column) partition {
	var parts partition
	for _, column := range columns {
		switch column.Role {
		case datatypes.RoleDimension:
			parts.dimensions = append(parts.dimensions, column)
		case datatypes.RoleMetric:
			parts.metrics = append(parts.metrics, column)
			if column.HasAggregation() {
				parts.hasAggregation = true
			}
		}
	}
	return parts
}

// Apply projects the rows onto the given view columns:
//   - If any metric is aggregated, rows are grouped by their dimension values, and each metric
//     is aggregated per group. Metrics without an aggregation are counted.
//   - If only dimensions are selected, the distinct combinations of their values are returned.
//   - Otherwise, the selected columns of every row are returned unaggregated.
//
// Output rows are always new maps; the input rows are not modified.
func Apply(
	rows []datatypes.Row,
	columns []Column,
	schemaColumns []schema.ColumnMetadata,
) []datatypes.Row {
	if len(columns) == 0 {
		return []datatypes.Row{}
	}

	parts := partitionColumns(columns)

	switch {
	case parts.hasAggregation:
		return applyAggregation(rows, parts, schemaColumns)
	case len(parts.dimensions) > 0 && len(parts.metrics) == 0:
		return distinctCombinations(rows, ColumnNames(parts.dimensions))
	default:
		return selectColumns(rows, ColumnNames(columns))
	}
}

func applyAggregation(
	rows []datatypes.Row,
	parts partition,
	schemaColumns []schema.ColumnMetadata,
) []datatypes.Row {
	dimensionNames := ColumnNames(parts.dimensions)

	// Metrics unknown to the schema are left out when a schema is given.
	metrics := make([]Column, 0, len(parts.metrics))
	for _, metric := range parts.metrics {
		if len(schemaColumns) > 0 {
			if _, found := schema.Find(schemaColumns, metric.ColumnName); !found {
				continue
			}
		}
		metrics = append(metrics, metric)
	}

	groups := GroupRows(rows, dimensionNames)

	aggregated := make([]datatypes.Row, 0, len(groups))
	for _, group := range groups {
		row := make(datatypes.Row, len(dimensionNames)+len(metrics))
		for i, name := range dimensionNames {
			row[name] = group.DimensionValues[i]
		}

		for _, metric := range metrics {
			aggregation := metric.Aggregation
			if !metric.HasAggregation() {
				aggregation = datatypes.AggregationCount
			}

			if result, ok := Aggregate(
				aggregation,
				NumericValues(group.Rows, metric.ColumnName),
				len(group.Rows),
			); ok {
				row[metric.ColumnName] = result
			} else {
				row[metric.ColumnName] = nil
			}
		}

		aggregated = append(aggregated, row)
	}
	return aggregated
}

func distinctCombinations(rows []datatypes.Row, columnNames []string) []datatypes.Row {
	seen := make(map[string]struct{})
	combinations := make([]datatypes.Row, 0)
	for _, row := range rows {
		key := groupKey(row, columnNames)
		if _, alreadySeen := seen[key]; alreadySeen {
			continue
		}
		seen[key] = struct{}{}
		combinations = append(combinations, selectRow(row, columnNames))
	}
	return combinations
}

func selectColumns(rows []datatypes.Row, columnNames []string) []datatypes.Row {
	selected := make([]datatypes.Row, len(rows))
	for i, row := range rows {
		selected[i] = selectRow(row, columnNames)
	}
	return selected
}

func selectRow(row datatypes.Row, columnNames []string) datatypes.Row {
	selected := make(datatypes.Row, len(columnNames))
	for _, name := range columnNames {
		selected[name] = row[name]
	}
	return selected
}
