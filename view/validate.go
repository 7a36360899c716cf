package view

import (
	"hermannm.dev/sheetlens/datatypes"
	"hermannm.dev/sheetlens/schema"
)

// Validate checks that the given view columns can be applied to a dataset with the given schema.
func Validate(columns []Column, schemaColumns []schema.ColumnMetadata) datatypes.Validation {
	if len(columns) == 0 {
		return datatypes.Invalid("Select at least one column")
	}

	for _, column := range columns {
		metadata, found := schema.Find(schemaColumns, column.ColumnName)
		if !found {
			return datatypes.Invalid("Column '%s' not found", column.ColumnName)
		}

		if column.Aggregation != 0 && !column.Aggregation.IsValid() {
			return datatypes.Invalid("Column '%s' has an invalid aggregation", column.ColumnName)
		}

		switch column.Role {
		case datatypes.RoleMetric:
			if !metadata.CanBe(datatypes.RoleMetric) {
				return datatypes.Invalid(
					"Column '%s' cannot be used as a metric",
					column.ColumnName,
				)
			}
			if column.HasAggregation() && column.Aggregation != datatypes.AggregationCount &&
				!metadata.Type.IsNumeric() {
				return datatypes.Invalid(
					"Aggregation '%s' requires a numeric column, but '%s' has type '%s'",
					column.Aggregation,
					column.ColumnName,
					metadata.Type,
				)
			}
		case datatypes.RoleDimension:
			if !metadata.CanBe(datatypes.RoleDimension) {
				return datatypes.Invalid(
					"Column '%s' cannot be used as a dimension",
					column.ColumnName,
				)
			}
		default:
			return datatypes.Invalid(
				"Column '%s' must be used as either a dimension or a metric",
				column.ColumnName,
			)
		}
	}

	return datatypes.Valid()
}
