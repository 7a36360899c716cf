package schema

import (
	"time"

	"hermannm.dev/sheetlens/datatypes"
)

// ColumnMetadata describes one column of a loaded dataset, as inferred by Infer. It is never
// modified after inference; loading a new dataset produces new metadata.
type ColumnMetadata struct {
	Name          string               `json:"name"`
	Type          datatypes.ColumnType `json:"type"`
	PossibleRoles []datatypes.Role     `json:"possibleRoles"`
	Stats         Stats                `json:"stats"`
	// Only present when the column has few enough distinct values to list them for selection.
	UniqueValues []any `json:"uniqueValues,omitempty"`

	// Flat copies of the numeric/date range in Stats, for consumers of the older metadata shape.
	Min     *float64   `json:"min,omitempty"`
	Max     *float64   `json:"max,omitempty"`
	MinDate *time.Time `json:"minDate,omitempty"`
	MaxDate *time.Time `json:"maxDate,omitempty"`
}

type Stats struct {
	DistinctCount int `json:"distinctCount"`
	NullCount     int `json:"nullCount"`

	// May only be present for number and currency columns.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
	Avg *float64 `json:"avg,omitempty"`

	// May only be present for date columns.
	MinDate *time.Time `json:"minDate,omitempty"`
	MaxDate *time.Time `json:"maxDate,omitempty"`
}

// CanBe checks whether the column may be used in the given role.
func (column ColumnMetadata) CanBe(role datatypes.Role) bool {
	return datatypes.SupportsRole(column.PossibleRoles, role)
}

// Find returns the column with the given name.
func Find(columns []ColumnMetadata, name string) (column ColumnMetadata, found bool) {
	for _, candidate := range columns {
		if candidate.Name == name {
			return candidate, true
		}
	}
	return ColumnMetadata{}, false
}

// WithRole returns the columns that may be used in the given role, in schema order.
func WithRole(columns []ColumnMetadata, role datatypes.Role) []ColumnMetadata {
	var matching []ColumnMetadata
	for _, column := range columns {
		if column.CanBe(role) {
			matching = append(matching, column)
		}
	}
	return matching
}
