package datatypes

import (
	"hermannm.dev/enumnames"
)

// ColumnType is the semantic type inferred for a column. A column always has exactly one valid
// type; columns with no usable values are typed as text.
type ColumnType uint8

const (
	ColumnTypeText ColumnType = iota + 1
	ColumnTypeNumber
	ColumnTypeDate
	ColumnTypeBoolean
	ColumnTypeCurrency
)

var columnTypeMap = enumnames.NewMap(map[ColumnType]string{
	ColumnTypeText:     "text",
	ColumnTypeNumber:   "number",
	ColumnTypeDate:     "date",
	ColumnTypeBoolean:  "boolean",
	ColumnTypeCurrency: "currency",
})

func (columnType ColumnType) IsValid() bool {
	return columnTypeMap.ContainsEnumValue(columnType)
}

// IsNumeric returns true for the types that can be numerically aggregated.
func (columnType ColumnType) IsNumeric() bool {
	return columnType == ColumnTypeNumber || columnType == ColumnTypeCurrency
}

func (columnType ColumnType) String() string {
	return columnTypeMap.GetNameOrFallback(columnType, "INVALID_COLUMN_TYPE")
}

func (columnType ColumnType) MarshalJSON() ([]byte, error) {
	return columnTypeMap.MarshalToNameJSON(columnType)
}

func (columnType *ColumnType) UnmarshalJSON(bytes []byte) error {
	return columnTypeMap.UnmarshalFromNameJSON(bytes, columnType)
}
