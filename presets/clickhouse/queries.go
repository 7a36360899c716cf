package clickhouse

// Column names of the saved filters table.
const (
	columnID           = "id"
	columnName         = "name"
	columnDescription  = "description"
	columnFilterGroups = "filter_groups"
	columnSheetName    = "sheet_name"
	columnCreatedAt    = "created_at"
	columnUpdatedAt    = "updated_at"
)

// In the order that they are inserted and selected.
var presetColumns = []string{
	columnID,
	columnName,
	columnDescription,
	columnFilterGroups,
	columnSheetName,
	columnCreatedAt,
	columnUpdatedAt,
}

// Presets are updated by inserting a new row with the same ID, so the table uses a
// ReplacingMergeTree that keeps the row with the latest update time. Queries read with FINAL to
// see only the latest version.
func buildCreateTableQuery(table string) string {
	var query QueryBuilder
	query.WriteString("CREATE TABLE IF NOT EXISTS ")
	query.WriteIdentifier(table)
	query.WriteString(" (")

	query.WriteIdentifier(columnID)
	query.WriteString(" String, ")
	query.WriteIdentifier(columnName)
	query.WriteString(" String, ")
	query.WriteIdentifier(columnDescription)
	query.WriteString(" String, ")
	query.WriteIdentifier(columnFilterGroups)
	query.WriteString(" String, ")
	query.WriteIdentifier(columnSheetName)
	query.WriteString(" String, ")
	query.WriteIdentifier(columnCreatedAt)
	query.WriteString(" DateTime64(3, 'UTC'), ")
	query.WriteIdentifier(columnUpdatedAt)
	query.WriteString(" DateTime64(3, 'UTC'))")

	query.WriteString(" ENGINE = ReplacingMergeTree(")
	query.WriteIdentifier(columnUpdatedAt)
	query.WriteString(") ORDER BY (")
	query.WriteIdentifier(columnID)
	query.WriteByte(')')

	return query.String()
}

func buildInsertQuery(table string) string {
	var query QueryBuilder
	query.WriteString("INSERT INTO ")
	query.WriteIdentifier(table)
	query.WriteString(" (")
	query.WriteIdentifierList(presetColumns...)
	query.WriteString(") VALUES ")
	query.WritePlaceholders(len(presetColumns))
	return query.String()
}

// Builds a select of all preset columns, optionally filtered by equality on one column (bound to
// a ? parameter). Leave whereColumn empty to select all rows.
func buildSelectQuery(table string, whereColumn string) string {
	var query QueryBuilder
	query.WriteString("SELECT ")
	query.WriteIdentifierList(presetColumns...)
	query.WriteString(" FROM ")
	query.WriteIdentifier(table)
	query.WriteString(" FINAL")

	if whereColumn != "" {
		query.WriteString(" WHERE (")
		query.WriteIdentifier(whereColumn)
		query.WriteString(" = ?)")
	}

	query.WriteString(" ORDER BY (")
	query.WriteIdentifierList(columnCreatedAt, columnID)
	query.WriteByte(')')

	return query.String()
}

func buildDeleteQuery(table string) string {
	var query QueryBuilder
	query.WriteString("DELETE FROM ")
	query.WriteIdentifier(table)
	query.WriteString(" WHERE (")
	query.WriteIdentifier(columnID)
	query.WriteString(" = ?)")
	return query.String()
}
