package csv

import (
	"encoding/csv"
	"io"

	"hermannm.dev/sheetlens/datatypes"
	"hermannm.dev/wrap"
)

// WriteRows writes the given rows as CSV with a header row, with columns in the given order.
// Values are written in their string form, and nil values as empty fields.
func WriteRows(output io.Writer, columnNames []string, rows []datatypes.Row) error {
	writer := csv.NewWriter(output)

	if err := writer.Write(columnNames); err != nil {
		return wrap.Error(err, "failed to write CSV header row")
	}

	record := make([]string, len(columnNames))
	for i, row := range rows {
		for j, columnName := range columnNames {
			record[j] = datatypes.ToString(row[columnName])
		}

		if err := writer.Write(record); err != nil {
			return wrap.Errorf(err, "failed to write CSV row %d", i+2)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return wrap.Error(err, "failed to flush CSV output")
	}
	return nil
}
