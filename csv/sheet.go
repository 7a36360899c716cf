package csv

import (
	"fmt"
	"io"
	"strings"

	"hermannm.dev/sheetlens/datatypes"
	"hermannm.dev/sheetlens/log"
	"hermannm.dev/wrap"
)

// ParseSheet reads the given CSV file into a sheet with the given name. The first row is the
// header row.
func ParseSheet(csvFile io.ReadSeeker, sheetName string) (datatypes.Sheet, error) {
	reader, err := NewReader(csvFile)
	if err != nil {
		return datatypes.Sheet{}, wrap.Error(err, "failed to initialize CSV reader")
	}
	log.Debug("deduced CSV field delimiter", "sheet", sheetName, "delimiter", string(reader.Delimiter()))

	return reader.ReadSheet(sheetName)
}

// ReadSheet reads the remaining file from the header row into a sheet. Cells are normalized with
// NormalizeCell. Rows shorter than the header are padded with nil, and rows consisting only of
// empty cells are skipped.
func (reader *Reader) ReadSheet(sheetName string) (datatypes.Sheet, error) {
	header, err := reader.ReadHeaderRow()
	if err != nil {
		return datatypes.Sheet{}, wrap.Error(err, "failed to read CSV column names from header row")
	}

	sheet := datatypes.Sheet{Name: sheetName, Columns: ColumnNames(header), Rows: []datatypes.Row{}}

	truncatedRows := 0
	for {
		record, rowNumber, done, err := reader.ReadRow()
		if done {
			break
		}
		if err != nil {
			return datatypes.Sheet{}, err
		}

		if len(record) > len(sheet.Columns) {
			truncatedRows++
		}

		row := make(datatypes.Row, len(sheet.Columns))
		hasValue := false
		for i, columnName := range sheet.Columns {
			var value any
			if i < len(record) {
				value = NormalizeCell(record[i])
			}
			row[columnName] = value
			if value != nil {
				hasValue = true
			}
		}

		if hasValue {
			sheet.Rows = append(sheet.Rows, row)
		} else {
			log.Debug("skipping empty CSV row", "sheet", sheetName, "row", rowNumber)
		}
	}

	if truncatedRows > 0 {
		log.Warn(
			"CSV rows had more fields than the header row, extra fields were ignored",
			"sheet", sheetName,
			"rows", truncatedRows,
		)
	}

	return sheet, nil
}

const byteOrderMark = "\ufeff"

// ColumnNames makes unique, non-empty column names from a header row. Blank names become
// "Column N" (N being the 1-based position), and repeated names get a " (2)", " (3)"... suffix.
func ColumnNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))

	for i, rawName := range header {
		name := strings.TrimSpace(strings.TrimPrefix(rawName, byteOrderMark))
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}

		unique := name
		for suffix := 2; ; suffix++ {
			if _, taken := seen[unique]; !taken {
				break
			}
			unique = fmt.Sprintf("%s (%d)", name, suffix)
		}

		seen[unique] = struct{}{}
		names[i] = unique
	}

	return names
}
