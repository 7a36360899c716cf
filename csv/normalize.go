package csv

import (
	"strings"
)

// Spreadsheet error values that are exported as plain text.
var spreadsheetErrorTokens = map[string]struct{}{
	"#DIV/0!": {},
	"#N/A":    {},
	"#VALUE!": {},
	"#REF!":   {},
	"#NAME?":  {},
	"#NUM!":   {},
}

// NormalizeCell trims the given raw cell, and returns nil for cells with no usable value: empty
// cells, uncalculated formulas (starting with '=') and spreadsheet error values.
func NormalizeCell(rawCell string) any {
	cell := strings.TrimSpace(rawCell)

	if cell == "" || strings.HasPrefix(cell, "=") {
		return nil
	}
	if _, isError := spreadsheetErrorTokens[cell]; isError {
		return nil
	}

	return cell
}
