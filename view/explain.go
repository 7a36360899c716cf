package view

import (
	"fmt"
	"strings"
)

// Explanation describes a view in words, for display next to its output.
type Explanation struct {
	Text           string   `json:"text"`
	Dimensions     []string `json:"dimensions"`
	Metrics        []string `json:"metrics"`
	HasAggregation bool     `json:"hasAggregation"`
	RowCount       int      `json:"rowCount"`
}

// Explain describes the given view columns, for a view output of rowCount rows.
func Explain(columns []Column, rowCount int) Explanation {
	parts := partitionColumns(columns)

	explanation := Explanation{
		Dimensions:     ColumnNames(parts.dimensions),
		Metrics:        ColumnNames(parts.metrics),
		HasAggregation: parts.hasAggregation,
		RowCount:       rowCount,
	}

	var text strings.Builder
	switch {
	case len(parts.dimensions) == 0 && len(parts.metrics) == 0:
		explanation.Text = "No columns selected"
		return explanation
	case len(parts.metrics) == 0:
		fmt.Fprintf(&text, "Showing unique combinations of %s", joinNames(explanation.Dimensions))
	case len(parts.dimensions) == 0:
		fmt.Fprintf(&text, "Showing %s", joinNames(metricDescriptions(parts.metrics)))
	default:
		fmt.Fprintf(
			&text,
			"Grouped by %s, showing %s",
			joinNames(explanation.Dimensions),
			joinNames(metricDescriptions(parts.metrics)),
		)
	}

	switch rowCount {
	case 0:
	case 1:
		text.WriteString(". 1 record shown.")
	default:
		fmt.Fprintf(&text, ". %d records shown.", rowCount)
	}

	explanation.Text = text.String()
	return explanation
}

func metricDescriptions(metrics []Column) []string {
	descriptions := make([]string, len(metrics))
	for i, metric := range metrics {
		if metric.HasAggregation() {
			descriptions[i] = fmt.Sprintf("%s of %s", metric.Aggregation.Label(), metric.ColumnName)
		} else {
			descriptions[i] = metric.ColumnName
		}
	}
	return descriptions
}

// joinNames joins names as "a", "a and b" or "a, b and c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
