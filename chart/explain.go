package chart

import (
	"fmt"
	"strings"

	"hermannm.dev/sheetlens/datatypes"
)

// Explanation describes a chart configuration in words.
type Explanation struct {
	Text           string                `json:"text"`
	Dimension      string                `json:"dimension"`
	Metric         string                `json:"metric,omitempty"`
	Aggregation    datatypes.Aggregation `json:"aggregation"`
	ChartType      datatypes.ChartType   `json:"chartType"`
	DataPointCount int                   `json:"dataPointCount"`
}

var chartTypeLabels = map[datatypes.ChartType]string{
	datatypes.ChartTypeBar:     "bar chart",
	datatypes.ChartTypeLine:    "line chart",
	datatypes.ChartTypePie:     "pie chart",
	datatypes.ChartTypeArea:    "area chart",
	datatypes.ChartTypeScatter: "scatter plot",
}

// Explain describes the given configuration, for a chart with dataPointCount categories.
func Explain(config Configuration, dataPointCount int) Explanation {
	var text strings.Builder

	if config.HasMetric() {
		fmt.Fprintf(
			&text,
			"Showing the %s of %s grouped by %s",
			config.Aggregation.Label(),
			config.Metric,
			config.Dimension,
		)
	} else {
		fmt.Fprintf(&text, "Showing the count of records grouped by %s", config.Dimension)
	}

	chartTypeLabel, ok := chartTypeLabels[config.ChartType]
	if !ok {
		chartTypeLabel = "chart"
	}
	fmt.Fprintf(&text, " in a %s.", chartTypeLabel)

	switch dataPointCount {
	case 0:
	case 1:
		text.WriteString(" Showing 1 category.")
	default:
		fmt.Fprintf(&text, " Showing %d categories.", dataPointCount)
	}

	return Explanation{
		Text:           text.String(),
		Dimension:      config.Dimension,
		Metric:         config.Metric,
		Aggregation:    config.Aggregation,
		ChartType:      config.ChartType,
		DataPointCount: dataPointCount,
	}
}
