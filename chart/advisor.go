package chart

import (
	"hermannm.dev/sheetlens/datatypes"
	"hermannm.dev/sheetlens/schema"
)

// Configuration is what a chart shows: a dimension to group by, and an aggregated metric.
type Configuration struct {
	Dimension string `json:"dimension"`
	// Empty when the chart counts records instead of aggregating a metric column.
	Metric      string                `json:"metric,omitempty"`
	Aggregation datatypes.Aggregation `json:"aggregation,omitempty"`
	ChartType   datatypes.ChartType   `json:"chartType,omitempty"`
}

func (config Configuration) HasMetric() bool {
	return config.Metric != ""
}

// Metrics with a minimum of at least 0 and a maximum below this are assumed to be quantities
// that make sense to sum. Others (IDs, rates, large measurements) are averaged.
const sumMaxThreshold = 1_000_000

// Dimensions with at most this many distinct values are shown as pie charts, unless records are
// just counted.
const maxPieCategories = 5

// Dimensions with more distinct values than this are always shown as bar charts.
const maxNonBarCategories = 20

// SuggestCompatibleMetrics returns the columns that may be used as metrics together with the
// given dimension, in schema order. If the dimension is not in the schema, none are returned.
func SuggestCompatibleMetrics(
	dimension string,
	columns []schema.ColumnMetadata,
) []schema.ColumnMetadata {
	if _, found := schema.Find(columns, dimension); !found {
		return []schema.ColumnMetadata{}
	}
	return withRoleExcluding(columns, datatypes.RoleMetric, dimension)
}

// SuggestCompatibleDimensions returns the columns that may be used as dimensions together with
// the given metric, in schema order. An empty metric means records are counted, which works with
// every dimension. If the metric is not in the schema, none are returned.
func SuggestCompatibleDimensions(
	metric string,
	columns []schema.ColumnMetadata,
) []schema.ColumnMetadata {
	if metric == "" {
		return withRoleExcluding(columns, datatypes.RoleDimension, "")
	}
	if _, found := schema.Find(columns, metric); !found {
		return []schema.ColumnMetadata{}
	}
	return withRoleExcluding(columns, datatypes.RoleDimension, metric)
}

func withRoleExcluding(
	columns []schema.ColumnMetadata,
	role datatypes.Role,
	excludedName string,
) []schema.ColumnMetadata {
	matching := make([]schema.ColumnMetadata, 0, len(columns))
	for _, column := range columns {
		if column.Name != excludedName && column.CanBe(role) {
			matching = append(matching, column)
		}
	}
	return matching
}

// SuggestAggregation suggests how to aggregate the given metric column. A nil metric means
// records are counted.
func SuggestAggregation(metric *schema.ColumnMetadata) datatypes.Aggregation {
	if metric == nil || !metric.Type.IsNumeric() {
		return datatypes.AggregationCount
	}

	stats := metric.Stats
	if stats.Min != nil && stats.Max != nil && *stats.Min >= 0 && *stats.Max < sumMaxThreshold {
		return datatypes.AggregationSum
	}
	return datatypes.AggregationAverage
}

// SuggestChartType suggests a chart type for the given dimension column and aggregation. The
// checks are applied in order: few categories give a pie chart (unless counting), many
// categories give a bar chart, and dates give a line chart for counts and an area chart
// otherwise. Everything else is a bar chart.
func SuggestChartType(
	dimension schema.ColumnMetadata,
	aggregation datatypes.Aggregation,
) datatypes.ChartType {
	distinctCount := dimension.Stats.DistinctCount

	switch {
	case distinctCount <= maxPieCategories && aggregation != datatypes.AggregationCount:
		return datatypes.ChartTypePie
	case distinctCount > maxNonBarCategories:
		return datatypes.ChartTypeBar
	case dimension.Type == datatypes.ColumnTypeDate:
		if aggregation == datatypes.AggregationCount {
			return datatypes.ChartTypeLine
		}
		return datatypes.ChartTypeArea
	default:
		return datatypes.ChartTypeBar
	}
}

// Validate checks that the given configuration can be charted for a dataset with the given
// schema.
func Validate(config Configuration, columns []schema.ColumnMetadata) datatypes.Validation {
	dimension, found := schema.Find(columns, config.Dimension)
	if !found {
		return datatypes.Invalid("Dimension '%s' not found", config.Dimension)
	}
	if !dimension.CanBe(datatypes.RoleDimension) {
		return datatypes.Invalid("Column '%s' cannot be used as a dimension", config.Dimension)
	}

	if !config.Aggregation.IsValid() {
		return datatypes.Invalid("Invalid aggregation")
	}
	if !config.ChartType.IsValid() {
		return datatypes.Invalid("Invalid chart type")
	}

	if config.HasMetric() {
		metric, found := schema.Find(columns, config.Metric)
		if !found {
			return datatypes.Invalid("Metric '%s' not found", config.Metric)
		}
		if !metric.CanBe(datatypes.RoleMetric) {
			return datatypes.Invalid("Column '%s' cannot be used as a metric", config.Metric)
		}
		if config.Aggregation != datatypes.AggregationCount && !metric.Type.IsNumeric() {
			return datatypes.Invalid(
				"Aggregation '%s' requires a numeric column, but '%s' has type '%s'",
				config.Aggregation,
				config.Metric,
				metric.Type,
			)
		}
	}

	return datatypes.Valid()
}

// DefaultConfiguration picks the first dimension-capable column and the first other
// metric-capable column in schema order, and suggests an aggregation and chart type for them.
// Returns ok=false if no column can be used as a dimension.
func DefaultConfiguration(columns []schema.ColumnMetadata) (config Configuration, ok bool) {
	dimensions := schema.WithRole(columns, datatypes.RoleDimension)
	if len(dimensions) == 0 {
		return Configuration{}, false
	}
	dimension := dimensions[0]

	var metric *schema.ColumnMetadata
	for _, candidate := range schema.WithRole(columns, datatypes.RoleMetric) {
		if candidate.Name != dimension.Name {
			metric = &candidate
			break
		}
	}

	config.Dimension = dimension.Name
	if metric != nil {
		config.Metric = metric.Name
	}
	config.Aggregation = SuggestAggregation(metric)
	config.ChartType = SuggestChartType(dimension, config.Aggregation)
	return config, true
}
