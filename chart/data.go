package chart

import (
	"cmp"
	"slices"

	"hermannm.dev/sheetlens/datatypes"
	"hermannm.dev/sheetlens/view"
)

// MaxDataPoints is the maximum number of categories shown in a chart.
const MaxDataPoints = 50

// Rows with an empty dimension value are grouped under this name.
const UndefinedCategory = "(undefined)"

// Point is one category of a chart.
type Point struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	// Number of rows in the category.
	Count int `json:"count"`
}

// Data groups the rows by the configured dimension and aggregates the configured metric in each
// group (or counts rows, if there is no metric). Points are sorted by descending value, keeping
// the order of first occurrence for equal values, and truncated to MaxDataPoints.
func Data(rows []datatypes.Row, config Configuration) []Point {
	if config.Dimension == "" {
		return []Point{}
	}

	groups := view.GroupRows(rows, []string{config.Dimension})

	points := make([]Point, 0, len(groups))
	for _, group := range groups {
		point := Point{Count: len(group.Rows)}

		if dimensionValue := group.DimensionValues[0]; datatypes.IsEmpty(dimensionValue) {
			point.Name = UndefinedCategory
		} else {
			point.Name = datatypes.ToString(dimensionValue)
		}

		if config.HasMetric() {
			// Aggregations without a result (max/min of no values) are shown as 0.
			point.Value, _ = view.Aggregate(
				config.Aggregation,
				view.NumericValues(group.Rows, config.Metric),
				len(group.Rows),
			)
		} else {
			point.Value = float64(point.Count)
		}

		points = append(points, point)
	}

	slices.SortStableFunc(points, func(point1 Point, point2 Point) int {
		return cmp.Compare(point2.Value, point1.Value)
	})

	if len(points) > MaxDataPoints {
		points = points[:MaxDataPoints]
	}
	return points
}
