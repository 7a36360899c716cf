package datatypes

import (
	"hermannm.dev/enumnames"
)

type ChartType uint8

const (
	ChartTypeBar ChartType = iota + 1
	ChartTypeLine
	ChartTypePie
	ChartTypeArea
	ChartTypeScatter
)

var chartTypeMap = enumnames.NewMap(map[ChartType]string{
	ChartTypeBar:     "bar",
	ChartTypeLine:    "line",
	ChartTypePie:     "pie",
	ChartTypeArea:    "area",
	ChartTypeScatter: "scatter",
})

func (chartType ChartType) IsValid() bool {
	return chartTypeMap.ContainsEnumValue(chartType)
}

func (chartType ChartType) String() string {
	return chartTypeMap.GetNameOrFallback(chartType, "INVALID_CHART_TYPE")
}

func (chartType ChartType) MarshalJSON() ([]byte, error) {
	return chartTypeMap.MarshalToNameJSON(chartType)
}

func (chartType *ChartType) UnmarshalJSON(bytes []byte) error {
	// Optional in requests, so null leaves it unset.
	if string(bytes) == "null" {
		return nil
	}
	return chartTypeMap.UnmarshalFromNameJSON(bytes, chartType)
}
