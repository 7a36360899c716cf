package datatypes

import (
	"hermannm.dev/enumnames"
)

type Aggregation uint8

const (
	AggregationCount Aggregation = iota + 1
	AggregationSum
	AggregationAverage
	AggregationMax
	AggregationMin
)

var aggregationMap = enumnames.NewMap(map[Aggregation]string{
	AggregationCount:   "count",
	AggregationSum:     "sum",
	AggregationAverage: "avg",
	AggregationMax:     "max",
	AggregationMin:     "min",
})

func (aggregation Aggregation) IsValid() bool {
	return aggregationMap.ContainsEnumValue(aggregation)
}

func (aggregation Aggregation) String() string {
	return aggregationMap.GetNameOrFallback(aggregation, "INVALID_AGGREGATION")
}

// Label is the human-readable name of the aggregation, for use in explanations.
func (aggregation Aggregation) Label() string {
	switch aggregation {
	case AggregationCount:
		return "count"
	case AggregationSum:
		return "sum"
	case AggregationAverage:
		return "average"
	case AggregationMax:
		return "maximum"
	case AggregationMin:
		return "minimum"
	default:
		return aggregation.String()
	}
}

func (aggregation Aggregation) MarshalJSON() ([]byte, error) {
	return aggregationMap.MarshalToNameJSON(aggregation)
}

func (aggregation *Aggregation) UnmarshalJSON(bytes []byte) error {
	// Optional in requests, so null leaves it unset.
	if string(bytes) == "null" {
		return nil
	}
	return aggregationMap.UnmarshalFromNameJSON(bytes, aggregation)
}
