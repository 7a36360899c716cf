package filter

import (
	"encoding/json"
	"net/url"
	"strconv"

	"hermannm.dev/wrap"
)

// Query parameters of a share link.
const (
	sheetQueryParam   = "sheet"
	filtersQueryParam = "filters"
)

// SharedState is the configuration carried by a share link.
type SharedState struct {
	FilterGroups []Group `json:"filterGroups"`
	// Index of the selected sheet in the dataset, 0 for the first.
	SheetIndex int `json:"sheetIndex"`
}

// EncodeShareQuery encodes the given state as a URL query string (without the leading "?").
// The sheet index is only included when it is not the first sheet, and filter groups are only
// included when there are any, so the default state encodes to the empty string.
func EncodeShareQuery(state SharedState) (string, error) {
	params := url.Values{}

	if state.SheetIndex > 0 {
		params.Set(sheetQueryParam, strconv.Itoa(state.SheetIndex))
	}

	if len(state.FilterGroups) > 0 {
		groups := CloneGroups(state.FilterGroups)
		for i := range groups {
			groups[i].withDefaultLogic()
		}

		filtersJSON, err := json.Marshal(groups)
		if err != nil {
			return "", wrap.Error(err, "failed to serialize filter groups")
		}
		params.Set(filtersQueryParam, string(filtersJSON))
	}

	return params.Encode(), nil
}

// DecodeShareQuery parses a query string produced by EncodeShareQuery. A missing filters
// parameter gives no filter groups, and a missing or non-numeric sheet parameter gives the first
// sheet. Malformed filter JSON is an error.
func DecodeShareQuery(query string) (SharedState, error) {
	params, err := url.ParseQuery(query)
	if err != nil {
		return SharedState{}, wrap.Error(err, "invalid share query")
	}

	state := SharedState{FilterGroups: []Group{}}

	if sheetParam := params.Get(sheetQueryParam); sheetParam != "" {
		if sheetIndex, err := strconv.Atoi(sheetParam); err == nil && sheetIndex >= 0 {
			state.SheetIndex = sheetIndex
		}
	}

	if filtersParam := params.Get(filtersQueryParam); filtersParam != "" {
		if err := json.Unmarshal([]byte(filtersParam), &state.FilterGroups); err != nil {
			return SharedState{}, wrap.Errorf(err, "invalid '%s' parameter in share query", filtersQueryParam)
		}
	}

	return state, nil
}
