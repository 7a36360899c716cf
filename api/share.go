package api

import (
	"net/http"

	"hermannm.dev/sheetlens/filter"
)

type shareLinkResponse struct {
	// URL query string without the leading '?'. Empty for the default state.
	Query string `json:"query"`
}

// Expects:
//   - body: JSON-encoded filter.SharedState
//
// Returns:
//   - JSON with the query string to append to a share link
func (api *SheetlensAPI) EncodeShareLink(res http.ResponseWriter, req *http.Request) {
	var state filter.SharedState
	if err := decodeJSONBody(req, &state); err != nil {
		sendClientError(res, err, "")
		return
	}

	query, err := filter.EncodeShareQuery(state)
	if err != nil {
		sendServerError(res, err, "failed to encode share link")
		return
	}

	sendJSON(res, shareLinkResponse{Query: query})
}

// Expects:
//   - the query parameters of a share link
//
// Returns:
//   - JSON-encoded filter.SharedState
func (api *SheetlensAPI) DecodeShareLink(res http.ResponseWriter, req *http.Request) {
	state, err := filter.DecodeShareQuery(req.URL.RawQuery)
	if err != nil {
		sendClientError(res, err, "invalid share link")
		return
	}

	sendJSON(res, state)
}
