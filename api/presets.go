package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"hermannm.dev/sheetlens/presets"
)

// Expects:
//   - optional query parameter 'sheet': only list presets saved for this sheet
//
// Returns:
//   - JSON array of presets.SavedFilter, sorted by creation time
func (api *SheetlensAPI) ListPresets(res http.ResponseWriter, req *http.Request) {
	var savedFilters []presets.SavedFilter
	var err error
	if sheetName := req.URL.Query().Get("sheet"); sheetName != "" {
		savedFilters, err = api.presets.ListBySheet(req.Context(), sheetName)
	} else {
		savedFilters, err = api.presets.List(req.Context())
	}
	if err != nil {
		sendPresetError(res, err, "failed to list saved filters")
		return
	}

	sendJSON(res, savedFilters)
}

// Expects:
//   - body: JSON-encoded presets.Draft
//
// Returns:
//   - 201 with the JSON-encoded presets.SavedFilter that was created
func (api *SheetlensAPI) CreatePreset(res http.ResponseWriter, req *http.Request) {
	var draft presets.Draft
	if err := decodeJSONBody(req, &draft); err != nil {
		sendClientError(res, err, "")
		return
	}

	savedFilter, err := api.presets.Save(req.Context(), draft)
	if err != nil {
		sendPresetError(res, err, "failed to save filter")
		return
	}

	sendJSONWithStatus(res, http.StatusCreated, savedFilter)
}

// Expects:
//   - path parameter 'presetID'
//
// Returns:
//   - JSON-encoded presets.SavedFilter
func (api *SheetlensAPI) GetPreset(res http.ResponseWriter, req *http.Request) {
	savedFilter, err := api.presets.Get(req.Context(), chi.URLParam(req, "presetID"))
	if err != nil {
		sendPresetError(res, err, "failed to get saved filter")
		return
	}

	sendJSON(res, savedFilter)
}

// Expects:
//   - path parameter 'presetID'
//   - body: JSON-encoded presets.Draft to replace the saved filter's contents with
//
// Returns:
//   - JSON-encoded presets.SavedFilter after the update
func (api *SheetlensAPI) UpdatePreset(res http.ResponseWriter, req *http.Request) {
	var draft presets.Draft
	if err := decodeJSONBody(req, &draft); err != nil {
		sendClientError(res, err, "")
		return
	}

	savedFilter, err := api.presets.Update(req.Context(), chi.URLParam(req, "presetID"), draft)
	if err != nil {
		sendPresetError(res, err, "failed to update saved filter")
		return
	}

	sendJSON(res, savedFilter)
}

func (api *SheetlensAPI) DeletePreset(res http.ResponseWriter, req *http.Request) {
	if err := api.presets.Delete(req.Context(), chi.URLParam(req, "presetID")); err != nil {
		sendPresetError(res, err, "failed to delete saved filter")
		return
	}

	res.WriteHeader(http.StatusNoContent)
}
