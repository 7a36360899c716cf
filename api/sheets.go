package api

import (
	"fmt"
	"net/http"

	"hermannm.dev/sheetlens/chart"
	"hermannm.dev/sheetlens/csv"
	"hermannm.dev/sheetlens/datatypes"
	"hermannm.dev/sheetlens/filter"
	"hermannm.dev/sheetlens/log"
	"hermannm.dev/sheetlens/schema"
	"hermannm.dev/sheetlens/view"
)

type filterRequest struct {
	FilterGroups []filter.Group `json:"filterGroups"`
}

type filterResponse struct {
	Rows     []datatypes.Row `json:"rows"`
	RowCount int             `json:"rowCount"`
}

func (sheet *DatasetSheet) filterRows(groups []filter.Group) []datatypes.Row {
	return filter.Apply(sheet.Rows, groups, sheet.Schema)
}

// Expects:
//   - path parameters 'datasetID' and 'sheet' (sheet name or index)
//   - body: JSON with 'filterGroups'
//
// Returns:
//   - JSON with the rows that pass the filter groups, and their count
func (api *SheetlensAPI) FilterSheet(res http.ResponseWriter, req *http.Request) {
	sheet, ok := api.getSheetFromPath(res, req)
	if !ok {
		return
	}

	var request filterRequest
	if err := decodeJSONBody(req, &request); err != nil {
		sendClientError(res, err, "")
		return
	}

	rows := sheet.filterRows(request.FilterGroups)
	sendJSON(res, filterResponse{Rows: rows, RowCount: len(rows)})
}

type viewRequest struct {
	FilterGroups []filter.Group `json:"filterGroups"`
	Columns      []view.Column  `json:"columns"`
}

type viewResponse struct {
	Rows        []datatypes.Row  `json:"rows"`
	Explanation view.Explanation `json:"explanation"`
}

// Expects:
//   - path parameters 'datasetID' and 'sheet' (sheet name or index)
//   - body: JSON with 'filterGroups' and view 'columns'
//
// Returns:
//   - JSON with the rows of the view over the filtered sheet, and an explanation of the view
//   - 400 with JSON-encoded datatypes.Validation if the view columns are invalid for the sheet
func (api *SheetlensAPI) ViewSheet(res http.ResponseWriter, req *http.Request) {
	sheet, ok := api.getSheetFromPath(res, req)
	if !ok {
		return
	}

	var request viewRequest
	if err := decodeJSONBody(req, &request); err != nil {
		sendClientError(res, err, "")
		return
	}

	if validation := view.Validate(request.Columns, sheet.Schema); !validation.Valid {
		sendJSONWithStatus(res, http.StatusBadRequest, validation)
		return
	}

	rows := view.Apply(sheet.filterRows(request.FilterGroups), request.Columns, sheet.Schema)
	sendJSON(res, viewResponse{
		Rows:        rows,
		Explanation: view.Explain(request.Columns, len(rows)),
	})
}

type chartRequest struct {
	FilterGroups []filter.Group `json:"filterGroups"`
	// Omit to use the default configuration for the sheet.
	Configuration *chart.Configuration `json:"configuration"`
}

type chartResponse struct {
	Configuration chart.Configuration  `json:"configuration"`
	Validation    datatypes.Validation `json:"validation"`
	Data          []chart.Point        `json:"data"`
	Explanation   *chart.Explanation   `json:"explanation,omitempty"`
	Suggestions   chartSuggestions     `json:"suggestions"`
}

type chartSuggestions struct {
	// Metrics that can be shown with the configured dimension.
	Metrics []string `json:"metrics"`
	// Dimensions that the configured metric can be grouped by.
	Dimensions  []string              `json:"dimensions"`
	Aggregation datatypes.Aggregation `json:"aggregation"`
	ChartType   datatypes.ChartType   `json:"chartType,omitempty"`
}

// Expects:
//   - path parameters 'datasetID' and 'sheet' (sheet name or index)
//   - body: JSON with 'filterGroups', and optionally a chart 'configuration'
//
// Returns:
//   - JSON with the chart configuration (the default one if none was given), its validation,
//     the chart data points over the filtered sheet, an explanation, and suggested compatible
//     columns, aggregation and chart type for the configuration
func (api *SheetlensAPI) ChartSheet(res http.ResponseWriter, req *http.Request) {
	sheet, ok := api.getSheetFromPath(res, req)
	if !ok {
		return
	}

	var request chartRequest
	if err := decodeJSONBody(req, &request); err != nil {
		sendClientError(res, err, "")
		return
	}

	var config chart.Configuration
	var validation datatypes.Validation
	if request.Configuration != nil {
		config = *request.Configuration
		validation = chart.Validate(config, sheet.Schema)
	} else if defaultConfig, ok := chart.DefaultConfiguration(sheet.Schema); ok {
		config = defaultConfig
		validation = chart.Validate(config, sheet.Schema)
	} else {
		validation = datatypes.Invalid("No column can be used as a chart dimension")
	}

	response := chartResponse{
		Configuration: config,
		Validation:    validation,
		Data:          []chart.Point{},
		Suggestions:   suggestChartColumns(config, sheet.Schema),
	}

	if response.Validation.Valid {
		response.Data = chart.Data(sheet.filterRows(request.FilterGroups), config)
		explanation := chart.Explain(config, len(response.Data))
		response.Explanation = &explanation
	}

	sendJSON(res, response)
}

func suggestChartColumns(
	config chart.Configuration,
	columns []schema.ColumnMetadata,
) chartSuggestions {
	suggestions := chartSuggestions{
		Metrics:    columnNames(chart.SuggestCompatibleMetrics(config.Dimension, columns)),
		Dimensions: columnNames(chart.SuggestCompatibleDimensions(config.Metric, columns)),
	}

	var metric *schema.ColumnMetadata
	if metricColumn, found := schema.Find(columns, config.Metric); found {
		metric = &metricColumn
	}
	suggestions.Aggregation = chart.SuggestAggregation(metric)

	if dimension, found := schema.Find(columns, config.Dimension); found {
		suggestions.ChartType = chart.SuggestChartType(dimension, suggestions.Aggregation)
	}

	return suggestions
}

func columnNames(columns []schema.ColumnMetadata) []string {
	names := make([]string, 0, len(columns))
	for _, column := range columns {
		names = append(names, column.Name)
	}
	return names
}

type exportRequest struct {
	FilterGroups []filter.Group `json:"filterGroups"`
	// Omit to export all columns of the filtered sheet.
	Columns []view.Column `json:"columns"`
}

// Expects:
//   - path parameters 'datasetID' and 'sheet' (sheet name or index)
//   - body: JSON with 'filterGroups', and optionally view 'columns'
//
// Returns:
//   - CSV file of the filtered sheet, or of the view over it if columns were given
//   - 400 with JSON-encoded datatypes.Validation if the view columns are invalid for the sheet
func (api *SheetlensAPI) ExportSheet(res http.ResponseWriter, req *http.Request) {
	sheet, ok := api.getSheetFromPath(res, req)
	if !ok {
		return
	}

	var request exportRequest
	if err := decodeJSONBody(req, &request); err != nil {
		sendClientError(res, err, "")
		return
	}

	rows := sheet.filterRows(request.FilterGroups)
	columnNames := sheet.Columns

	if len(request.Columns) != 0 {
		if validation := view.Validate(request.Columns, sheet.Schema); !validation.Valid {
			sendJSONWithStatus(res, http.StatusBadRequest, validation)
			return
		}
		rows = view.Apply(rows, request.Columns, sheet.Schema)
		columnNames = view.ColumnNames(request.Columns)
	}

	res.Header().Set("Content-Type", "text/csv; charset=utf-8")
	res.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", sheet.Name+".csv"),
	)
	res.WriteHeader(http.StatusOK)

	if err := csv.WriteRows(res, columnNames, rows); err != nil {
		// Headers are already sent, so we can only log
		log.Errorf(err, "failed to write CSV export of sheet '%s'", sheet.Name)
	}
}
