package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/sheetlens/config"
	"hermannm.dev/sheetlens/presets"
)

const salesCSV = `city,sales,date
SP,100,2024-01-05
SP,200,2024-01-06
RJ,50,2024-02-01
`

func newTestAPI() *SheetlensAPI {
	return NewSheetlensAPI(
		presets.NewService(presets.NewMemoryRepository()),
		config.API{Port: "0", MaxUploadBytes: 1 << 20, CORSAllowedOrigins: []string{"*"}},
	)
}

func uploadCSV(t *testing.T, api *SheetlensAPI, fileName string, content string) datasetSummary {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fileWriter, err := form.CreateFormFile("csvFile", fileName)
	require.NoError(t, err)
	_, err = fileWriter.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/datasets", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	res := httptest.NewRecorder()
	api.ServeHTTP(res, req)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var summary datasetSummary
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &summary))
	return summary
}

func sendRequest(api *SheetlensAPI, method string, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res := httptest.NewRecorder()
	api.ServeHTTP(res, req)
	return res
}

func decodeBody[T any](t *testing.T, res *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &value), res.Body.String())
	return value
}

func TestUploadDataset(t *testing.T) {
	api := newTestAPI()
	summary := uploadCSV(t, api, "sales.csv", salesCSV)

	assert.NotEmpty(t, summary.ID)
	assert.Equal(t, "sales", summary.Name)
	require.Len(t, summary.Sheets, 1)

	sheet := summary.Sheets[0]
	assert.Equal(t, "sales", sheet.Name)
	assert.Equal(t, 3, sheet.RowCount)
	require.Len(t, sheet.Columns, 3)
	assert.Equal(t, "city", sheet.Columns[0].Name)
	assert.Equal(t, "number", sheet.Columns[1].Type.String())
	assert.Equal(t, "date", sheet.Columns[2].Type.String())

	res := sendRequest(api, http.MethodGet, "/datasets/"+summary.ID, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, summary, decodeBody[datasetSummary](t, res))

	res = sendRequest(api, http.MethodGet, "/datasets", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, decodeBody[[]datasetSummary](t, res), 1)
}

func TestUploadDatasetWithoutFile(t *testing.T) {
	res := sendRequest(newTestAPI(), http.MethodPost, "/datasets", "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestDatasetNotFound(t *testing.T) {
	api := newTestAPI()

	res := sendRequest(api, http.MethodGet, "/datasets/missing", "")
	assert.Equal(t, http.StatusNotFound, res.Code)

	summary := uploadCSV(t, api, "sales.csv", salesCSV)
	res = sendRequest(api, http.MethodPost, "/datasets/"+summary.ID+"/sheets/other/filter", `{}`)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestDeleteDataset(t *testing.T) {
	api := newTestAPI()
	summary := uploadCSV(t, api, "sales.csv", salesCSV)

	res := sendRequest(api, http.MethodDelete, "/datasets/"+summary.ID, "")
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = sendRequest(api, http.MethodGet, "/datasets/"+summary.ID, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestFilterSheet(t *testing.T) {
	api := newTestAPI()
	summary := uploadCSV(t, api, "sales.csv", salesCSV)

	res := sendRequest(
		api,
		http.MethodPost,
		"/datasets/"+summary.ID+"/sheets/sales/filter",
		`{"filterGroups":[{"id":"g1","logic":"AND","rules":[
			{"id":"r1","columnName":"city","operator":"equals","value":"sp"}
		]}]}`,
	)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	response := decodeBody[filterResponse](t, res)
	assert.Equal(t, 2, response.RowCount)
	for _, row := range response.Rows {
		assert.Equal(t, "SP", row["city"])
	}
}

func TestFilterSheetByIndex(t *testing.T) {
	api := newTestAPI()
	summary := uploadCSV(t, api, "sales.csv", salesCSV)

	res := sendRequest(api, http.MethodPost, "/datasets/"+summary.ID+"/sheets/0/filter", `{}`)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 3, decodeBody[filterResponse](t, res).RowCount)
}

func TestFilterSheetInvalidBody(t *testing.T) {
	api := newTestAPI()
	summary := uploadCSV(t, api, "sales.csv", salesCSV)

	res := sendRequest(
		api,
		http.MethodPost,
		"/datasets/"+summary.ID+"/sheets/sales/filter",
		`{"filterGroups":[{"logic":"XOR","rules":[]}]}`,
	)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestViewSheet(t *testing.T) {
	api := newTestAPI()
	summary := uploadCSV(t, api, "sales.csv", salesCSV)

	res := sendRequest(
		api,
		http.MethodPost,
		"/datasets/"+summary.ID+"/sheets/sales/view",
		`{"columns":[
			{"columnName":"city","role":"dimension"},
			{"columnName":"sales","role":"metric","aggregation":"sum"}
		]}`,
	)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var response struct {
		Rows        []map[string]any `json:"rows"`
		Explanation struct {
			Text string `json:"text"`
		} `json:"explanation"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &response))

	assert.Equal(t, []map[string]any{
		{"city": "SP", "sales": 300.0},
		{"city": "RJ", "sales": 50.0},
	}, response.Rows)
	assert.Contains(t, response.Explanation.Text, "Grouped by city")
}

func TestViewSheetInvalidColumns(t *testing.T) {
	api := newTestAPI()
	summary := uploadCSV(t, api, "sales.csv", salesCSV)

	res := sendRequest(
		api,
		http.MethodPost,
		"/datasets/"+summary.ID+"/sheets/sales/view",
		`{"columns":[{"columnName":"missing","role":"dimension"}]}`,
	)
	require.Equal(t, http.StatusBadRequest, res.Code)

	var validation struct {
		Valid  bool   `json:"valid"`
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &validation))
	assert.False(t, validation.Valid)
	assert.Equal(t, "Column 'missing' not found", validation.Reason)
}

type testChartResponse struct {
	Configuration struct {
		Dimension   string `json:"dimension"`
		Metric      string `json:"metric"`
		Aggregation string `json:"aggregation"`
		ChartType   string `json:"chartType"`
	} `json:"configuration"`
	Validation struct {
		Valid  bool   `json:"valid"`
		Reason string `json:"reason"`
	} `json:"validation"`
	Data []struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
		Count int     `json:"count"`
	} `json:"data"`
	Explanation *struct {
		Text string `json:"text"`
	} `json:"explanation"`
	Suggestions struct {
		Metrics    []string `json:"metrics"`
		Dimensions []string `json:"dimensions"`
	} `json:"suggestions"`
}

func TestChartSheetDefaultConfiguration(t *testing.T) {
	api := newTestAPI()
	summary := uploadCSV(t, api, "sales.csv", salesCSV)

	res := sendRequest(api, http.MethodPost, "/datasets/"+summary.ID+"/sheets/sales/chart", `{}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	response := decodeBody[testChartResponse](t, res)
	assert.True(t, response.Validation.Valid)
	assert.Equal(t, "city", response.Configuration.Dimension)
	assert.Equal(t, "sales", response.Configuration.Metric)
	assert.Equal(t, "sum", response.Configuration.Aggregation)
	assert.Equal(t, "pie", response.Configuration.ChartType)

	require.Len(t, response.Data, 2)
	assert.Equal(t, "SP", response.Data[0].Name)
	assert.Equal(t, 300.0, response.Data[0].Value)
	assert.Equal(t, 2, response.Data[0].Count)
	assert.Equal(t, "RJ", response.Data[1].Name)

	require.NotNil(t, response.Explanation)
	assert.Contains(t, response.Explanation.Text, "sum of sales grouped by city")
	assert.Contains(t, response.Suggestions.Metrics, "sales")
	assert.Contains(t, response.Suggestions.Dimensions, "city")
}

func TestChartSheetInvalidConfiguration(t *testing.T) {
	api := newTestAPI()
	summary := uploadCSV(t, api, "sales.csv", salesCSV)

	res := sendRequest(
		api,
		http.MethodPost,
		"/datasets/"+summary.ID+"/sheets/sales/chart",
		`{"configuration":{"dimension":"missing","aggregation":"count","chartType":"bar"}}`,
	)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	response := decodeBody[testChartResponse](t, res)
	assert.False(t, response.Validation.Valid)
	assert.Empty(t, response.Data)
	assert.Nil(t, response.Explanation)
}

func TestExportSheet(t *testing.T) {
	api := newTestAPI()
	summary := uploadCSV(t, api, "sales.csv", salesCSV)

	res := sendRequest(
		api,
		http.MethodPost,
		"/datasets/"+summary.ID+"/sheets/sales/export",
		`{"filterGroups":[{"id":"g1","logic":"AND","rules":[
			{"id":"r1","columnName":"sales","operator":"greaterThan","value":60}
		]}]}`,
	)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	assert.Equal(t, "text/csv; charset=utf-8", res.Header().Get("Content-Type"))
	assert.Contains(t, res.Header().Get("Content-Disposition"), `filename="sales.csv"`)
	assert.Equal(
		t,
		"city,sales,date\nSP,100,2024-01-05\nSP,200,2024-01-06\n",
		res.Body.String(),
	)
}

func TestPresetLifecycle(t *testing.T) {
	api := newTestAPI()

	res := sendRequest(api, http.MethodPost, "/presets", `{
		"name": "Big sales",
		"sheetName": "sales",
		"filterGroups": [{"id":"g1","logic":"AND","rules":[
			{"id":"r1","columnName":"sales","operator":"greaterThan","value":100}
		]}]
	}`)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	created := decodeBody[presets.SavedFilter](t, res)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Big sales", created.Name)

	res = sendRequest(api, http.MethodGet, "/presets/"+created.ID, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, created.ID, decodeBody[presets.SavedFilter](t, res).ID)

	res = sendRequest(api, http.MethodPut, "/presets/"+created.ID, `{
		"name": "Bigger sales",
		"sheetName": "sales",
		"filterGroups": []
	}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Equal(t, "Bigger sales", decodeBody[presets.SavedFilter](t, res).Name)

	res = sendRequest(api, http.MethodGet, "/presets?sheet=sales", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, decodeBody[[]presets.SavedFilter](t, res), 1)

	res = sendRequest(api, http.MethodGet, "/presets?sheet=other", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Empty(t, decodeBody[[]presets.SavedFilter](t, res))

	res = sendRequest(api, http.MethodDelete, "/presets/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = sendRequest(api, http.MethodGet, "/presets/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = sendRequest(api, http.MethodDelete, "/presets/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestCreateInvalidPreset(t *testing.T) {
	res := sendRequest(newTestAPI(), http.MethodPost, "/presets", `{"name":"","sheetName":""}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestShareLinkRoundTrip(t *testing.T) {
	api := newTestAPI()

	res := sendRequest(api, http.MethodPost, "/share/encode", `{
		"sheetIndex": 2,
		"filterGroups": [{"id":"g1","logic":"OR","rules":[
			{"id":"r1","columnName":"city","operator":"in","value":["SP","RJ"]}
		]}]
	}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	query := decodeBody[shareLinkResponse](t, res).Query
	assert.Contains(t, query, "sheet=2")

	res = sendRequest(api, http.MethodGet, "/share/decode?"+query, "")
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var state struct {
		SheetIndex   int `json:"sheetIndex"`
		FilterGroups []struct {
			Logic string `json:"logic"`
		} `json:"filterGroups"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &state))
	assert.Equal(t, 2, state.SheetIndex)
	require.Len(t, state.FilterGroups, 1)
	assert.Equal(t, "OR", state.FilterGroups[0].Logic)
}

func TestDecodeMalformedShareLink(t *testing.T) {
	query := url.Values{"filters": {"{not json"}}.Encode()
	res := sendRequest(newTestAPI(), http.MethodGet, "/share/decode?"+query, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestShareLinkWithoutGroupLogic(t *testing.T) {
	res := sendRequest(newTestAPI(), http.MethodPost, "/share/encode", `{
		"filterGroups": [{"id":"g1","rules":[
			{"id":"r1","columnName":"city","operator":"equals","value":"SP"}
		]}]
	}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	query := decodeBody[shareLinkResponse](t, res).Query
	params, err := url.ParseQuery(query)
	require.NoError(t, err)
	assert.Contains(t, params.Get("filters"), `"logic":"AND"`)
}
