package api

import (
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"hermannm.dev/sheetlens/csv"
	"hermannm.dev/sheetlens/datatypes"
	"hermannm.dev/sheetlens/log"
	"hermannm.dev/sheetlens/schema"
)

// Dataset is an uploaded file, with the schema of each of its sheets inferred at upload time.
// Datasets are immutable after upload.
type Dataset struct {
	ID         string
	Name       string
	UploadedAt time.Time
	Sheets     []DatasetSheet
}

type DatasetSheet struct {
	datatypes.Sheet
	Schema []schema.ColumnMetadata
}

type datasetSummary struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	UploadedAt time.Time      `json:"uploadedAt"`
	Sheets     []sheetSummary `json:"sheets"`
}

type sheetSummary struct {
	Name     string                  `json:"name"`
	RowCount int                     `json:"rowCount"`
	Columns  []schema.ColumnMetadata `json:"columns"`
}

func (dataset *Dataset) summary() datasetSummary {
	sheets := make([]sheetSummary, 0, len(dataset.Sheets))
	for _, sheet := range dataset.Sheets {
		sheets = append(sheets, sheetSummary{
			Name:     sheet.Name,
			RowCount: sheet.RowCount(),
			Columns:  sheet.Schema,
		})
	}

	return datasetSummary{
		ID:         dataset.ID,
		Name:       dataset.Name,
		UploadedAt: dataset.UploadedAt,
		Sheets:     sheets,
	}
}

// Finds a sheet by name, or else by its index in the dataset.
func (dataset *Dataset) findSheet(nameOrIndex string) (sheet *DatasetSheet, found bool) {
	for i := range dataset.Sheets {
		if dataset.Sheets[i].Name == nameOrIndex {
			return &dataset.Sheets[i], true
		}
	}

	if index, err := strconv.Atoi(nameOrIndex); err == nil && index >= 0 &&
		index < len(dataset.Sheets) {
		return &dataset.Sheets[index], true
	}

	return nil, false
}

type datasetStore struct {
	lock     sync.RWMutex
	datasets map[string]*Dataset
}

func newDatasetStore() *datasetStore {
	return &datasetStore{datasets: make(map[string]*Dataset)}
}

func (store *datasetStore) add(dataset *Dataset) {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.datasets[dataset.ID] = dataset
}

func (store *datasetStore) get(id string) (*Dataset, bool) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	dataset, found := store.datasets[id]
	return dataset, found
}

func (store *datasetStore) remove(id string) bool {
	store.lock.Lock()
	defer store.lock.Unlock()
	if _, found := store.datasets[id]; !found {
		return false
	}
	delete(store.datasets, id)
	return true
}

// Returns datasets in upload order.
func (store *datasetStore) list() []*Dataset {
	store.lock.RLock()
	datasets := make([]*Dataset, 0, len(store.datasets))
	for _, dataset := range store.datasets {
		datasets = append(datasets, dataset)
	}
	store.lock.RUnlock()

	slices.SortFunc(datasets, func(dataset1 *Dataset, dataset2 *Dataset) int {
		if comparison := dataset1.UploadedAt.Compare(dataset2.UploadedAt); comparison != 0 {
			return comparison
		}
		return strings.Compare(dataset1.ID, dataset2.ID)
	})
	return datasets
}

const defaultSheetName = "Sheet 1"

// Expects:
//   - multipart form field 'csvFile': CSV file to load as a dataset
//   - optional multipart form field 'name': name of the dataset and its sheet (defaults to the
//     file name without extension)
//
// Returns:
//   - JSON with the dataset ID, and the name, row count and inferred schema of each sheet
func (api *SheetlensAPI) UploadDataset(res http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(res, req.Body, api.config.MaxUploadBytes)

	csvFile, fileHeader, err := req.FormFile("csvFile")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			sendError(res, http.StatusRequestEntityTooLarge, err, "uploaded file is too large")
			return
		}
		sendClientError(res, err, "failed to get CSV file from request")
		return
	}
	defer csvFile.Close()

	name := strings.TrimSpace(req.FormValue("name"))
	if name == "" {
		name = strings.TrimSuffix(fileHeader.Filename, filepath.Ext(fileHeader.Filename))
	}
	if name == "" {
		name = defaultSheetName
	}

	sheet, err := csv.ParseSheet(csvFile, name)
	if err != nil {
		sendClientError(res, err, "failed to read uploaded CSV file")
		return
	}

	dataset := &Dataset{
		ID:         uuid.NewString(),
		Name:       name,
		UploadedAt: time.Now().UTC(),
		Sheets:     []DatasetSheet{{Sheet: sheet, Schema: schema.InferSheet(sheet)}},
	}
	api.datasets.add(dataset)

	log.Info(
		"loaded dataset",
		"id", dataset.ID,
		"name", dataset.Name,
		"rows", sheet.RowCount(),
		"columns", len(sheet.Columns),
	)

	sendJSONWithStatus(res, http.StatusCreated, dataset.summary())
}

// Returns:
//   - JSON array of dataset summaries, in upload order
func (api *SheetlensAPI) ListDatasets(res http.ResponseWriter, req *http.Request) {
	datasets := api.datasets.list()

	summaries := make([]datasetSummary, 0, len(datasets))
	for _, dataset := range datasets {
		summaries = append(summaries, dataset.summary())
	}

	sendJSON(res, summaries)
}

// Expects:
//   - path parameter 'datasetID'
//
// Returns:
//   - JSON with the dataset ID, and the name, row count and inferred schema of each sheet
func (api *SheetlensAPI) GetDataset(res http.ResponseWriter, req *http.Request) {
	dataset, ok := api.getDatasetFromPath(res, req)
	if !ok {
		return
	}

	sendJSON(res, dataset.summary())
}

func (api *SheetlensAPI) DeleteDataset(res http.ResponseWriter, req *http.Request) {
	datasetID := chi.URLParam(req, "datasetID")
	if !api.datasets.remove(datasetID) {
		sendNotFound(res, "dataset not found")
		return
	}

	res.WriteHeader(http.StatusNoContent)
}

// Sends a 404 response and returns ok=false if the dataset does not exist.
func (api *SheetlensAPI) getDatasetFromPath(
	res http.ResponseWriter,
	req *http.Request,
) (dataset *Dataset, ok bool) {
	dataset, found := api.datasets.get(chi.URLParam(req, "datasetID"))
	if !found {
		sendNotFound(res, "dataset not found")
		return nil, false
	}
	return dataset, true
}

// Sends a 404 response and returns ok=false if the dataset or sheet does not exist.
func (api *SheetlensAPI) getSheetFromPath(
	res http.ResponseWriter,
	req *http.Request,
) (sheet *DatasetSheet, ok bool) {
	dataset, ok := api.getDatasetFromPath(res, req)
	if !ok {
		return nil, false
	}

	sheetParam := chi.URLParam(req, "sheet")
	if unescaped, err := url.PathUnescape(sheetParam); err == nil {
		sheetParam = unescaped
	}

	sheet, found := dataset.findSheet(sheetParam)
	if !found {
		sendNotFound(res, "sheet not found")
		return nil, false
	}
	return sheet, true
}
