package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"
	"hermannm.dev/sheetlens/presets"
	"hermannm.dev/wrap"
)

// Elasticsearch's default max_result_window.
const maxSearchResults = 10_000

func (repo *Repository) Get(ctx context.Context, id string) (presets.SavedFilter, error) {
	res, err := repo.client.Get(repo.index, id).Do(ctx)
	if err != nil {
		if isNotFound(err) {
			return presets.SavedFilter{}, presets.ErrNotFound
		}
		return presets.SavedFilter{}, wrapElasticError(err, "get saved filter request failed")
	}
	if !res.Found {
		return presets.SavedFilter{}, presets.ErrNotFound
	}

	return parseSource(res.Source_)
}

func (repo *Repository) List(ctx context.Context) ([]presets.SavedFilter, error) {
	return repo.search(ctx, types.Query{MatchAll: types.NewMatchAllQuery()})
}

func (repo *Repository) ListBySheet(
	ctx context.Context,
	sheetName string,
) ([]presets.SavedFilter, error) {
	return repo.search(ctx, sheetQuery(sheetName))
}

func (repo *Repository) Put(ctx context.Context, preset presets.SavedFilter) error {
	stored, err := preset.ToStored()
	if err != nil {
		return err
	}

	document, err := json.Marshal(stored)
	if err != nil {
		return wrap.Errorf(err, "failed to encode saved filter '%s' to JSON", preset.ID)
	}

	if _, err := repo.client.Index(repo.index).
		Id(stored.ID).
		Raw(bytes.NewReader(document)).
		Refresh(refresh.True).
		Do(ctx); err != nil {
		return wrapElasticError(err, "index saved filter request failed")
	}

	return nil
}

func (repo *Repository) Delete(ctx context.Context, id string) error {
	res, err := repo.client.Delete(repo.index, id).Refresh(refresh.True).Do(ctx)
	if err != nil {
		if isNotFound(err) {
			return presets.ErrNotFound
		}
		return wrapElasticError(err, "delete saved filter request failed")
	}
	if res.Result.String() == "not_found" {
		return presets.ErrNotFound
	}

	return nil
}

func (repo *Repository) search(
	ctx context.Context,
	query types.Query,
) ([]presets.SavedFilter, error) {
	size := maxSearchResults

	res, err := repo.client.Search().
		Index(repo.index).
		Request(&search.Request{Query: &query, Size: &size}).
		Do(ctx)
	if err != nil {
		return nil, wrapElasticError(err, "saved filters search request failed")
	}

	savedFilters := make([]presets.SavedFilter, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		savedFilter, err := parseSource(hit.Source_)
		if err != nil {
			return nil, err
		}
		savedFilters = append(savedFilters, savedFilter)
	}

	presets.SortByCreation(savedFilters)
	return savedFilters, nil
}

func sheetQuery(sheetName string) types.Query {
	return types.Query{
		Term: map[string]types.TermQuery{
			"sheetName": {Value: sheetName},
		},
	}
}

func parseSource(source json.RawMessage) (presets.SavedFilter, error) {
	var stored presets.StoredPreset
	if err := json.Unmarshal(source, &stored); err != nil {
		return presets.SavedFilter{}, wrap.Error(err, "failed to parse saved filter document")
	}
	return stored.ToSavedFilter()
}
