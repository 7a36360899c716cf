// Package elasticsearch implements presets.Repository on an Elasticsearch index.
package elasticsearch

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"hermannm.dev/sheetlens/config"
	"hermannm.dev/sheetlens/log"
	"hermannm.dev/wrap"
)

func NewClient(config config.Elasticsearch) (*elasticsearch.TypedClient, error) {
	client, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Addresses:         []string{config.Address},
		EnableDebugLogger: config.Debug,
	})
	if err != nil {
		return nil, wrap.Error(err, "failed to connect to Elasticsearch")
	}

	return client, nil
}

// Implements presets.Repository for Elasticsearch.
type Repository struct {
	client *elasticsearch.TypedClient
	index  string
}

const elasticIndexAlreadyExistsException = "resource_already_exists_exception"

// NewRepository creates the given presets index if it does not already exist.
func NewRepository(
	ctx context.Context,
	client *elasticsearch.TypedClient,
	index string,
) (*Repository, error) {
	if index == "" {
		return nil, wrap.Error(errNoIndex, "invalid presets index name")
	}

	if _, err := client.Indices.Create(index).Mappings(presetMappings()).Do(ctx); err != nil {
		elasticErr, isElasticErr := err.(*types.ElasticsearchError)
		if !isElasticErr || elasticErr.ErrorCause.Type != elasticIndexAlreadyExistsException {
			return nil, wrapElasticErrorf(err, "failed to create presets index '%s'", index)
		}
		log.Debug("presets index already exists", "index", index)
	}

	return &Repository{client: client, index: index}, nil
}

// Filter groups are stored as an opaque JSON string, so they are not indexed.
func presetMappings() *types.TypeMapping {
	notIndexed := false
	filterGroups := types.NewKeywordProperty()
	filterGroups.Index = &notIndexed

	mappings := types.NewTypeMapping()
	mappings.Properties = map[string]types.Property{
		"id":           types.NewKeywordProperty(),
		"name":         types.NewTextProperty(),
		"description":  types.NewTextProperty(),
		"filterGroups": filterGroups,
		"sheetName":    types.NewKeywordProperty(),
		"createdAt":    types.NewDateProperty(),
		"updatedAt":    types.NewDateProperty(),
	}
	return mappings
}
