package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"hermannm.dev/wrap"
)

type Config struct {
	BaseConfig
	ClickHouse    ClickHouse
	Elasticsearch Elasticsearch
}

type BaseConfig struct {
	IsProduction bool        `env:"PRODUCTION" envDefault:"false"`
	LogLevel     slog.Level  `env:"LOG_LEVEL" envDefault:"INFO"`
	PresetStore  PresetStore `env:"PRESET_STORE" envDefault:"memory"`
	API          API
}

type API struct {
	Port               string   `env:"API_PORT" envDefault:"8000"`
	MaxUploadBytes     int64    `env:"API_MAX_UPLOAD_BYTES" envDefault:"33554432"`
	CORSAllowedOrigins []string `env:"API_CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

type ClickHouse struct {
	Address      string `env:"CLICKHOUSE_ADDRESS"`
	DatabaseName string `env:"CLICKHOUSE_DB_NAME"`
	Username     string `env:"CLICKHOUSE_USERNAME"`
	Password     string `env:"CLICKHOUSE_PASSWORD"`
	PresetsTable string `env:"CLICKHOUSE_PRESETS_TABLE" envDefault:"saved_filters"`
	Debug        bool   `env:"CLICKHOUSE_DEBUG_ENABLED" envDefault:"false"`
}

type Elasticsearch struct {
	Address      string `env:"ELASTICSEARCH_ADDRESS"`
	PresetsIndex string `env:"ELASTICSEARCH_PRESETS_INDEX" envDefault:"sheetlens_presets"`
	Debug        bool   `env:"ELASTICSEARCH_DEBUG_ENABLED" envDefault:"false"`
}

// PresetStore selects the backend that saved filter presets are persisted to.
type PresetStore string

const (
	PresetStoreMemory        PresetStore = "memory"
	PresetStoreClickHouse    PresetStore = "clickhouse"
	PresetStoreElasticsearch PresetStore = "elasticsearch"
)

// ReadFromEnv loads variables from a .env file in the working directory (if present), then parses
// the config from the environment. Backend-specific settings are only required when that backend
// is selected.
func ReadFromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, wrap.Error(err, "failed to load .env file")
	}

	parseOptions := env.Options{RequiredIfNoDef: true}

	var config Config

	if err := env.ParseWithOptions(&config.BaseConfig, parseOptions); err != nil {
		return Config{}, err
	}

	switch config.PresetStore {
	case PresetStoreMemory:
	case PresetStoreClickHouse:
		if err := env.ParseWithOptions(&config.ClickHouse, parseOptions); err != nil {
			return Config{}, err
		}
	case PresetStoreElasticsearch:
		if err := env.ParseWithOptions(&config.Elasticsearch, parseOptions); err != nil {
			return Config{}, err
		}
	default:
		err := fmt.Errorf(
			"must be one of: '%s', '%s', '%s'",
			PresetStoreMemory,
			PresetStoreClickHouse,
			PresetStoreElasticsearch,
		)
		return Config{}, wrap.Errorf(
			err,
			"unsupported value '%s' for PRESET_STORE in env",
			config.PresetStore,
		)
	}

	return config, nil
}
