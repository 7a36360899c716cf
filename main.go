package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"hermannm.dev/devlog"
	"hermannm.dev/sheetlens/api"
	"hermannm.dev/sheetlens/config"
	"hermannm.dev/sheetlens/log"
	"hermannm.dev/sheetlens/presets"
	"hermannm.dev/sheetlens/presets/clickhouse"
	"hermannm.dev/sheetlens/presets/elasticsearch"
)

func main() {
	config, err := config.ReadFromEnv()
	if err != nil {
		log.Error(err, "failed to read config from env")
		os.Exit(1)
	}

	if config.IsProduction {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: config.LogLevel,
		})))
	} else {
		slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
			Level: config.LogLevel,
		})))
	}

	ctx := context.Background()

	repo, err := newPresetRepository(ctx, config)
	if err != nil {
		log.Errorf(err, "failed to initialize '%s' preset store", config.PresetStore)
		os.Exit(1)
	}

	sheetlensAPI := api.NewSheetlensAPI(presets.NewService(repo), config.API)

	log.Infof("Listening on port %s...", config.API.Port)
	if err := sheetlensAPI.ListenAndServe(); err != nil {
		log.Error(err, "server stopped")
		os.Exit(1)
	}
}

func newPresetRepository(ctx context.Context, cfg config.Config) (presets.Repository, error) {
	switch cfg.PresetStore {
	case config.PresetStoreClickHouse:
		log.Info("connecting to ClickHouse...", "address", cfg.ClickHouse.Address)
		conn, err := clickhouse.Open(ctx, cfg.ClickHouse)
		if err != nil {
			return nil, err
		}
		return clickhouse.NewRepository(ctx, conn, cfg.ClickHouse.PresetsTable)
	case config.PresetStoreElasticsearch:
		log.Info("connecting to Elasticsearch...", "address", cfg.Elasticsearch.Address)
		client, err := elasticsearch.NewClient(cfg.Elasticsearch)
		if err != nil {
			return nil, err
		}
		return elasticsearch.NewRepository(ctx, client, cfg.Elasticsearch.PresetsIndex)
	case config.PresetStoreMemory:
		log.Warn("saved filters are kept in memory, and will be lost on restart")
		return presets.NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported preset store '%s'", cfg.PresetStore)
	}
}
