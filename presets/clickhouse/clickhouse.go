// Package clickhouse implements presets.Repository on a ClickHouse table.
package clickhouse

import (
	"context"
	"log/slog"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"hermannm.dev/sheetlens/config"
	"hermannm.dev/sheetlens/log"
	"hermannm.dev/wrap"
)

func Open(ctx context.Context, config config.ClickHouse) (driver.Conn, error) {
	// Options docs: https://clickhouse.com/docs/en/integrations/go#connection-settings
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{config.Address},
		Auth: clickhouse.Auth{
			Database: config.DatabaseName,
			Username: config.Username,
			Password: config.Password,
		},
		Debug: config.Debug,
		Debugf: func(format string, v ...any) {
			log.Debugf(format, v...)
		},
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
	})
	if err != nil {
		return nil, wrap.Error(err, "failed to connect to ClickHouse")
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, wrap.Errorf(err, "failed to ping ClickHouse at '%s'", config.Address)
	}

	return conn, nil
}

// Implements presets.Repository for ClickHouse.
type Repository struct {
	conn  driver.Conn
	table string
}

// NewRepository creates the given presets table if it does not already exist.
func NewRepository(ctx context.Context, conn driver.Conn, table string) (*Repository, error) {
	if err := ValidateIdentifier(table); err != nil {
		return nil, wrap.Error(err, "invalid presets table name")
	}

	query := buildCreateTableQuery(table)
	log.Debug("generated clickhouse query", slog.String("query", query))

	if err := conn.Exec(ctx, query); err != nil {
		return nil, wrap.Errorf(err, "failed to create presets table '%s'", table)
	}

	return &Repository{conn: conn, table: table}, nil
}
