package clickhouse

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"hermannm.dev/sheetlens/presets"
	"hermannm.dev/wrap"
)

func (repo *Repository) Get(ctx context.Context, id string) (presets.SavedFilter, error) {
	result := repo.conn.QueryRow(ctx, buildSelectQuery(repo.table, columnID), id)
	if err := result.Err(); err != nil {
		return presets.SavedFilter{}, wrap.Error(err, "saved filter query failed")
	}

	var stored presets.StoredPreset
	if err := result.Scan(
		&stored.ID,
		&stored.Name,
		&stored.Description,
		&stored.FilterGroupsJSON,
		&stored.SheetName,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return presets.SavedFilter{}, presets.ErrNotFound
		}
		return presets.SavedFilter{}, wrap.Error(err, "failed to scan saved filter from database")
	}

	return stored.ToSavedFilter()
}

func (repo *Repository) List(ctx context.Context) ([]presets.SavedFilter, error) {
	rows, err := repo.conn.Query(ctx, buildSelectQuery(repo.table, ""))
	if err != nil {
		return nil, wrap.Error(err, "saved filters query failed")
	}
	return parsePresetRows(rows)
}

func (repo *Repository) ListBySheet(
	ctx context.Context,
	sheetName string,
) ([]presets.SavedFilter, error) {
	rows, err := repo.conn.Query(ctx, buildSelectQuery(repo.table, columnSheetName), sheetName)
	if err != nil {
		return nil, wrap.Errorf(err, "saved filters query for sheet '%s' failed", sheetName)
	}
	return parsePresetRows(rows)
}

func (repo *Repository) Put(ctx context.Context, preset presets.SavedFilter) error {
	stored, err := preset.ToStored()
	if err != nil {
		return err
	}

	if err := repo.conn.Exec(
		ctx,
		buildInsertQuery(repo.table),
		stored.ID,
		stored.Name,
		stored.Description,
		stored.FilterGroupsJSON,
		stored.SheetName,
		stored.CreatedAt,
		stored.UpdatedAt,
	); err != nil {
		return wrap.Error(err, "insert saved filter query failed")
	}

	return nil
}

func (repo *Repository) Delete(ctx context.Context, id string) error {
	// ClickHouse does not report the number of deleted rows, so we check existence first
	if _, err := repo.Get(ctx, id); err != nil {
		return err
	}

	if err := repo.conn.Exec(ctx, buildDeleteQuery(repo.table), id); err != nil {
		return wrap.Error(err, "delete saved filter query failed")
	}

	return nil
}

func parsePresetRows(rows driver.Rows) ([]presets.SavedFilter, error) {
	defer rows.Close()

	savedFilters := []presets.SavedFilter{}

	for rows.Next() {
		var stored presets.StoredPreset
		if err := rows.Scan(
			&stored.ID,
			&stored.Name,
			&stored.Description,
			&stored.FilterGroupsJSON,
			&stored.SheetName,
			&stored.CreatedAt,
			&stored.UpdatedAt,
		); err != nil {
			return nil, wrap.Error(err, "failed to scan saved filter row")
		}

		savedFilter, err := stored.ToSavedFilter()
		if err != nil {
			return nil, err
		}
		savedFilters = append(savedFilters, savedFilter)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap.Error(err, "failed to read saved filter rows")
	}

	return savedFilters, nil
}
