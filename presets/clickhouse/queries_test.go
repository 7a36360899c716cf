package clickhouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCreateTableQuery(t *testing.T) {
	assert.Equal(
		t,
		"CREATE TABLE IF NOT EXISTS `saved_filters` ("+
			"`id` String, `name` String, `description` String, `filter_groups` String, "+
			"`sheet_name` String, `created_at` DateTime64(3, 'UTC'), "+
			"`updated_at` DateTime64(3, 'UTC')) "+
			"ENGINE = ReplacingMergeTree(`updated_at`) ORDER BY (`id`)",
		buildCreateTableQuery("saved_filters"),
	)
}

func TestBuildInsertQuery(t *testing.T) {
	assert.Equal(
		t,
		"INSERT INTO `saved_filters` (`id`, `name`, `description`, `filter_groups`, "+
			"`sheet_name`, `created_at`, `updated_at`) VALUES (?, ?, ?, ?, ?, ?, ?)",
		buildInsertQuery("saved_filters"),
	)
}

func TestBuildSelectQuery(t *testing.T) {
	const columns = "`id`, `name`, `description`, `filter_groups`, `sheet_name`, " +
		"`created_at`, `updated_at`"

	testCases := []struct {
		name        string
		whereColumn string
		expected    string
	}{
		{
			name:        "all rows",
			whereColumn: "",
			expected: "SELECT " + columns + " FROM `saved_filters` FINAL " +
				"ORDER BY (`created_at`, `id`)",
		},
		{
			name:        "by sheet",
			whereColumn: columnSheetName,
			expected: "SELECT " + columns + " FROM `saved_filters` FINAL " +
				"WHERE (`sheet_name` = ?) ORDER BY (`created_at`, `id`)",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, buildSelectQuery("saved_filters", testCase.whereColumn))
		})
	}
}

func TestBuildDeleteQuery(t *testing.T) {
	assert.Equal(
		t,
		"DELETE FROM `saved_filters` WHERE (`id` = ?)",
		buildDeleteQuery("saved_filters"),
	)
}

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("saved_filters"))
	assert.Error(t, ValidateIdentifier(""))
	assert.Error(t, ValidateIdentifier("saved`filters"))
}
