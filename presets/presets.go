package presets

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"hermannm.dev/sheetlens/filter"
	"hermannm.dev/wrap"
)

// SavedFilter is a named set of filter groups, saved for reuse on a sheet.
type SavedFilter struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	FilterGroups []filter.Group `json:"filterGroups"`
	SheetName    string         `json:"sheetName"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// ErrNotFound is returned by repositories when no saved filter has the requested ID.
var ErrNotFound = errors.New("saved filter not found")

// Repository stores saved filters by ID. Implementations must be safe for concurrent use.
type Repository interface {
	Get(ctx context.Context, id string) (SavedFilter, error)
	// Returns saved filters sorted by creation time.
	List(ctx context.Context) ([]SavedFilter, error)
	// Like List, but only returns saved filters for the given sheet.
	ListBySheet(ctx context.Context, sheetName string) ([]SavedFilter, error)
	// Inserts the given saved filter, or replaces the existing one with the same ID.
	Put(ctx context.Context, preset SavedFilter) error
	// Returns ErrNotFound if there is no saved filter with the given ID.
	Delete(ctx context.Context, id string) error
}

// StoredPreset is the flat form of SavedFilter used by database backends, with filter groups
// serialized to JSON.
type StoredPreset struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	FilterGroupsJSON string    `json:"filterGroups"`
	SheetName        string    `json:"sheetName"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (preset SavedFilter) ToStored() (StoredPreset, error) {
	groups := preset.FilterGroups
	if groups == nil {
		groups = []filter.Group{}
	}

	groupsJSON, err := json.Marshal(groups)
	if err != nil {
		return StoredPreset{}, wrap.Error(err, "failed to serialize filter groups")
	}

	return StoredPreset{
		ID:               preset.ID,
		Name:             preset.Name,
		Description:      preset.Description,
		FilterGroupsJSON: string(groupsJSON),
		SheetName:        preset.SheetName,
		CreatedAt:        preset.CreatedAt,
		UpdatedAt:        preset.UpdatedAt,
	}, nil
}

func (stored StoredPreset) ToSavedFilter() (SavedFilter, error) {
	var groups []filter.Group
	if err := json.Unmarshal([]byte(stored.FilterGroupsJSON), &groups); err != nil {
		return SavedFilter{}, wrap.Errorf(
			err,
			"failed to parse filter groups of stored preset '%s'",
			stored.ID,
		)
	}

	return SavedFilter{
		ID:           stored.ID,
		Name:         stored.Name,
		Description:  stored.Description,
		FilterGroups: groups,
		SheetName:    stored.SheetName,
		CreatedAt:    stored.CreatedAt.UTC(),
		UpdatedAt:    stored.UpdatedAt.UTC(),
	}, nil
}

// SortByCreation sorts saved filters by creation time, then by ID for stable output.
func SortByCreation(presets []SavedFilter) {
	slices.SortFunc(presets, func(preset1 SavedFilter, preset2 SavedFilter) int {
		if comparison := preset1.CreatedAt.Compare(preset2.CreatedAt); comparison != 0 {
			return comparison
		}
		return strings.Compare(preset1.ID, preset2.ID)
	})
}
