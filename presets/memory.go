package presets

import (
	"context"
	"sync"

	"hermannm.dev/sheetlens/filter"
)

// MemoryRepository keeps saved filters in memory, for development and tests. Contents are lost
// on restart.
type MemoryRepository struct {
	lock    sync.RWMutex
	presets map[string]SavedFilter
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{presets: make(map[string]SavedFilter)}
}

func (repo *MemoryRepository) Get(ctx context.Context, id string) (SavedFilter, error) {
	repo.lock.RLock()
	defer repo.lock.RUnlock()

	preset, ok := repo.presets[id]
	if !ok {
		return SavedFilter{}, ErrNotFound
	}
	return clonePreset(preset), nil
}

func (repo *MemoryRepository) List(ctx context.Context) ([]SavedFilter, error) {
	return repo.list(func(SavedFilter) bool { return true }), nil
}

func (repo *MemoryRepository) ListBySheet(
	ctx context.Context,
	sheetName string,
) ([]SavedFilter, error) {
	return repo.list(func(preset SavedFilter) bool { return preset.SheetName == sheetName }), nil
}

func (repo *MemoryRepository) list(include func(SavedFilter) bool) []SavedFilter {
	repo.lock.RLock()
	defer repo.lock.RUnlock()

	presets := make([]SavedFilter, 0, len(repo.presets))
	for _, preset := range repo.presets {
		if include(preset) {
			presets = append(presets, clonePreset(preset))
		}
	}

	SortByCreation(presets)
	return presets
}

func (repo *MemoryRepository) Put(ctx context.Context, preset SavedFilter) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	repo.presets[preset.ID] = clonePreset(preset)
	return nil
}

func (repo *MemoryRepository) Delete(ctx context.Context, id string) error {
	repo.lock.Lock()
	defer repo.lock.Unlock()

	if _, ok := repo.presets[id]; !ok {
		return ErrNotFound
	}
	delete(repo.presets, id)
	return nil
}

func clonePreset(preset SavedFilter) SavedFilter {
	preset.FilterGroups = filter.CloneGroups(preset.FilterGroups)
	return preset
}
