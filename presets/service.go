package presets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"hermannm.dev/sheetlens/filter"
	"hermannm.dev/wrap"
)

// Draft is the user-provided part of a saved filter, used to create or update one.
type Draft struct {
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	FilterGroups []filter.Group `json:"filterGroups"`
	SheetName    string         `json:"sheetName"`
}

// ValidationError is returned by Service when a draft is invalid.
type ValidationError struct {
	err error
}

func (validationErr ValidationError) Error() string {
	return validationErr.err.Error()
}

func (validationErr ValidationError) Unwrap() error {
	return validationErr.err
}

func (draft Draft) Validate() error {
	var errs []error

	if strings.TrimSpace(draft.Name) == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if draft.SheetName == "" {
		errs = append(errs, errors.New("sheet name must not be empty"))
	}

	for i, group := range draft.FilterGroups {
		if !group.Logic.IsValid() {
			errs = append(errs, fmt.Errorf("filter group %d has invalid logic", i+1))
		}
		for j, rule := range group.Rules {
			if rule.ColumnName == "" {
				errs = append(errs, fmt.Errorf("rule %d in filter group %d has no column", j+1, i+1))
			}
			if !rule.Operator.IsValid() {
				errs = append(
					errs,
					fmt.Errorf("rule %d in filter group %d has invalid operator", j+1, i+1),
				)
			}
		}
	}

	if len(errs) > 0 {
		return ValidationError{err: wrap.Errors("invalid saved filter", errs...)}
	}
	return nil
}

// Service manages saved filters on top of a Repository, assigning IDs and timestamps. Updates are
// serialized, so concurrent updates to the same saved filter do not lose each other's changes.
type Service struct {
	repo Repository
	now  func() time.Time

	writeLock sync.Mutex
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: defaultClock}
}

// Timestamps are kept at millisecond precision, which all backends can store exactly.
func defaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (service *Service) Save(ctx context.Context, draft Draft) (SavedFilter, error) {
	if err := draft.Validate(); err != nil {
		return SavedFilter{}, err
	}

	now := service.now()
	preset := SavedFilter{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(draft.Name),
		Description:  draft.Description,
		FilterGroups: cloneOrEmpty(draft.FilterGroups),
		SheetName:    draft.SheetName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.repo.Put(ctx, preset); err != nil {
		return SavedFilter{}, wrap.Error(err, "failed to store saved filter")
	}
	return preset, nil
}

// Update replaces the user-provided fields of the saved filter with the given ID, keeping its
// creation time.
func (service *Service) Update(ctx context.Context, id string, draft Draft) (SavedFilter, error) {
	if err := draft.Validate(); err != nil {
		return SavedFilter{}, err
	}

	service.writeLock.Lock()
	defer service.writeLock.Unlock()

	preset, err := service.repo.Get(ctx, id)
	if err != nil {
		return SavedFilter{}, err
	}

	preset.Name = strings.TrimSpace(draft.Name)
	preset.Description = draft.Description
	preset.FilterGroups = cloneOrEmpty(draft.FilterGroups)
	preset.SheetName = draft.SheetName
	preset.UpdatedAt = service.now()

	if err := service.repo.Put(ctx, preset); err != nil {
		return SavedFilter{}, wrap.Errorf(err, "failed to store updated saved filter '%s'", id)
	}
	return preset, nil
}

func (service *Service) Get(ctx context.Context, id string) (SavedFilter, error) {
	return service.repo.Get(ctx, id)
}

func (service *Service) List(ctx context.Context) ([]SavedFilter, error) {
	return service.repo.List(ctx)
}

func (service *Service) ListBySheet(ctx context.Context, sheetName string) ([]SavedFilter, error) {
	return service.repo.ListBySheet(ctx, sheetName)
}

func (service *Service) Delete(ctx context.Context, id string) error {
	service.writeLock.Lock()
	defer service.writeLock.Unlock()

	return service.repo.Delete(ctx, id)
}

func cloneOrEmpty(groups []filter.Group) []filter.Group {
	if groups == nil {
		return []filter.Group{}
	}
	return filter.CloneGroups(groups)
}
