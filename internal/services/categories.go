package services

import (
	"context"
	"fmt"
	"strings"

	"budgetpace/internal/core"
	"budgetpace/internal/storage"
)

type CategoryStore interface {
	ListCustomCategories(ctx context.Context, owner string, t core.TxType) ([]core.CustomCategory, error)
	GetCustomCategory(ctx context.Context, owner, id string) (core.CustomCategory, error)
	CreateCustomCategory(ctx context.Context, c core.CustomCategory) (core.CustomCategory, error)
	UpdateCustomCategory(ctx context.Context, c core.CustomCategory) (core.CustomCategory, error)
	DeleteCustomCategory(ctx context.Context, owner, id string) error
}

type NewCategory struct {
	Name  string
	Icon  string
	Color string
	Type  string
}

type CategoryPatch struct {
	Name  *string
	Icon  *string
	Color *string
	Type  *string
}

func (p CategoryPatch) empty() bool {
	return p.Name == nil && p.Icon == nil && p.Color == nil && p.Type == nil
}

// CategoryService manages an owner's custom categories. Custom categories
// change how stats buckets merge, so writes invalidate cached stats.
type CategoryService struct {
	store CategoryStore
	cache Invalidator
}

func NewCategoryService(store CategoryStore, cache Invalidator) *CategoryService {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &CategoryService{store: store, cache: cache}
}

// List filters by type when t is non-empty.
func (s *CategoryService) List(ctx context.Context, owner string, t core.TxType) ([]core.CustomCategory, error) {
	items, err := s.store.ListCustomCategories(ctx, owner, t)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if items == nil {
		items = []core.CustomCategory{}
	}
	return items, nil
}

func (s *CategoryService) Get(ctx context.Context, owner, id string) (core.CustomCategory, error) {
	return s.store.GetCustomCategory(ctx, owner, id)
}

// Catalog lists built-in and custom categories of type t with styles.
func (s *CategoryService) Catalog(ctx context.Context, owner string, t core.TxType) ([]core.CatalogEntry, error) {
	custom, err := s.store.ListCustomCategories(ctx, owner, t)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return core.Catalog(custom, t), nil
}

// Create returns storage.ErrConflict when a category of the same type and
// case-insensitive name exists.
func (s *CategoryService) Create(ctx context.Context, owner string, in NewCategory) (core.CustomCategory, error) {
	t, err := core.ParseTxType(in.Type)
	if err != nil {
		return core.CustomCategory{}, fieldError("type", err)
	}
	c := core.CustomCategory{
		Owner: owner,
		Name:  in.Name,
		Icon:  strings.TrimSpace(in.Icon),
		Color: strings.TrimSpace(in.Color),
		Type:  t,
	}.WithDefaults()
	if err := c.Validate(); err != nil {
		return core.CustomCategory{}, err
	}
	if err := s.checkUnique(ctx, c); err != nil {
		return core.CustomCategory{}, err
	}

	created, err := s.store.CreateCustomCategory(ctx, c)
	if err != nil {
		return core.CustomCategory{}, err
	}
	s.cache.InvalidateOwner(owner)
	return created, nil
}

// Update applies a partial edit. A blank icon or color resets the default.
func (s *CategoryService) Update(ctx context.Context, owner, id string, p CategoryPatch) (core.CustomCategory, error) {
	if p.empty() {
		return core.CustomCategory{}, fieldError("body", core.ErrNoFields)
	}
	c, err := s.store.GetCustomCategory(ctx, owner, id)
	if err != nil {
		return core.CustomCategory{}, err
	}

	renamed := false
	if p.Name != nil {
		renamed = !strings.EqualFold(strings.TrimSpace(*p.Name), c.Name)
		c.Name = *p.Name
	}
	if p.Icon != nil {
		c.Icon = strings.TrimSpace(*p.Icon)
	}
	if p.Color != nil {
		c.Color = strings.TrimSpace(*p.Color)
	}
	if p.Type != nil {
		t := core.TxType(strings.ToLower(strings.TrimSpace(*p.Type)))
		if !t.Valid() {
			return core.CustomCategory{}, fieldError("type", core.ErrInvalidType)
		}
		renamed = renamed || t != c.Type
		c.Type = t
	}
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return core.CustomCategory{}, err
	}
	if renamed {
		if err := s.checkUnique(ctx, c); err != nil {
			return core.CustomCategory{}, err
		}
	}

	updated, err := s.store.UpdateCustomCategory(ctx, c)
	if err != nil {
		return core.CustomCategory{}, err
	}
	s.cache.InvalidateOwner(owner)
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, owner, id string) error {
	if err := s.store.DeleteCustomCategory(ctx, owner, id); err != nil {
		return err
	}
	s.cache.InvalidateOwner(owner)
	return nil
}

// checkUnique is the friendly pre-check; the unique index still guards
// concurrent creates.
func (s *CategoryService) checkUnique(ctx context.Context, c core.CustomCategory) error {
	existing, err := s.store.ListCustomCategories(ctx, c.Owner, c.Type)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	for _, e := range existing {
		if e.ID != c.ID && strings.EqualFold(e.Name, c.Name) {
			return storage.ErrConflict
		}
	}
	return nil
}
