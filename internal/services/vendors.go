package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/agnivade/levenshtein"

	"budgetpace/internal/core"
	"budgetpace/internal/storage"
)

const (
	// MaxFuzzyRatio is the largest edit distance, relative to the longer
	// key, still accepted as the same vendor.
	MaxFuzzyRatio = 0.4

	fuzzyCandidates = 500
	vendorListLimit = 50
)

var ErrEmptyVendor = errors.New("vendor is required")

// VendorStore reads the owner's vendor memory.
type VendorStore interface {
	VendorCategory(ctx context.Context, owner, vendorKey string) (core.VendorCategory, error)
	ListVendorCategories(ctx context.Context, owner string, limit int) ([]core.VendorCategory, error)
}

type MatchKind string

const (
	MatchExact MatchKind = "exact"
	MatchFuzzy MatchKind = "fuzzy"
)

type Suggestion struct {
	VendorKey string    `json:"vendor_key"`
	Category  string    `json:"category"`
	Match     MatchKind `json:"match"`
	Distance  int       `json:"distance"`
}

// VendorSuggester proposes a category for a vendor from past entries.
type VendorSuggester struct {
	store VendorStore
}

func NewVendorSuggester(store VendorStore) *VendorSuggester {
	return &VendorSuggester{store: store}
}

// Suggest tries the normalized vendor key first and falls back to the
// closest remembered key by edit distance. ok is false when nothing is
// close enough.
func (v *VendorSuggester) Suggest(ctx context.Context, owner, vendor string) (s Suggestion, ok bool, err error) {
	key := core.NormalizeVendor(vendor)
	if key == "" {
		return Suggestion{}, false, fieldError("vendor", ErrEmptyVendor)
	}

	vc, err := v.store.VendorCategory(ctx, owner, key)
	switch {
	case err == nil:
		return Suggestion{VendorKey: vc.VendorKey, Category: vc.Category, Match: MatchExact}, true, nil
	case !errors.Is(err, storage.ErrNotFound):
		return Suggestion{}, false, fmt.Errorf("lookup vendor: %w", err)
	}

	known, err := v.store.ListVendorCategories(ctx, owner, fuzzyCandidates)
	if err != nil {
		return Suggestion{}, false, fmt.Errorf("list vendors: %w", err)
	}

	best := -1
	for _, c := range known {
		d := levenshtein.ComputeDistance(key, c.VendorKey)
		longest := max(len([]rune(key)), len([]rune(c.VendorKey)))
		if float64(d)/float64(longest) >= MaxFuzzyRatio {
			continue
		}
		// known is newest first, so ties keep the most recent mapping
		if best < 0 || d < best {
			best = d
			s = Suggestion{VendorKey: c.VendorKey, Category: c.Category, Match: MatchFuzzy, Distance: d}
		}
	}
	return s, best >= 0, nil
}

// Known lists the most recently used vendor mappings.
func (v *VendorSuggester) Known(ctx context.Context, owner string) ([]core.VendorCategory, error) {
	items, err := v.store.ListVendorCategories(ctx, owner, vendorListLimit)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	if items == nil {
		items = []core.VendorCategory{}
	}
	return items, nil
}
