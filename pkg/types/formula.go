package types

import (
	"fmt"
	"strings"
)

// FormulaItem is one herb line inside a compound formula. Percentage is the
// herb's share of the finished blend volume.
type FormulaItem struct {
	HerbSlug   string  `json:"herb_slug"`
	HerbName   string  `json:"herb_name,omitempty"`
	Percentage float64 `json:"percentage"`
}

// Formula is the ordered herb composition of a compound, stored as jsonb.
type Formula []FormulaItem

// Validate enforces the blend rules: at least one herb, no duplicate slugs,
// every percentage positive, and the shares summing to at most 100 (the
// remainder is the extraction base).
func (f Formula) Validate() error {
	if len(f) == 0 {
		return fmt.Errorf("formula: at least one herb required")
	}
	seen := make(map[string]struct{}, len(f))
	var total float64
	for _, item := range f {
		slug := strings.TrimSpace(item.HerbSlug)
		if slug == "" {
			return fmt.Errorf("formula: herb slug required")
		}
		if _, ok := seen[slug]; ok {
			return fmt.Errorf("formula: duplicate herb %s", slug)
		}
		seen[slug] = struct{}{}
		if item.Percentage <= 0 {
			return fmt.Errorf("formula: %s percentage must be positive", slug)
		}
		total += item.Percentage
	}
	if total > 100 {
		return fmt.Errorf("formula: herb percentages sum to %.1f, exceeding 100", total)
	}
	return nil
}
