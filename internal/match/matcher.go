// Package match resolves part names against the stock catalog.
//
// Resolution is a pure lookup: exact name first, then a normalized-substring
// fallback. The result is a tagged outcome; the caller decides whether and how
// to mutate stock, so races only ever affect the mutation step.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fixhub/fixhub/internal/model"
	"github.com/fixhub/fixhub/internal/storage"
)

// Catalog is the read-only slice of the stock store the matcher needs.
// Satisfied by both service.Storage and service.Transaction.
type Catalog interface {
	GetStockItem(ctx context.Context, partName string) (*model.StockItem, error)
	FindStockBySubstring(ctx context.Context, term string) (*model.StockItem, error)
}

// NormalizeTerm strips the literal substrings "1set" and "set" from a search
// term before the fuzzy lookup. No other normalization is applied.
func NormalizeTerm(term string) string {
	term = strings.ReplaceAll(term, "1set", "")
	term = strings.ReplaceAll(term, "set", "")
	return strings.TrimSpace(term)
}

// Resolve finds the catalog entry for a line item's part name. It returns an
// exact match when the name equals an entry, a fuzzy match when the normalized
// term appears as a substring of exactly-one-chosen entry, or an unmatched
// outcome. Storage failures other than not-found are returned as errors.
func Resolve(ctx context.Context, catalog Catalog, partName string) (model.MatchOutcome, error) {
	item, err := catalog.GetStockItem(ctx, partName)
	if err == nil {
		return model.ExactMatch(item, partName), nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return model.MatchOutcome{}, fmt.Errorf("exact stock lookup for %q: %w", partName, err)
	}

	term := NormalizeTerm(partName)
	if term == "" {
		return model.Unmatched(partName), nil
	}

	item, err = catalog.FindStockBySubstring(ctx, term)
	if errors.Is(err, storage.ErrNotFound) {
		return model.Unmatched(partName), nil
	}
	if err != nil {
		return model.MatchOutcome{}, fmt.Errorf("fuzzy stock lookup for %q: %w", term, err)
	}

	return model.FuzzyMatch(item, partName), nil
}
