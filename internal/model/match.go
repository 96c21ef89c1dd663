package model

// MatchKind indicates how a line item resolved against the catalog.
type MatchKind string

const (
	// MatchExact means the part name equalled a catalog entry byte for byte.
	MatchExact MatchKind = "EXACT"
	// MatchFuzzy means the entry was found by normalized substring fallback.
	MatchFuzzy MatchKind = "FUZZY"
	// MatchNone means no entry matched even after the fuzzy fallback.
	MatchNone MatchKind = "NONE"
)

// MatchOutcome is the tagged result of resolving one line item. Item is nil
// for MatchNone; SearchTerm always carries the original, unnormalized term.
type MatchOutcome struct {
	Item       *StockItem
	SearchTerm string
	Kind       MatchKind
}

// Matched reports whether the outcome resolved to a catalog entry.
func (o MatchOutcome) Matched() bool {
	return o.Kind != MatchNone
}

// ExactMatch builds an outcome for a byte-exact catalog hit.
func ExactMatch(item *StockItem, term string) MatchOutcome {
	return MatchOutcome{Kind: MatchExact, Item: item, SearchTerm: term}
}

// FuzzyMatch builds an outcome for a substring-fallback hit, preserving the
// original search term for operator logs.
func FuzzyMatch(item *StockItem, term string) MatchOutcome {
	return MatchOutcome{Kind: MatchFuzzy, Item: item, SearchTerm: term}
}

// Unmatched builds an outcome for a term that resolved to nothing.
func Unmatched(term string) MatchOutcome {
	return MatchOutcome{Kind: MatchNone, SearchTerm: term}
}
