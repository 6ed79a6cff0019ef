// Package match resolves raw display names to canonical identities. Every
// outcome is a tagged Result so callers and tests branch on provenance
// (exact, override, fuzzy-with-score, or no-match-with-reason) instead of
// re-deriving it from raw scores.
package match

import "fmt"

// DefaultThreshold is the minimum containment similarity accepted by the
// fuzzy fallback. Hand-tuned in production use; too low merges distinct
// identities, too high fragments one identity across the ledger. Always
// overridable via configuration.
const DefaultThreshold = 0.70

// Kind tags how a match was established.
type Kind int

const (
	// NoMatch means no acceptable identity was found.
	NoMatch Kind = iota
	// Exact means the normalized key was present in the index.
	Exact
	// Override means the override-corrected name was present in the index.
	Override
	// Fuzzy means the containment fallback scored at or above threshold.
	Fuzzy
)

// String returns a human-readable tag for the match kind.
func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Override:
		return "override"
	case Fuzzy:
		return "fuzzy"
	case NoMatch:
		return "no-match"
	default:
		return "unknown"
	}
}

// Result is the outcome of resolving one display name.
type Result struct {
	// Kind tags the provenance of the match.
	Kind Kind

	// ID is the matched canonical identity. Empty when Kind is NoMatch.
	ID string

	// Key is the index key the match landed on.
	Key string

	// Score is the containment similarity for fuzzy matches, 1.0 for exact
	// and override matches, and the best rejected score for no-matches.
	Score float64

	// Reason explains a NoMatch.
	Reason string
}

// Matched reports whether an identity was resolved.
func (r Result) Matched() bool {
	return r.Kind != NoMatch
}

// String renders the result for logs and reports.
func (r Result) String() string {
	if r.Kind == NoMatch {
		return fmt.Sprintf("no-match (%s)", r.Reason)
	}
	return fmt.Sprintf("%s %s (score %.2f)", r.Kind, r.ID, r.Score)
}
