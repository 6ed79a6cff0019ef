// Package sources defines the contract between the reconciliation core and
// the per-site extractors that feed it. Extractors yield raw records (a
// display name, a source-local locator, and an untyped field map) and all
// site-specific extraction knowledge stays behind the interfaces declared
// here. The core never sees a selector, an HTML fragment, or a URL scheme
// beyond the opaque locator string.
package sources

import (
	"context"
	"slices"
)

// ID identifies a data source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Known sources.
const (
	// UFC is the primary roster source. It assigns the external identifier
	// that seeds a canonical identity.
	UFC ID = "ufc"
	// Sherdog is the secondary record-keeping source supplying bout history
	// and outcome counters.
	Sherdog ID = "sherdog"
	// Tapology supplies scheduled matchups.
	Tapology ID = "tapology"
)

// IDs returns all known source IDs in priority order (highest first).
func IDs() []ID {
	return []ID{UFC, Sherdog, Tapology}
}

// IsValid reports whether the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Record is one raw entity as yielded by an extractor.
type Record struct {
	// Source that produced this record.
	Source ID `json:"source"`

	// Name is the display name exactly as the source renders it.
	Name string `json:"name"`

	// Ref is the source-local locator (profile URL or slug). Opaque to the
	// core; only the originating extractor can dereference it.
	Ref string `json:"ref,omitempty"`

	// ExternalID is the source-assigned identifier, when the source assigns
	// one. Distinct ExternalIDs for the same normalized name across sources
	// surface as a reconciliation conflict.
	ExternalID string `json:"external_id,omitempty"`

	// Fields is the raw field map. Values are whatever the extractor parsed;
	// the reconciler owns coercion and cleaning.
	Fields map[string]any `json:"fields,omitempty"`

	// History holds raw bout rows, for sources that carry them.
	History []FightRow `json:"history,omitempty"`
}

// FightRow is one raw bout as extracted from a record-keeping source.
type FightRow struct {
	Opponent string `json:"opponent"`
	Result   string `json:"result,omitempty"`
	Method   string `json:"method,omitempty"`
	Round    string `json:"round,omitempty"`
	Time     string `json:"time,omitempty"`
	Date     string `json:"date,omitempty"`
}

// RankingRow is one raw ranking position. Rank is a string because the
// champion slot is rendered as "C" rather than a number.
type RankingRow struct {
	Division string `json:"division"`
	Rank     string `json:"rank"`
	Name     string `json:"name"`
	Change   string `json:"change,omitempty"`
}

// MatchupRow is one raw scheduled bout.
type MatchupRow struct {
	Event       string `json:"event"`
	EventType   string `json:"event_type,omitempty"`
	Date        string `json:"event_date,omitempty"`
	Venue       string `json:"venue,omitempty"`
	Location    string `json:"location,omitempty"`
	Fighter1    string `json:"fighter1"`
	Fighter2    string `json:"fighter2"`
	BoutOrder   int    `json:"bout_order,omitempty"`
	CardSection string `json:"card_section,omitempty"`
	WeightClass string `json:"weight_class,omitempty"`
}

// RosterSource lists every entity the primary source knows about.
type RosterSource interface {
	ID() ID
	Roster(ctx context.Context) ([]Record, error)
}

// DetailSource enriches a single roster record with its detail page.
type DetailSource interface {
	ID() ID
	Details(ctx context.Context, rec Record) (Record, error)
}

// LookupSource resolves a display name against a secondary source and
// returns its record there. ref, when non-empty, is a previously known
// locator that skips the search step.
type LookupSource interface {
	ID() ID
	Lookup(ctx context.Context, name, ref string) (Record, error)
}

// RankingSource fetches the current official rankings.
type RankingSource interface {
	ID() ID
	Rankings(ctx context.Context) ([]RankingRow, error)
}

// MatchupSource fetches scheduled bouts.
type MatchupSource interface {
	ID() ID
	Matchups(ctx context.Context) ([]MatchupRow, error)
}
