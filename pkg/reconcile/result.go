package reconcile

import (
	"github.com/fightdex/fightdex/pkg/roster"
	"github.com/fightdex/fightdex/pkg/sources"
)

// Ledger queue names for match failures raised during reconciliation.
// Fetch-stage failures use their stage name as the queue; these three are
// owned by the reconcile stage itself.
const (
	QueueDetailMatch    = "detail-match"
	QueueSecondaryMatch = "secondary-match"
	QueueRankingMatch   = "ranking-match"
	QueueMatchupMatch   = "matchup-match"
)

// Conflict records two sources disagreeing on the externally-assigned
// identifier for one normalized name. It is written to the review report
// and never auto-resolved; the merged entity keeps the first-assigned ID.
type Conflict struct {
	Key       string           `json:"key"`
	FighterID roster.FighterID `json:"fighter_id"`
	Source    sources.ID       `json:"source"`
	Kept      string           `json:"kept"`
	Rejected  string           `json:"rejected"`
}

// Unmatched records one input row the matcher could not resolve. It
// carries enough context to retry without re-deriving it from the
// original extraction.
type Unmatched struct {
	Queue  string     `json:"queue"`
	Source sources.ID `json:"source"`
	Name   string     `json:"name"`
	Ref    string     `json:"ref,omitempty"`
	Score  float64    `json:"score,omitempty"`
	Reason string     `json:"reason"`
}

// Stats summarizes one reconciliation pass.
type Stats struct {
	FightersTotal  int                `json:"fighters_total"`
	BoutsTotal     int                `json:"bouts_total"`
	Skipped        int                `json:"skipped"`
	MergedBySource map[sources.ID]int `json:"merged_by_source"`

	RankingsResolved   int `json:"rankings_resolved"`
	RankingsUnresolved int `json:"rankings_unresolved"`
	SlotsResolved      int `json:"slots_resolved"`
	SlotsUnresolved    int `json:"slots_unresolved"`
}

func (s *Stats) merged(src sources.ID) {
	s.MergedBySource[src]++
}

// Result is the complete outcome of one reconciliation pass.
type Result struct {
	Roster   *roster.Roster
	Rankings []roster.RankingEntry
	Matchups []roster.Matchup

	Conflicts []Conflict
	Unmatched []Unmatched

	// Warnings carries structural oddities worth human eyes, such as a
	// division without a champion or one with several.
	Warnings []string

	Stats Stats
}

func newResult() *Result {
	return &Result{
		Roster: roster.New(),
		Stats: Stats{
			MergedBySource: make(map[sources.ID]int),
		},
	}
}

// UnmatchedIn returns the unmatched rows flagged under one queue.
func (r *Result) UnmatchedIn(queue string) []Unmatched {
	var out []Unmatched
	for _, u := range r.Unmatched {
		if u.Queue == queue {
			out = append(out, u)
		}
	}
	return out
}
