// Package reconcile merges per-source records into the canonical fighter
// set. It seeds identities from the primary roster, folds detail and
// secondary records in via the matcher, resolves rankings and matchups
// against the canonical index, and surfaces identifier conflicts for
// review instead of resolving them silently.
//
// Reconciliation is idempotent: the merge map is keyed by the immutable
// canonical ID, identities are minted deterministically from normalized
// names, and output ordering follows first-seen order, so the same input
// snapshot always yields a byte-identical canonical set regardless of
// source-arrival permutation.
package reconcile

import (
	"context"
	"time"

	"github.com/fightdex/fightdex/pkg/identity"
	"github.com/fightdex/fightdex/pkg/logging"
	"github.com/fightdex/fightdex/pkg/match"
	"github.com/fightdex/fightdex/pkg/overrides"
	"github.com/fightdex/fightdex/pkg/roster"
	"github.com/fightdex/fightdex/pkg/sources"
)

// Snapshot is the stable, complete input to one reconciliation pass. All
// fetches for a stage finish before its snapshot is read; reconciliation
// never interleaves with concurrent mutation of source records.
type Snapshot struct {
	Primary   []sources.Record     `json:"primary,omitempty"`
	Details   []sources.Record     `json:"details,omitempty"`
	Secondary []sources.Record     `json:"secondary,omitempty"`
	Rankings  []sources.RankingRow `json:"rankings,omitempty"`
	Matchups  []sources.MatchupRow `json:"matchups,omitempty"`
}

// Reconciler merges snapshots into canonical rosters.
type Reconciler struct {
	threshold float64
	overrides *overrides.Table
	now       func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithThreshold sets the fuzzy match acceptance threshold.
func WithThreshold(threshold float64) Option {
	return func(r *Reconciler) {
		if threshold > 0 {
			r.threshold = threshold
		}
	}
}

// WithOverrides installs the static correction table.
func WithOverrides(t *overrides.Table) Option {
	return func(r *Reconciler) {
		if t != nil {
			r.overrides = t
		}
	}
}

// WithClock fixes the freshness timestamp source. The orchestrator passes
// the run start time so one run stamps one instant; tests pass a constant.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a Reconciler with options.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		threshold: match.DefaultThreshold,
		overrides: overrides.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile merges one snapshot into a canonical result. It never returns
// a partial roster with silently dropped rows: every input record either
// merges, lands in Unmatched, or is counted as skipped.
func (r *Reconciler) Reconcile(ctx context.Context, snap Snapshot) (*Result, error) {
	log := logging.FromContext(ctx)
	res := newResult()

	r.seedPrimary(snap.Primary, res)

	// The matcher index is built once the primary pass completes; later
	// sources resolve against a stable canonical set.
	index := match.NewIndex()
	for _, key := range res.Roster.Keys() {
		if f, ok := res.Roster.ByKey(key); ok {
			index.Add(key, string(f.ID))
		}
	}
	matcher := match.New(index,
		match.WithOverrides(r.overrides),
		match.WithThreshold(r.threshold),
	)

	r.mergeDetails(snap.Details, matcher, res)
	r.mergeSecondary(snap.Secondary, matcher, res)
	r.resolveRankings(snap.Rankings, matcher, res)
	r.resolveMatchups(snap.Matchups, matcher, res)

	res.Stats.FightersTotal = res.Roster.Len()
	for _, f := range res.Roster.Fighters() {
		res.Stats.BoutsTotal += len(f.History)
	}

	log.Info().
		Int("fighters", res.Stats.FightersTotal).
		Int("bouts", res.Stats.BoutsTotal).
		Int("conflicts", len(res.Conflicts)).
		Int("unmatched", len(res.Unmatched)).
		Msg("reconciliation complete")

	return res, nil
}

// seedPrimary creates a canonical identity for every previously-unseen
// normalized name in the primary roster. The first source that introduces
// a name owns identity creation; duplicates within the primary merge into
// the existing entity.
func (r *Reconciler) seedPrimary(records []sources.Record, res *Result) {
	for _, rec := range records {
		key := identity.Normalize(rec.Name)
		if key == "" {
			res.Stats.Skipped++
			continue
		}

		if f, ok := res.Roster.ByKey(key); ok {
			r.mergeRecord(f, key, rec, res)
			continue
		}

		id := roster.FighterID(rec.ExternalID)
		if id == "" {
			id = roster.MintID(key)
		}
		f := &roster.Fighter{
			ID:        id,
			Name:      rec.Name,
			UpdatedAt: r.now().UTC(),
		}
		f.SetRef(rec.Source, rec.Ref)
		applyFields(f, rec)
		applyHistory(f, rec)
		if err := res.Roster.Add(f); err != nil {
			res.Stats.Skipped++
			continue
		}
		res.Stats.merged(rec.Source)
	}
}

// mergeDetails folds detail records back into their fighters. Details are
// fetched per-fighter, so the external ID resolves directly; the matcher
// is only a fallback for records that lost their ID in transit.
func (r *Reconciler) mergeDetails(records []sources.Record, matcher *match.Matcher, res *Result) {
	for _, rec := range records {
		if rec.ExternalID != "" {
			if f, ok := res.Roster.Get(roster.FighterID(rec.ExternalID)); ok {
				r.mergeRecord(f, identity.Normalize(f.Name), rec, res)
				continue
			}
		}
		r.mergeByName(rec, matcher, QueueDetailMatch, res)
	}
}

// mergeSecondary resolves each secondary record through the matcher and
// merges on success. Unmatched records are flagged for the ledger, never
// dropped.
func (r *Reconciler) mergeSecondary(records []sources.Record, matcher *match.Matcher, res *Result) {
	for _, rec := range records {
		r.mergeByName(rec, matcher, QueueSecondaryMatch, res)
	}
}

// mergeByName matches a record by display name and merges it, or flags it
// unmatched under the given queue.
func (r *Reconciler) mergeByName(rec sources.Record, matcher *match.Matcher, queue string, res *Result) {
	m := matcher.Match(rec.Name)
	if !m.Matched() {
		res.Unmatched = append(res.Unmatched, Unmatched{
			Queue:  queue,
			Source: rec.Source,
			Name:   rec.Name,
			Ref:    rec.Ref,
			Score:  m.Score,
			Reason: m.Reason,
		})
		return
	}
	f, ok := res.Roster.Get(roster.FighterID(m.ID))
	if !ok {
		// Index and roster are built from the same set; a miss here is a
		// programming error, but flag rather than panic.
		res.Unmatched = append(res.Unmatched, Unmatched{
			Queue:  queue,
			Source: rec.Source,
			Name:   rec.Name,
			Ref:    rec.Ref,
			Reason: "matched identity missing from roster",
		})
		return
	}
	r.mergeRecord(f, m.Key, rec, res)
}

// mergeRecord applies one source record to a canonical fighter: conflict
// check on the externally-assigned identifier, additive locator, then
// field-policy merge. The merged entity is always produced, conflict or
// not.
func (r *Reconciler) mergeRecord(f *roster.Fighter, key string, rec sources.Record, res *Result) {
	if rec.ExternalID != "" && rec.ExternalID != string(f.ID) {
		res.Conflicts = append(res.Conflicts, Conflict{
			Key:       key,
			FighterID: f.ID,
			Source:    rec.Source,
			Kept:      string(f.ID),
			Rejected:  rec.ExternalID,
		})
	}
	f.SetRef(rec.Source, rec.Ref)
	applyFields(f, rec)
	applyHistory(f, rec)
	f.UpdatedAt = r.now().UTC()
	res.Stats.merged(rec.Source)
}
