package roster

import (
	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/identity"
)

// Roster is the canonical entity set for one run. Fighters are keyed by
// their immutable ID and indexed by normalized name in first-seen order.
// A roster only grows during a run; a full refresh rebuilds one from empty
// instead of mutating a prior set.
type Roster struct {
	byID  map[FighterID]*Fighter
	byKey map[string]FighterID
	order []FighterID
}

// New creates an empty roster.
func New() *Roster {
	return &Roster{
		byID:  make(map[FighterID]*Fighter),
		byKey: make(map[string]FighterID),
	}
}

// Add inserts a fighter under its normalized name key. It returns
// errors.ErrAlreadyExists when the key or ID is already taken; the caller
// should have matched and merged instead.
func (r *Roster) Add(f *Fighter) error {
	key := identity.Normalize(f.Name)
	if key == "" {
		return errors.NewValidationError("name", f.Name, "normalizes to empty key")
	}
	if _, ok := r.byKey[key]; ok {
		return errors.ErrAlreadyExists
	}
	if _, ok := r.byID[f.ID]; ok {
		return errors.ErrAlreadyExists
	}
	r.byID[f.ID] = f
	r.byKey[key] = f.ID
	r.order = append(r.order, f.ID)
	return nil
}

// Get returns the fighter with the given canonical ID.
func (r *Roster) Get(id FighterID) (*Fighter, bool) {
	f, ok := r.byID[id]
	return f, ok
}

// ByKey returns the fighter indexed under a normalized name key.
func (r *Roster) ByKey(key string) (*Fighter, bool) {
	id, ok := r.byKey[key]
	if !ok {
		return nil, false
	}
	return r.byID[id], true
}

// Len returns the number of fighters.
func (r *Roster) Len() int {
	return len(r.order)
}

// Fighters returns all fighters in first-seen order. The order is stable
// across runs for identical input, which keeps reconciliation output
// deterministic.
func (r *Roster) Fighters() []*Fighter {
	out := make([]*Fighter, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Keys returns the normalized name keys in first-seen order, paired with
// their IDs via ByKey. Used to build a match index.
func (r *Roster) Keys() []string {
	keys := make([]string, 0, len(r.order))
	seen := make(map[FighterID]string, len(r.order))
	for key, id := range r.byKey {
		seen[id] = key
	}
	for _, id := range r.order {
		keys = append(keys, seen[id])
	}
	return keys
}
