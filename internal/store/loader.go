package store

import (
	"context"
	"fmt"

	"github.com/fightdex/fightdex/pkg/pipeline"
	"github.com/fightdex/fightdex/pkg/reconcile"
)

// Loader adapts the store to the pipeline contract: replace every table
// in full, then verify referential integrity over what was committed.
type Loader struct {
	store *Store
}

// NewLoader creates a pipeline loader over the store.
func NewLoader(s *Store) *Loader {
	return &Loader{store: s}
}

// Load persists the result and runs the integrity pass.
func (l *Loader) Load(ctx context.Context, res *reconcile.Result) (*pipeline.LoadReport, error) {
	stats, err := l.store.Load(ctx, res)
	report := &pipeline.LoadReport{}
	if stats != nil {
		report.Rows = stats.Rows
	}
	if err != nil {
		return report, err
	}

	integrity, err := l.store.Integrity(ctx)
	if err != nil {
		return report, err
	}
	for _, orphan := range integrity.Orphans {
		report.Orphans = append(report.Orphans,
			fmt.Sprintf("%s/%s references missing fighter %s", orphan.Table, orphan.Key, orphan.FighterID))
	}
	return report, nil
}

var _ pipeline.Loader = (*Loader)(nil)
