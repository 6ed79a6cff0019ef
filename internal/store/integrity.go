package store

import (
	"context"
	"encoding/json"

	bolt "go.etcd.io/bbolt"

	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/logging"
)

// Orphan is a persisted row referencing a fighter ID that is not present
// in the fighters table.
type Orphan struct {
	Table     string `json:"table"`
	Key       string `json:"key"`
	FighterID string `json:"fighter_id"`
}

// IntegrityReport is the outcome of one referential scan.
type IntegrityReport struct {
	Checked int      `json:"checked"`
	Orphans []Orphan `json:"orphans,omitempty"`
}

// OK reports whether the scan found no orphans.
func (r *IntegrityReport) OK() bool {
	return len(r.Orphans) == 0
}

// Integrity scans every dependent table for fighter references that do
// not resolve. An empty fighter ID means the matcher left the row
// unresolved on purpose; only non-empty dangling references count.
func (s *Store) Integrity(ctx context.Context) (*IntegrityReport, error) {
	report := &IntegrityReport{}

	err := s.db.View(func(tx *bolt.Tx) error {
		fighters := tx.Bucket([]byte(TableFighters))
		exists := func(id string) bool {
			return fighters != nil && fighters.Get([]byte(id)) != nil
		}

		check := func(table, key, id string) {
			if id == "" {
				return
			}
			report.Checked++
			if !exists(id) {
				report.Orphans = append(report.Orphans, Orphan{Table: table, Key: key, FighterID: id})
			}
		}

		if b := tx.Bucket([]byte(TableHistory)); b != nil {
			if err := b.ForEach(func(k, v []byte) error {
				var r historyRow
				if err := json.Unmarshal(v, &r); err != nil {
					return nil
				}
				check(TableHistory, string(k), r.FighterID)
				return nil
			}); err != nil {
				return err
			}
		}

		if b := tx.Bucket([]byte(TableRankings)); b != nil {
			if err := b.ForEach(func(k, v []byte) error {
				var r rankingRow
				if err := json.Unmarshal(v, &r); err != nil {
					return nil
				}
				check(TableRankings, string(k), r.FighterID)
				return nil
			}); err != nil {
				return err
			}
		}

		if b := tx.Bucket([]byte(TableUpcoming)); b != nil {
			if err := b.ForEach(func(k, v []byte) error {
				var r upcomingRow
				if err := json.Unmarshal(v, &r); err != nil {
					return nil
				}
				check(TableUpcoming, string(k), r.Fighter1ID)
				check(TableUpcoming, string(k), r.Fighter2ID)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapIO("read", s.db.Path(), err)
	}

	logging.FromContext(ctx).Info().
		Int("checked", report.Checked).
		Int("orphans", len(report.Orphans)).
		Msg("integrity scan complete")

	return report, nil
}

// Counts returns the row count of every table. Used by the status command.
func (s *Store) Counts() (map[string]int, error) {
	out := make(map[string]int, len(tables()))
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, table := range tables() {
			if b := tx.Bucket([]byte(table)); b != nil {
				out[table] = b.Stats().KeyN
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapIO("read", s.db.Path(), err)
	}
	return out, nil
}
