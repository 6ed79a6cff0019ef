// Package store persists the canonical output of a run in a bbolt
// database. Each logical table lives in its own bucket and is replaced in
// full on load: the bucket is dropped and rebuilt from the new canonical
// set, with inserts committed in fixed-size batches so one bad row never
// rolls back more than its own batch. Tables load independently; a
// failure in one leaves the others' committed data intact.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/logging"
	"github.com/fightdex/fightdex/pkg/reconcile"
	"github.com/fightdex/fightdex/pkg/roster"
)

// Table names, one bucket each.
const (
	TableFighters = "fighters"
	TableHistory  = "fight_history"
	TableRankings = "rankings"
	TableUpcoming = "upcoming_fights"
)

// DefaultBatchSize is the number of rows committed per transaction.
const DefaultBatchSize = 500

func tables() []string {
	return []string{TableFighters, TableHistory, TableRankings, TableUpcoming}
}

// Store is a bbolt-backed loader for canonical run output.
type Store struct {
	db        *bolt.DB
	batchSize int
}

// Option configures a Store.
type Option func(*Store)

// WithBatchSize sets the rows-per-transaction batch size.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// Open opens or creates the database at path.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	s := &Store{db: db, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// historyRow is one persisted bout, denormalized with its owner's ID so
// the integrity pass can verify the reference without a join.
type historyRow struct {
	FighterID string `json:"fighter_id"`
	Opponent  string `json:"opponent"`
	Result    string `json:"result,omitempty"`
	Method    string `json:"method,omitempty"`
	Round     string `json:"round,omitempty"`
	Time      string `json:"time,omitempty"`
	Date      string `json:"date,omitempty"`
}

// rankingRow is one persisted ranking position. FighterID is empty for
// entries the matcher could not resolve; those are not orphans.
type rankingRow struct {
	Division  string `json:"division"`
	Rank      string `json:"rank"`
	Name      string `json:"name"`
	FighterID string `json:"fighter_id,omitempty"`
	Change    string `json:"change,omitempty"`
}

// upcomingRow is one persisted scheduled bout.
type upcomingRow struct {
	Event       string `json:"event"`
	EventType   string `json:"event_type,omitempty"`
	Date        string `json:"event_date,omitempty"`
	Venue       string `json:"venue,omitempty"`
	Location    string `json:"location,omitempty"`
	CardSection string `json:"card_section,omitempty"`
	BoutOrder   int    `json:"bout_order,omitempty"`
	WeightClass string `json:"weight_class,omitempty"`
	Fighter1    string `json:"fighter1"`
	Fighter1ID  string `json:"fighter1_id,omitempty"`
	Fighter2    string `json:"fighter2"`
	Fighter2ID  string `json:"fighter2_id,omitempty"`
}

// row is one encoded key/value pair ready for insertion.
type row struct {
	key   []byte
	value []byte
}

// Stats summarizes one load.
type Stats struct {
	Rows     map[string]int `json:"rows"`
	Batches  map[string]int `json:"batches"`
	Duration time.Duration  `json:"duration"`
}

// Load replaces every table with the canonical result. Tables load
// independently: a failure in one is reported but does not stop the
// others, and the error returned joins all per-table failures.
func (s *Store) Load(ctx context.Context, res *reconcile.Result) (*Stats, error) {
	start := time.Now()
	stats := &Stats{
		Rows:    make(map[string]int),
		Batches: make(map[string]int),
	}

	plan := map[string][]row{
		TableFighters: encodeFighters(res.Roster.Fighters()),
		TableHistory:  encodeHistory(res.Roster.Fighters()),
		TableRankings: encodeRankings(res.Rankings),
		TableUpcoming: encodeUpcoming(res.Matchups),
	}

	var errs []error
	for _, table := range tables() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		batches, err := s.replaceTable(table, plan[table])
		stats.Batches[table] = batches
		if err != nil {
			errs = append(errs, err)
			continue
		}
		stats.Rows[table] = len(plan[table])
	}
	stats.Duration = time.Since(start)

	logging.FromContext(ctx).Info().
		Int("fighters", stats.Rows[TableFighters]).
		Int("bouts", stats.Rows[TableHistory]).
		Int("rankings", stats.Rows[TableRankings]).
		Int("upcoming", stats.Rows[TableUpcoming]).
		Dur("elapsed", stats.Duration).
		Msg("load complete")

	return stats, errors.Join(errs...)
}

// replaceTable drops and rebuilds one bucket, committing rows in batches.
// Returns the number of batches committed.
func (s *Store) replaceTable(table string, rows []row) (int, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(table)) != nil {
			if err := tx.DeleteBucket([]byte(table)); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket([]byte(table))
		return err
	})
	if err != nil {
		return 0, errors.WrapLoad(table, 0, err)
	}

	batches := 0
	for offset := 0; offset < len(rows); offset += s.batchSize {
		end := offset + s.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[offset:end]
		batches++

		err := s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(table))
			for _, r := range batch {
				if err := b.Put(r.key, r.value); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return batches, errors.WrapLoad(table, batches, err)
		}
	}
	return batches, nil
}

func encodeFighters(fighters []*roster.Fighter) []row {
	rows := make([]row, 0, len(fighters))
	for _, f := range fighters {
		// History is persisted in its own table.
		flat := *f
		flat.History = nil
		value, err := json.Marshal(&flat)
		if err != nil {
			continue
		}
		rows = append(rows, row{key: []byte(f.ID), value: value})
	}
	return rows
}

func encodeHistory(fighters []*roster.Fighter) []row {
	var rows []row
	for _, f := range fighters {
		for i, bout := range f.History {
			value, err := json.Marshal(historyRow{
				FighterID: string(f.ID),
				Opponent:  bout.Opponent,
				Result:    bout.Result,
				Method:    bout.Method,
				Round:     bout.Round,
				Time:      bout.Time,
				Date:      bout.Date,
			})
			if err != nil {
				continue
			}
			rows = append(rows, row{
				key:   []byte(fmt.Sprintf("%s/%04d", f.ID, i)),
				value: value,
			})
		}
	}
	return rows
}

func encodeRankings(rankings []roster.RankingEntry) []row {
	rows := make([]row, 0, len(rankings))
	for i, entry := range rankings {
		r := rankingRow{
			Division: entry.Division,
			Rank:     entry.Rank,
			Name:     entry.Name,
			Change:   entry.Change,
		}
		if entry.FighterID != nil {
			r.FighterID = entry.FighterID.String()
		}
		value, err := json.Marshal(r)
		if err != nil {
			continue
		}
		rows = append(rows, row{
			key:   []byte(fmt.Sprintf("%s/%04d", entry.Division, i)),
			value: value,
		})
	}
	return rows
}

func encodeUpcoming(matchups []roster.Matchup) []row {
	rows := make([]row, 0, len(matchups))
	for i, mu := range matchups {
		r := upcomingRow{
			Event:       mu.Event,
			EventType:   mu.EventType,
			Date:        mu.Date,
			Venue:       mu.Venue,
			Location:    mu.Location,
			CardSection: mu.CardSection,
			BoutOrder:   mu.BoutOrder,
			WeightClass: mu.WeightClass,
			Fighter1:    mu.Red.Name,
			Fighter2:    mu.Blue.Name,
		}
		if mu.Red.FighterID != nil {
			r.Fighter1ID = mu.Red.FighterID.String()
		}
		if mu.Blue.FighterID != nil {
			r.Fighter2ID = mu.Blue.FighterID.String()
		}
		value, err := json.Marshal(r)
		if err != nil {
			continue
		}
		rows = append(rows, row{
			key:   []byte(fmt.Sprintf("%s/%04d", mu.Event, i)),
			value: value,
		})
	}
	return rows
}
