package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fightdex/fightdex/pkg/reconcile"
	"github.com/fightdex/fightdex/pkg/roster"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "fightdex.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testResult(t *testing.T) *reconcile.Result {
	t.Helper()
	country := "Russia"
	res := &reconcile.Result{Roster: roster.New()}
	require.NoError(t, res.Roster.Add(&roster.Fighter{
		ID:      "u1",
		Name:    "Movsar Evloev",
		Country: &country,
		History: []roster.Bout{
			{Opponent: "Aljamain Sterling", Result: "win", Method: "Decision"},
			{Opponent: "Arnold Allen", Result: "win", Method: "Decision"},
		},
	}))
	require.NoError(t, res.Roster.Add(&roster.Fighter{ID: "u2", Name: "Ilia Topuria"}))

	u2 := roster.FighterID("u2")
	res.Rankings = []roster.RankingEntry{
		{Division: "Featherweight", Rank: roster.ChampionRank, Name: "Ilia Topuria", FighterID: &u2},
		{Division: "Featherweight", Rank: "2", Name: "Nobody Known"},
	}

	u1 := roster.FighterID("u1")
	res.Matchups = []roster.Matchup{
		{
			Event:       "UFC 320",
			CardSection: "Main Card",
			BoutOrder:   1,
			Red:         roster.Slot{Name: "Movsar Evloev", FighterID: &u1},
			Blue:        roster.Slot{Name: "Unknown Debutant"},
		},
	}
	return res
}

func TestLoadAndCounts(t *testing.T) {
	s := openTestStore(t)
	stats, err := s.Load(context.Background(), testResult(t))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Rows[TableFighters])
	assert.Equal(t, 2, stats.Rows[TableHistory])
	assert.Equal(t, 2, stats.Rows[TableRankings])
	assert.Equal(t, 1, stats.Rows[TableUpcoming])

	counts, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		TableFighters: 2,
		TableHistory:  2,
		TableRankings: 2,
		TableUpcoming: 1,
	}, counts)
}

func TestLoadReplacesInFull(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load(context.Background(), testResult(t))
	require.NoError(t, err)

	// A smaller second run must fully supersede the first.
	res := &reconcile.Result{Roster: roster.New()}
	require.NoError(t, res.Roster.Add(&roster.Fighter{ID: "u9", Name: "Merab Dvalishvili"}))
	_, err = s.Load(context.Background(), res)
	require.NoError(t, err)

	counts, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[TableFighters])
	assert.Equal(t, 0, counts[TableHistory])
	assert.Equal(t, 0, counts[TableRankings])
	assert.Equal(t, 0, counts[TableUpcoming])
}

func TestLoadBatching(t *testing.T) {
	s := openTestStore(t, WithBatchSize(10))

	res := &reconcile.Result{Roster: roster.New()}
	for i := 0; i < 25; i++ {
		require.NoError(t, res.Roster.Add(&roster.Fighter{
			ID:   roster.FighterID(string(rune('a' + i/26))) + roster.FighterID(string(rune('a'+i%26))),
			Name: "Fighter " + string(rune('A'+i)),
		}))
	}
	stats, err := s.Load(context.Background(), res)
	require.NoError(t, err)

	assert.Equal(t, 25, stats.Rows[TableFighters])
	assert.Equal(t, 3, stats.Batches[TableFighters])
}

func TestIntegrityClean(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load(context.Background(), testResult(t))
	require.NoError(t, err)

	report, err := s.Integrity(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK())
	// Two history rows, one resolved ranking, one resolved slot.
	assert.Equal(t, 4, report.Checked)
}

func TestIntegrityDetectsOrphans(t *testing.T) {
	s := openTestStore(t)
	res := testResult(t)

	// Dangling reference: a ranking pointing at a fighter the roster
	// does not contain.
	ghost := roster.FighterID("ghost")
	res.Rankings = append(res.Rankings, roster.RankingEntry{
		Division: "Flyweight", Rank: "1", Name: "Ghost Fighter", FighterID: &ghost,
	})
	_, err := s.Load(context.Background(), res)
	require.NoError(t, err)

	report, err := s.Integrity(context.Background())
	require.NoError(t, err)
	require.False(t, report.OK())
	require.Len(t, report.Orphans, 1)
	assert.Equal(t, TableRankings, report.Orphans[0].Table)
	assert.Equal(t, "ghost", report.Orphans[0].FighterID)
}

func TestIntegrityIgnoresUnresolvedReferences(t *testing.T) {
	s := openTestStore(t)
	res := &reconcile.Result{Roster: roster.New()}
	res.Rankings = []roster.RankingEntry{
		{Division: "Featherweight", Rank: "1", Name: "Nobody Known"},
	}
	res.Matchups = []roster.Matchup{
		{Event: "UFC 320", Red: roster.Slot{Name: "A"}, Blue: roster.Slot{Name: "B"}},
	}
	_, err := s.Load(context.Background(), res)
	require.NoError(t, err)

	report, err := s.Integrity(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 0, report.Checked)
}
