package fightdex_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fightdex/fightdex"
	"github.com/fightdex/fightdex/internal/config"
	"github.com/fightdex/fightdex/internal/sources/local"
	"github.com/fightdex/fightdex/pkg/pipeline"
	"github.com/fightdex/fightdex/pkg/sources"
)

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"roster.json": `[
			{"name": "Movsar Evloev", "external_id": "u1", "ref": "/athlete/movsar-evloev"},
			{"name": "Merab Dvalishvili", "external_id": "u2", "ref": "/athlete/merab-dvalishvili"}
		]`,
		"details.json": `{
			"u1": {"name": "Movsar Evloev", "external_id": "u1", "fields": {"country": "Russia", "weight_class": "Featherweight"}},
			"u2": {"name": "Merab Dvalishvili", "external_id": "u2", "fields": {"country": "Georgia", "weight_class": "Bantamweight"}}
		}`,
		"secondary.json": `{
			"MOVSAR EVLOEV": {"name": "Movsar Evloev", "fields": {"wins_total": 19}, "history": [
				{"opponent": "Aljamain Sterling", "result": "win", "method": "Decision", "date": "2024-12-07"}
			]},
			"MERAB DVALISHVILI": {"name": "Merab Dvalishvili", "fields": {"wins_total": 20}}
		}`,
		"rankings.json": `[
			{"division": "Bantamweight", "rank": "C", "name": "Merab Dvalishvili"},
			{"division": "Featherweight", "rank": "1", "name": "Movsar Evloev"}
		]`,
		"matchups.json": `[
			{"event": "UFC 320", "fighter1": "Movsar Evloev", "fighter2": "Merab Dvalishvili", "card_section": "Main Card", "bout_order": 1}
		]`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	work := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(work, "data")
	cfg.Paths.LedgerDir = filepath.Join(work, "errors")
	cfg.Paths.Database = filepath.Join(work, "fightdex.db")
	cfg.Paths.Overrides = filepath.Join(work, "overrides.yaml")
	return cfg
}

func newFixtureClient(t *testing.T) *fightdex.Client {
	t.Helper()
	fixtures := writeFixtures(t)
	ufcFixture := local.New(fixtures, sources.UFC)

	c, err := fightdex.New(
		fightdex.WithConfig(testConfig(t)),
		fightdex.WithPrimarySource(ufcFixture),
		fightdex.WithDetailSource(ufcFixture),
		fightdex.WithRankingSource(ufcFixture),
		fightdex.WithSecondarySource(local.New(fixtures, sources.Sherdog)),
		fightdex.WithMatchupSource(local.New(fixtures, sources.Tapology)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNewSurfacesDatabaseOpenFailure(t *testing.T) {
	cfg := testConfig(t)
	// A directory squatting on the database path makes the open fail; the
	// error must still reach the caller after the ledger flush.
	require.NoError(t, os.MkdirAll(cfg.Paths.Database, 0o755))

	_, err := fightdex.New(fightdex.WithConfig(cfg))
	require.Error(t, err)
}

func TestFullRunFromFixtures(t *testing.T) {
	c := newFixtureClient(t)

	summary, err := c.Run(context.Background(), pipeline.Command{Mode: pipeline.ModeFull})
	require.NoError(t, err)
	require.True(t, summary.OK(), summary.Render())

	assert.Equal(t, 2, summary.Fighters)
	assert.Equal(t, 1, summary.Bouts)
	assert.Equal(t, 0, summary.Conflicts)
	assert.Equal(t, 0, summary.Unmatched)
	assert.Equal(t, 0, summary.Orphans)
}

func TestStatusAfterRun(t *testing.T) {
	c := newFixtureClient(t)

	_, err := c.Run(context.Background(), pipeline.Command{Mode: pipeline.ModeFull})
	require.NoError(t, err)

	status, err := c.Status(context.Background())
	require.NoError(t, err)

	assert.Len(t, status.Snapshots, 5)
	assert.Empty(t, status.Ledger)
	assert.Equal(t, 2, status.Tables["fighters"])
	assert.Equal(t, 1, status.Tables["fight_history"])
	assert.Equal(t, 2, status.Tables["rankings"])
	assert.Equal(t, 1, status.Tables["upcoming_fights"])
}

func TestRunTwiceIsIdempotent(t *testing.T) {
	c := newFixtureClient(t)

	first, err := c.Run(context.Background(), pipeline.Command{Mode: pipeline.ModeFull})
	require.NoError(t, err)
	second, err := c.Run(context.Background(), pipeline.Command{Mode: pipeline.ModeFull})
	require.NoError(t, err)

	assert.Equal(t, first.Fighters, second.Fighters)
	assert.Equal(t, first.Bouts, second.Bouts)

	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, status.Tables["fighters"])
}
