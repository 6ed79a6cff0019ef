package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fightdex/fightdex/pkg/match"
	"github.com/fightdex/fightdex/pkg/overrides"
)

func buildIndex(pairs ...[2]string) *match.Index {
	ix := match.NewIndex()
	for _, p := range pairs {
		ix.Add(p[0], p[1])
	}
	return ix
}

func TestMatchExact(t *testing.T) {
	ix := buildIndex([2]string{"MOVSAR EVLOEV", "u1"})
	m := match.New(ix)

	res := m.Match("Movsar Evloev")
	assert.Equal(t, match.Exact, res.Kind)
	assert.Equal(t, "u1", res.ID)
	assert.Equal(t, 1.0, res.Score)
}

func TestMatchOverride(t *testing.T) {
	ix := buildIndex([2]string{"ALEXANDRE PANTOJA", "u2"})

	tbl := overrides.New()
	tbl.Set("Alexander Pantoja", overrides.Correction{Name: "Alexandre Pantoja"})

	m := match.New(ix, match.WithOverrides(tbl))

	res := m.Match("Alexander Pantoja")
	assert.Equal(t, match.Override, res.Kind)
	assert.Equal(t, "u2", res.ID)
}

func TestOverrideOutranksFuzzy(t *testing.T) {
	// Both a fuzzy candidate and an override correction exist; the
	// override must win regardless of computed similarity.
	ix := buildIndex(
		[2]string{"JOHN SMITH JOHNSON", "fuzzy-id"},
		[2]string{"JONATHAN SMITH", "override-id"},
	)

	tbl := overrides.New()
	tbl.Set("John Smith", overrides.Correction{Name: "Jonathan Smith"})

	m := match.New(ix, match.WithOverrides(tbl))

	res := m.Match("John Smith")
	assert.Equal(t, match.Override, res.Kind)
	assert.Equal(t, "override-id", res.ID)
}

func TestMatchFuzzyContainment(t *testing.T) {
	ix := buildIndex([2]string{"MOVSAR EVLOEV", "u1"})
	m := match.New(ix)

	// "EVLOEV" (6) contained in "MOVSAR EVLOEV" (13): 6/13 is about 0.46,
	// below the threshold, so no match.
	res := m.Match("Evloev")
	assert.Equal(t, match.NoMatch, res.Kind)
	assert.InDelta(t, 6.0/13.0, res.Score, 1e-9)

	// "MOVSAR EVLOEV" contains "MOVSAR EVLO" (11): 11/13 is about 0.85,
	// comfortably above the threshold.
	res = m.Match("Movsar Evlo")
	assert.Equal(t, match.Fuzzy, res.Kind)
	assert.Equal(t, "u1", res.ID)
	assert.InDelta(t, 11.0/13.0, res.Score, 1e-9)
}

func TestMatchThresholdBoundary(t *testing.T) {
	// Candidate of length 10, query of length 7: score exactly 0.70.
	ix := buildIndex([2]string{"ABCDEFGHIJ", "u1"})

	// Exactly at the threshold: accepted.
	m := match.New(ix, match.WithThreshold(0.70))
	res := m.Match("abcdefg")
	require.Equal(t, match.Fuzzy, res.Kind)
	assert.InDelta(t, 0.70, res.Score, 1e-9)

	// Infinitesimally above the same score: rejected.
	strict := match.New(ix, match.WithThreshold(0.70+1e-9))
	res = strict.Match("abcdefg")
	assert.Equal(t, match.NoMatch, res.Kind)
	assert.InDelta(t, 0.70, res.Score, 1e-9)

	// Next-shorter query lands below the default threshold: rejected.
	res = m.Match("abcdef")
	assert.Equal(t, match.NoMatch, res.Kind)
	assert.InDelta(t, 0.60, res.Score, 1e-9)
}

func TestMatchBestScoreWinsTiesFirstSeen(t *testing.T) {
	// Two candidates contain the query; the higher score wins.
	ix := buildIndex(
		[2]string{"JONES SMITH EXTRA", "long"},
		[2]string{"JONES SMITH", "short"},
	)
	m := match.New(ix)

	res := m.Match("Jones Smith")
	require.Equal(t, match.Exact, res.Kind) // exact key present
	assert.Equal(t, "short", res.ID)

	// Equal-score candidates: first-seen order breaks the tie.
	tie := buildIndex(
		[2]string{"AAAA BBBB CC", "first"},
		[2]string{"CC AAAA BBBB", "second"},
	)
	mt := match.New(tie, match.WithThreshold(0.5))
	res = mt.Match("AAAA BBBB")
	require.Equal(t, match.Fuzzy, res.Kind)
	assert.Equal(t, "first", res.ID)
}

func TestMatchNoMatchReasons(t *testing.T) {
	ix := buildIndex([2]string{"MOVSAR EVLOEV", "u1"})
	m := match.New(ix)

	res := m.Match("")
	assert.Equal(t, match.NoMatch, res.Kind)
	assert.Contains(t, res.Reason, "empty")

	res = m.Match("Completely Different")
	assert.Equal(t, match.NoMatch, res.Kind)
	assert.Contains(t, res.Reason, "no candidate")

	// Abbreviated listings fail containment against the full name and
	// land in the ledger rather than merging.
	res = m.Match("M. Evloev")
	assert.Equal(t, match.NoMatch, res.Kind)
}

func TestIndexFirstBindingWins(t *testing.T) {
	ix := match.NewIndex()
	ix.Add("MOVSAR EVLOEV", "u1")
	ix.Add("MOVSAR EVLOEV", "u2")

	id, ok := ix.Get("MOVSAR EVLOEV")
	require.True(t, ok)
	assert.Equal(t, "u1", id)
	assert.Equal(t, 1, ix.Len())
}
