package ledger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fightdex/fightdex/pkg/ledger"
)

func TestOpenEmptyDir(t *testing.T) {
	l, err := ledger.Open(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, l.Counts())
	assert.Equal(t, 0, l.Size("fetch-details"))
}

func TestOpenCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "errors")
	_, err := ledger.Open(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestAddAndRemove(t *testing.T) {
	l, err := ledger.Open(t.TempDir())
	require.NoError(t, err)

	l.Add("fetch-details", ledger.Record{Subject: "Movsar Evloev", Reason: "status 500"})
	l.Add("fetch-details", ledger.Record{Subject: "Merab Dvalishvili", Reason: "timeout"})
	assert.Equal(t, 2, l.Size("fetch-details"))

	assert.True(t, l.Remove("fetch-details", "Movsar Evloev"))
	assert.False(t, l.Remove("fetch-details", "Movsar Evloev"))
	assert.Equal(t, 1, l.Size("fetch-details"))
}

func TestAddBumpsAttempts(t *testing.T) {
	l, err := ledger.Open(t.TempDir())
	require.NoError(t, err)

	l.Add("secondary-match", ledger.Record{Subject: "M. EVLOEV", Reason: "best score 0.46 below threshold 0.70"})
	l.Add("secondary-match", ledger.Record{Subject: "M. EVLOEV", Reason: "best score 0.46 below threshold 0.70"})
	l.Add("secondary-match", ledger.Record{Subject: "M. EVLOEV", Reason: "no candidate contains the name"})

	records := l.Records("secondary-match")
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].Attempts)
	assert.Equal(t, "no candidate contains the name", records[0].Reason)
	assert.False(t, records[0].LastAttempt.IsZero())
}

func TestFlushRoundTrip(t *testing.T) {
	dir := t.TempDir()

	l, err := ledger.Open(dir)
	require.NoError(t, err)
	l.Add("fetch-details", ledger.Record{Subject: "Movsar Evloev", Ref: "/athlete/movsar-evloev", Reason: "status 500"})
	l.Add("matchup-match", ledger.Record{Subject: "Unknown Debutant", Source: "tapology", Reason: "no candidate contains the name"})
	require.NoError(t, l.Flush())

	reopened, err := ledger.Open(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"fetch-details": 1, "matchup-match": 1}, reopened.Counts())

	records := reopened.Records("fetch-details")
	require.Len(t, records, 1)
	assert.Equal(t, "Movsar Evloev", records[0].Subject)
	assert.Equal(t, "/athlete/movsar-evloev", records[0].Ref)
	assert.Equal(t, 1, records[0].Attempts)
}

func TestFlushRemovesEmptyQueueFile(t *testing.T) {
	dir := t.TempDir()

	l, err := ledger.Open(dir)
	require.NoError(t, err)
	l.Add("fetch-details", ledger.Record{Subject: "Movsar Evloev", Reason: "status 500"})
	require.NoError(t, l.Flush())

	path := filepath.Join(dir, "fetch-details.json")
	_, err = os.Stat(path)
	require.NoError(t, err)

	l.Clear("fetch-details")
	require.NoError(t, l.Flush())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestReplace(t *testing.T) {
	l, err := ledger.Open(t.TempDir())
	require.NoError(t, err)

	l.Add("ranking-match", ledger.Record{Subject: "Nobody Known", Reason: "no candidate contains the name"})
	l.Add("ranking-match", ledger.Record{Subject: "Someone Missing", Reason: "no candidate contains the name"})

	l.Replace("ranking-match", []ledger.Record{
		{Subject: "Someone Missing", Reason: "still unresolved", Attempts: 2},
	})
	records := l.Records("ranking-match")
	require.Len(t, records, 1)
	assert.Equal(t, "Someone Missing", records[0].Subject)
}

func TestClearAll(t *testing.T) {
	dir := t.TempDir()
	l, err := ledger.Open(dir)
	require.NoError(t, err)

	l.Add("fetch-details", ledger.Record{Subject: "a", Reason: "x"})
	l.Add("secondary-match", ledger.Record{Subject: "b", Reason: "y"})
	require.NoError(t, l.Flush())

	l.ClearAll()
	require.NoError(t, l.Flush())

	reopened, err := ledger.Open(dir)
	require.NoError(t, err)
	assert.Empty(t, reopened.Counts())
}

func TestOpenRejectsCorruptQueue(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fetch-details.json"), []byte("{not json"), 0o644))

	_, err := ledger.Open(dir)
	assert.Error(t, err)
}
