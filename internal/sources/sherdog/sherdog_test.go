package sherdog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fightdex/fightdex/internal/cache"
	"github.com/fightdex/fightdex/internal/transport"
	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/sources"
)

func testServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	searches := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		searches++
		if r.URL.Query().Get("q") == "Nobody Known" {
			w.Write([]byte(`{"results":[]}`))
			return
		}
		w.Write([]byte(`{"results":[{"name":"Movsar Evloev","url":"/fighter/Movsar-Evloev-12345"}]}`))
	})
	mux.HandleFunc("/fighter/Movsar-Evloev-12345", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"name": "Movsar Evloev",
			"id": "12345",
			"country": "Russia",
			"record": {"wins_total": 19, "wins_dec": 12},
			"history": [{"opponent": "Aljamain Sterling", "result": "win", "method": "Decision", "date": "2024-12-07"}]
		}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &searches
}

func TestLookup(t *testing.T) {
	srv, _ := testServer(t)
	c := New(srv.URL, transport.NewClient("sherdog", nil), nil)

	rec, err := c.Lookup(context.Background(), "Movsar Evloev", "")
	require.NoError(t, err)

	assert.Equal(t, sources.Sherdog, rec.Source)
	assert.Equal(t, "Movsar Evloev", rec.Name)
	assert.Equal(t, "/fighter/Movsar-Evloev-12345", rec.Ref)
	assert.Equal(t, "12345", rec.ExternalID)
	assert.Equal(t, "Russia", rec.Fields["country"])
	require.Len(t, rec.History, 1)
	assert.Equal(t, "Aljamain Sterling", rec.History[0].Opponent)
}

func TestLookupWithRefSkipsSearch(t *testing.T) {
	srv, searches := testServer(t)
	c := New(srv.URL, transport.NewClient("sherdog", nil), nil)

	_, err := c.Lookup(context.Background(), "Movsar Evloev", "/fighter/Movsar-Evloev-12345")
	require.NoError(t, err)
	assert.Equal(t, 0, *searches)
}

func TestLookupMemoizesSearch(t *testing.T) {
	srv, searches := testServer(t)
	c := New(srv.URL, transport.NewClient("sherdog", nil), cache.New(time.Minute, time.Minute))

	for i := 0; i < 3; i++ {
		_, err := c.Lookup(context.Background(), "Movsar Evloev", "")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, *searches)
}

func TestLookupNoResults(t *testing.T) {
	srv, _ := testServer(t)
	c := New(srv.URL, transport.NewClient("sherdog", nil), nil)

	_, err := c.Lookup(context.Background(), "Nobody Known", "")
	require.Error(t, err)
	assert.True(t, errors.IsNoMatch(err))
}
