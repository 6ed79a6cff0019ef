package ufc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fightdex/fightdex/internal/transport"
	"github.com/fightdex/fightdex/pkg/sources"
)

func TestRoster(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/athletes", r.URL.Path)
		w.Write([]byte(`{"athletes":[
			{"id":"u1","name":"Movsar Evloev","url":"/athlete/movsar-evloev","weight_class":"Featherweight","gender":"male"},
			{"id":"u2","name":"Merab Dvalishvili","url":"/athlete/merab-dvalishvili"}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, transport.NewClient("ufc", nil))
	records, err := c.Roster(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, sources.UFC, records[0].Source)
	assert.Equal(t, "u1", records[0].ExternalID)
	assert.Equal(t, "/athlete/movsar-evloev", records[0].Ref)
	assert.Equal(t, "Featherweight", records[0].Fields["weight_class"])
}

func TestDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/athlete/movsar-evloev", r.URL.Path)
		w.Write([]byte(`{"id":"u1","name":"Movsar Evloev","country":"Russia","height":66,"age":31}`))
	}))
	defer srv.Close()

	c := New(srv.URL, transport.NewClient("ufc", nil))
	rec, err := c.Details(context.Background(), sources.Record{
		Source:     sources.UFC,
		Name:       "Movsar Evloev",
		Ref:        srv.URL + "/athlete/movsar-evloev",
		ExternalID: "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", rec.ExternalID)
	assert.Equal(t, "Russia", rec.Fields["country"])
	assert.Equal(t, float64(66), rec.Fields["height"])
}

func TestRankings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rankings", r.URL.Path)
		w.Write([]byte(`{"divisions":[
			{"name":"Featherweight","entries":[
				{"rank":"C","name":"Ilia Topuria"},
				{"rank":"1","name":"Movsar Evloev","change":"UP 1"}
			]}
		]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, transport.NewClient("ufc", nil))
	rows, err := c.Rankings(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "C", rows[0].Rank)
	assert.Equal(t, "Featherweight", rows[1].Division)
	assert.Equal(t, "UP 1", rows[1].Change)
}
