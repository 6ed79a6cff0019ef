// Package ufc implements the primary roster source. It speaks to the
// athlete listing, athlete detail, and rankings endpoints and yields raw
// records; all field naming and cleaning beyond JSON decoding belongs to
// the reconciler.
package ufc

import (
	"context"
	"fmt"

	"github.com/fightdex/fightdex/internal/transport"
	"github.com/fightdex/fightdex/pkg/sources"
)

// Client fetches from the primary source.
type Client struct {
	http *transport.Client
	base string
}

// New creates a UFC client on the shared transport.
func New(base string, http *transport.Client) *Client {
	return &Client{http: http, base: base}
}

// ID returns the source identifier.
func (c *Client) ID() sources.ID {
	return sources.UFC
}

// athlete is the listing payload for one fighter.
type athlete struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Nickname    string `json:"nickname"`
	WeightClass string `json:"weight_class"`
	Gender      string `json:"gender"`
}

// athleteDetail is the detail-page payload.
type athleteDetail struct {
	athlete
	Height  any    `json:"height"`
	Weight  any    `json:"weight"`
	Reach   any    `json:"reach"`
	Age     any    `json:"age"`
	Country string `json:"country"`
}

// Roster lists every athlete the source knows about.
func (c *Client) Roster(ctx context.Context) ([]sources.Record, error) {
	var payload struct {
		Athletes []athlete `json:"athletes"`
	}
	if err := c.http.GetJSON(ctx, c.base+"/athletes", &payload); err != nil {
		return nil, err
	}

	records := make([]sources.Record, 0, len(payload.Athletes))
	for _, a := range payload.Athletes {
		records = append(records, sources.Record{
			Source:     sources.UFC,
			Name:       a.Name,
			Ref:        a.URL,
			ExternalID: a.ID,
			Fields: map[string]any{
				"nickname":     a.Nickname,
				"weight_class": a.WeightClass,
				"gender":       a.Gender,
			},
		})
	}
	return records, nil
}

// Details enriches one roster record from its detail endpoint.
func (c *Client) Details(ctx context.Context, rec sources.Record) (sources.Record, error) {
	url := rec.Ref
	if url == "" {
		url = fmt.Sprintf("%s/athlete/%s", c.base, rec.ExternalID)
	}

	var d athleteDetail
	if err := c.http.GetJSON(ctx, url, &d); err != nil {
		return sources.Record{}, err
	}

	out := sources.Record{
		Source:     sources.UFC,
		Name:       rec.Name,
		Ref:        rec.Ref,
		ExternalID: rec.ExternalID,
		Fields: map[string]any{
			"nickname":     d.Nickname,
			"weight_class": d.WeightClass,
			"gender":       d.Gender,
			"country":      d.Country,
			"height":       d.Height,
			"weight":       d.Weight,
			"reach":        d.Reach,
			"age":          d.Age,
		},
	}
	if d.Name != "" {
		out.Name = d.Name
	}
	return out, nil
}

// Rankings fetches the current official rankings.
func (c *Client) Rankings(ctx context.Context) ([]sources.RankingRow, error) {
	var payload struct {
		Divisions []struct {
			Name    string `json:"name"`
			Entries []struct {
				Rank   string `json:"rank"`
				Name   string `json:"name"`
				Change string `json:"change"`
			} `json:"entries"`
		} `json:"divisions"`
	}
	if err := c.http.GetJSON(ctx, c.base+"/rankings", &payload); err != nil {
		return nil, err
	}

	var rows []sources.RankingRow
	for _, div := range payload.Divisions {
		for _, e := range div.Entries {
			rows = append(rows, sources.RankingRow{
				Division: div.Name,
				Rank:     e.Rank,
				Name:     e.Name,
				Change:   e.Change,
			})
		}
	}
	return rows, nil
}
