// Package tapology implements the scheduled-matchup source.
package tapology

import (
	"context"

	"github.com/fightdex/fightdex/internal/transport"
	"github.com/fightdex/fightdex/pkg/sources"
)

// Client fetches from the matchup source.
type Client struct {
	http *transport.Client
	base string
}

// New creates a Tapology client on the shared transport.
func New(base string, http *transport.Client) *Client {
	return &Client{http: http, base: base}
}

// ID returns the source identifier.
func (c *Client) ID() sources.ID {
	return sources.Tapology
}

// Matchups fetches every announced bout on upcoming cards, in card order.
func (c *Client) Matchups(ctx context.Context) ([]sources.MatchupRow, error) {
	var payload struct {
		Events []struct {
			Name      string `json:"name"`
			EventType string `json:"event_type"`
			Date      string `json:"date"`
			Venue     string `json:"venue"`
			Location  string `json:"location"`
			Bouts     []struct {
				Fighter1    string `json:"fighter1"`
				Fighter2    string `json:"fighter2"`
				CardSection string `json:"card_section"`
				BoutOrder   int    `json:"bout_order"`
				WeightClass string `json:"weight_class"`
			} `json:"bouts"`
		} `json:"events"`
	}
	if err := c.http.GetJSON(ctx, c.base+"/events", &payload); err != nil {
		return nil, err
	}

	var rows []sources.MatchupRow
	for _, event := range payload.Events {
		for _, bout := range event.Bouts {
			rows = append(rows, sources.MatchupRow{
				Event:       event.Name,
				EventType:   event.EventType,
				Date:        event.Date,
				Venue:       event.Venue,
				Location:    event.Location,
				Fighter1:    bout.Fighter1,
				Fighter2:    bout.Fighter2,
				CardSection: bout.CardSection,
				BoutOrder:   bout.BoutOrder,
				WeightClass: bout.WeightClass,
			})
		}
	}
	return rows, nil
}
