// Package sherdog implements the secondary record-keeping source. A
// lookup is a two-step fetch: search the name to find the fighter page,
// then fetch the page for career counters and bout history. Search
// results are memoized for the run so a retry pass does not re-spend
// rate-limit budget on names already resolved.
package sherdog

import (
	"context"
	"net/url"
	"time"

	"github.com/fightdex/fightdex/internal/cache"
	"github.com/fightdex/fightdex/internal/transport"
	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/identity"
	"github.com/fightdex/fightdex/pkg/sources"
)

const searchTTL = 12 * time.Hour

// Client fetches from the secondary source.
type Client struct {
	http  *transport.Client
	base  string
	cache *cache.Cache
}

// New creates a Sherdog client on the shared transport. A nil cache
// disables search memoization.
func New(base string, http *transport.Client, c *cache.Cache) *Client {
	return &Client{http: http, base: base, cache: c}
}

// ID returns the source identifier.
func (c *Client) ID() sources.ID {
	return sources.Sherdog
}

// fighterPage is the fighter endpoint payload.
type fighterPage struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	ID      string `json:"id"`
	Country string `json:"country"`
	Age     any    `json:"age"`
	Record  struct {
		WinsTotal   any `json:"wins_total"`
		WinsKO      any `json:"wins_ko"`
		WinsSub     any `json:"wins_sub"`
		WinsDec     any `json:"wins_dec"`
		LossesTotal any `json:"losses_total"`
		LossesKO    any `json:"losses_ko"`
		LossesSub   any `json:"losses_sub"`
		LossesDec   any `json:"losses_dec"`
	} `json:"record"`
	History []struct {
		Opponent string `json:"opponent"`
		Result   string `json:"result"`
		Method   string `json:"method"`
		Round    string `json:"round"`
		Time     string `json:"time"`
		Date     string `json:"date"`
	} `json:"history"`
}

// Lookup resolves a display name and fetches its record. A non-empty ref
// skips the search step entirely; the override table supplies refs this
// way for names search cannot find.
func (c *Client) Lookup(ctx context.Context, name, ref string) (sources.Record, error) {
	if ref == "" {
		found, err := c.search(ctx, name)
		if err != nil {
			return sources.Record{}, err
		}
		ref = found
	}

	var page fighterPage
	if err := c.http.GetJSON(ctx, c.base+ref, &page); err != nil {
		return sources.Record{}, err
	}

	rec := sources.Record{
		Source:     sources.Sherdog,
		Name:       page.Name,
		Ref:        ref,
		ExternalID: page.ID,
		Fields: map[string]any{
			"country":      page.Country,
			"age":          page.Age,
			"wins_total":   page.Record.WinsTotal,
			"wins_ko":      page.Record.WinsKO,
			"wins_sub":     page.Record.WinsSub,
			"wins_dec":     page.Record.WinsDec,
			"losses_total": page.Record.LossesTotal,
			"losses_ko":    page.Record.LossesKO,
			"losses_sub":   page.Record.LossesSub,
			"losses_dec":   page.Record.LossesDec,
		},
	}
	if rec.Name == "" {
		rec.Name = name
	}
	for _, h := range page.History {
		rec.History = append(rec.History, sources.FightRow{
			Opponent: h.Opponent,
			Result:   h.Result,
			Method:   h.Method,
			Round:    h.Round,
			Time:     h.Time,
			Date:     h.Date,
		})
	}
	return rec, nil
}

// search finds the fighter page ref for a display name. The first search
// hit wins; the matcher downstream decides whether the returned record
// actually belongs to the name.
func (c *Client) search(ctx context.Context, name string) (string, error) {
	key := "search:" + identity.Normalize(name)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return v.(string), nil
		}
	}

	var payload struct {
		Results []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"results"`
	}
	searchURL := c.base + "/search?q=" + url.QueryEscape(name)
	if err := c.http.GetJSON(ctx, searchURL, &payload); err != nil {
		return "", err
	}
	if len(payload.Results) == 0 {
		return "", &errors.MatchError{Subject: name, Reason: "no search results"}
	}

	ref := payload.Results[0].URL
	if c.cache != nil {
		c.cache.SetWithTTL(key, ref, searchTTL)
	}
	return ref, nil
}
