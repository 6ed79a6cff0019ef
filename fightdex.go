// Package fightdex aggregates combat-sports athlete data from multiple
// public sources into one canonical, queryable set. It wires the staged
// pipeline together: rate-limited fetches, cross-source identity
// reconciliation, the persisted failure ledger, and the replace-in-full
// database loader.
package fightdex

import (
	"context"
	"time"

	"github.com/fightdex/fightdex/internal/cache"
	"github.com/fightdex/fightdex/internal/config"
	"github.com/fightdex/fightdex/internal/sources/sherdog"
	"github.com/fightdex/fightdex/internal/sources/tapology"
	"github.com/fightdex/fightdex/internal/sources/ufc"
	"github.com/fightdex/fightdex/internal/store"
	"github.com/fightdex/fightdex/internal/transport"
	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/ledger"
	"github.com/fightdex/fightdex/pkg/overrides"
	"github.com/fightdex/fightdex/pkg/pipeline"
	"github.com/fightdex/fightdex/pkg/reconcile"
)

const searchCacheTTL = 12 * time.Hour

// Client is the top-level entry point. One Client owns one data
// directory, one ledger, and one database.
type Client struct {
	cfg    *config.Config
	ledger *ledger.Ledger
	store  *store.Store
	orch   *pipeline.Orchestrator
}

// New creates a Client with options.
func New(opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cfg := o.cfg
	if cfg == nil {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	table, err := overrides.Load(cfg.Paths.Overrides)
	if err != nil {
		return nil, err
	}

	led, err := ledger.Open(cfg.Paths.LedgerDir)
	if err != nil {
		return nil, err
	}

	c := &Client{cfg: cfg, ledger: led}

	orchOpts := []pipeline.Option{
		pipeline.WithLedger(led),
		pipeline.WithOverrides(table),
		pipeline.WithDataDir(cfg.Paths.DataDir),
		pipeline.WithWorkers(cfg.Fetch.Workers, cfg.Fetch.RetryWorkers),
		pipeline.WithReconciler(reconcile.New(
			reconcile.WithThreshold(cfg.Matching.Threshold),
			reconcile.WithOverrides(table),
		)),
	}

	if o.loader != nil {
		orchOpts = append(orchOpts, pipeline.WithLoader(o.loader))
	} else if cfg.Loader.Enabled {
		s, err := store.Open(cfg.Paths.Database, store.WithBatchSize(cfg.Loader.BatchSize))
		if err != nil {
			if ferr := led.Flush(); ferr != nil {
				err = errors.Join(err, ferr)
			}
			return nil, err
		}
		c.store = s
		orchOpts = append(orchOpts, pipeline.WithLoader(store.NewLoader(s)))
	}

	if o.primary != nil || o.details != nil || o.secondary != nil || o.rankings != nil || o.matchups != nil {
		orchOpts = append(orchOpts, o.sourceOptions()...)
	} else {
		orchOpts = append(orchOpts, c.defaultSources()...)
	}

	c.orch = pipeline.New(orchOpts...)
	return c, nil
}

// defaultSources wires the real source clients over one shared gate.
func (c *Client) defaultSources() []pipeline.Option {
	gate := transport.NewGate(
		c.cfg.Fetch.Rate.MaxRequests,
		c.cfg.Fetch.Rate.Window,
		c.cfg.Fetch.Rate.MinDelay,
	)
	timeout := transport.WithTimeout(c.cfg.Fetch.Timeout)

	ufcClient := ufc.New(c.cfg.Sources.UFC, transport.NewClient("ufc", gate, timeout))
	sherdogClient := sherdog.New(
		c.cfg.Sources.Sherdog,
		transport.NewClient("sherdog", gate, timeout),
		cache.New(searchCacheTTL, time.Hour),
	)
	tapologyClient := tapology.New(c.cfg.Sources.Tapology, transport.NewClient("tapology", gate, timeout))

	return []pipeline.Option{
		pipeline.WithPrimary(ufcClient),
		pipeline.WithDetails(ufcClient),
		pipeline.WithRankings(ufcClient),
		pipeline.WithSecondary(sherdogClient),
		pipeline.WithMatchups(tapologyClient),
	}
}

// Run executes one pipeline run.
func (c *Client) Run(ctx context.Context, cmd pipeline.Command) (*pipeline.Summary, error) {
	return c.orch.Execute(ctx, cmd)
}

// Status reports data freshness, pending ledger queues, and database
// table sizes without touching the network.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	status := &Status{
		Snapshots: c.orch.SnapshotAges(),
		Ledger:    c.ledger.Counts(),
	}
	if c.store != nil {
		counts, err := c.store.Counts()
		if err != nil {
			return nil, err
		}
		status.Tables = counts
	}
	return status, nil
}

// Status is a point-in-time view of the working state.
type Status struct {
	// Snapshots maps each fetch stage to the age of its data on disk.
	Snapshots map[pipeline.Stage]time.Duration `json:"snapshots"`

	// Ledger holds the non-empty failure queues and their sizes.
	Ledger map[string]int `json:"ledger,omitempty"`

	// Tables holds the database row counts, absent when loading is
	// disabled.
	Tables map[string]int `json:"tables,omitempty"`
}

// Config returns the client's resolved configuration.
func (c *Client) Config() *config.Config {
	return c.cfg
}

// Ledger exposes the failure queues for inspection and manual clearing.
func (c *Client) Ledger() *ledger.Ledger {
	return c.ledger
}

// Close flushes the ledger and closes the database.
func (c *Client) Close() error {
	var errs []error
	if err := c.ledger.Flush(); err != nil {
		errs = append(errs, err)
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
