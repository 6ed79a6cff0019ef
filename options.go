package fightdex

import (
	"github.com/fightdex/fightdex/internal/config"
	"github.com/fightdex/fightdex/pkg/pipeline"
	"github.com/fightdex/fightdex/pkg/sources"
)

// options collects the construction-time configuration for a Client.
type options struct {
	cfg        *config.Config
	configFile string

	primary   sources.RosterSource
	details   sources.DetailSource
	secondary sources.LookupSource
	rankings  sources.RankingSource
	matchups  sources.MatchupSource

	loader pipeline.Loader
}

// Option configures a Client.
type Option func(*options)

// WithConfig supplies a resolved configuration, skipping file and
// environment loading.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithConfigFile loads configuration from the given file.
func WithConfigFile(path string) Option {
	return func(o *options) { o.configFile = path }
}

// WithPrimarySource replaces the default primary roster source. Supplying
// any custom source disables all default network clients; fixture-backed
// runs set every source they need.
func WithPrimarySource(s sources.RosterSource) Option {
	return func(o *options) { o.primary = s }
}

// WithDetailSource replaces the default detail source.
func WithDetailSource(s sources.DetailSource) Option {
	return func(o *options) { o.details = s }
}

// WithSecondarySource replaces the default secondary lookup source.
func WithSecondarySource(s sources.LookupSource) Option {
	return func(o *options) { o.secondary = s }
}

// WithRankingSource replaces the default ranking source.
func WithRankingSource(s sources.RankingSource) Option {
	return func(o *options) { o.rankings = s }
}

// WithMatchupSource replaces the default matchup source.
func WithMatchupSource(s sources.MatchupSource) Option {
	return func(o *options) { o.matchups = s }
}

// WithLoader replaces the default database loader.
func WithLoader(l pipeline.Loader) Option {
	return func(o *options) { o.loader = l }
}

// sourceOptions converts the custom sources into pipeline options.
func (o *options) sourceOptions() []pipeline.Option {
	var opts []pipeline.Option
	if o.primary != nil {
		opts = append(opts, pipeline.WithPrimary(o.primary))
	}
	if o.details != nil {
		opts = append(opts, pipeline.WithDetails(o.details))
	}
	if o.secondary != nil {
		opts = append(opts, pipeline.WithSecondary(o.secondary))
	}
	if o.rankings != nil {
		opts = append(opts, pipeline.WithRankings(o.rankings))
	}
	if o.matchups != nil {
		opts = append(opts, pipeline.WithMatchups(o.matchups))
	}
	return opts
}
