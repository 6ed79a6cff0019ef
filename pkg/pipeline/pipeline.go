package pipeline

import (
	"context"
	"time"

	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/ledger"
	"github.com/fightdex/fightdex/pkg/logging"
	"github.com/fightdex/fightdex/pkg/overrides"
	"github.com/fightdex/fightdex/pkg/reconcile"
	"github.com/fightdex/fightdex/pkg/sources"
)

// LoadReport is what a Loader reports back after persisting a run.
type LoadReport struct {
	// Rows is the committed row count per table.
	Rows map[string]int `json:"rows"`

	// Orphans describes rows whose fighter reference did not resolve
	// after the load. Non-empty means the integrity pass failed.
	Orphans []string `json:"orphans,omitempty"`
}

// Loader persists one run's canonical output and verifies referential
// integrity afterwards.
type Loader interface {
	Load(ctx context.Context, res *reconcile.Result) (*LoadReport, error)
}

// Orchestrator executes pipeline runs. Sources left unconfigured simply
// block their stages; a reconcile-only run needs no sources at all as
// long as snapshots exist on disk.
type Orchestrator struct {
	primary   sources.RosterSource
	details   sources.DetailSource
	secondary sources.LookupSource
	rankings  sources.RankingSource
	matchups  sources.MatchupSource

	reconciler *reconcile.Reconciler
	ledger     *ledger.Ledger
	loader     Loader
	overrides  *overrides.Table

	dataDir      string
	workers      int
	retryWorkers int
	now          func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPrimary sets the primary roster source.
func WithPrimary(s sources.RosterSource) Option {
	return func(o *Orchestrator) { o.primary = s }
}

// WithDetails sets the detail source.
func WithDetails(s sources.DetailSource) Option {
	return func(o *Orchestrator) { o.details = s }
}

// WithSecondary sets the secondary lookup source.
func WithSecondary(s sources.LookupSource) Option {
	return func(o *Orchestrator) { o.secondary = s }
}

// WithRankings sets the rankings source.
func WithRankings(s sources.RankingSource) Option {
	return func(o *Orchestrator) { o.rankings = s }
}

// WithMatchups sets the matchup source.
func WithMatchups(s sources.MatchupSource) Option {
	return func(o *Orchestrator) { o.matchups = s }
}

// WithReconciler sets the reconciler.
func WithReconciler(r *reconcile.Reconciler) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.reconciler = r
		}
	}
}

// WithLedger sets the failure ledger.
func WithLedger(l *ledger.Ledger) Option {
	return func(o *Orchestrator) { o.ledger = l }
}

// WithLoader sets the persistence loader.
func WithLoader(l Loader) Option {
	return func(o *Orchestrator) { o.loader = l }
}

// WithOverrides sets the manual correction table, consulted for direct
// secondary-source locators.
func WithOverrides(t *overrides.Table) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.overrides = t
		}
	}
}

// WithDataDir sets the snapshot directory.
func WithDataDir(dir string) Option {
	return func(o *Orchestrator) {
		if dir != "" {
			o.dataDir = dir
		}
	}
}

// WithWorkers sets the fetch pool sizes. The retry pool is deliberately
// smaller: retried work already failed once, usually under load.
func WithWorkers(workers, retryWorkers int) Option {
	return func(o *Orchestrator) {
		if workers > 0 {
			o.workers = workers
		}
		if retryWorkers > 0 {
			o.retryWorkers = retryWorkers
		}
	}
}

// WithClock fixes the orchestrator's time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an Orchestrator with options.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		reconciler:   reconcile.New(),
		overrides:    overrides.New(),
		dataDir:      "data",
		workers:      8,
		retryWorkers: 3,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// runState carries the in-run snapshot and reconciliation output across
// stages.
type runState struct {
	snap   reconcile.Snapshot
	result *reconcile.Result
	done   map[Stage]bool
}

// Execute performs one run. The returned summary is always complete,
// even when every stage failed; the error is non-nil only for requests
// the orchestrator cannot begin at all.
func (o *Orchestrator) Execute(ctx context.Context, cmd Command) (*Summary, error) {
	if cmd.Mode == "" {
		cmd.Mode = ModeFull
	}
	if !cmd.Mode.IsValid() {
		return nil, &errors.ConfigError{Component: "pipeline", Message: "unknown mode " + string(cmd.Mode)}
	}
	for _, target := range cmd.Targets {
		if !target.IsValid() {
			return nil, &errors.ConfigError{Component: "pipeline", Message: "unknown stage " + target.String()}
		}
	}

	log := logging.FromContext(ctx)
	summary := &Summary{Mode: cmd.Mode, StartedAt: o.now().UTC()}
	run := &runState{done: make(map[Stage]bool)}

	log.Info().Str("mode", string(cmd.Mode)).Msg("run starting")

	for _, stage := range Stages() {
		if stage == StageLoad && cmd.SkipLoad {
			summary.record(StageResult{Stage: stage, Status: StatusSkipped})
			continue
		}
		if !o.selected(stage, cmd, run) {
			summary.record(StageResult{Stage: stage, Status: StatusSkipped})
			continue
		}
		if !o.depsSatisfied(stage, run) {
			log.Warn().Str("stage", stage.String()).Msg("stage blocked, dependency unsatisfied")
			summary.record(StageResult{Stage: stage, Status: StatusBlocked})
			continue
		}

		start := o.now()
		result := o.runStage(ctx, stage, cmd, run, summary)
		result.Stage = stage
		result.Duration = o.now().Sub(start)
		if result.Status == StatusOK {
			run.done[stage] = true
		} else {
			log.Error().Str("stage", stage.String()).Str("error", result.Error).Msg("stage failed")
		}
		summary.record(result)
	}

	if o.ledger != nil {
		if err := o.ledger.Flush(); err != nil {
			summary.Warnings = append(summary.Warnings, "ledger flush failed: "+err.Error())
		}
		summary.Ledger = o.ledger.Counts()
	}
	summary.Duration = o.now().Sub(summary.StartedAt)

	log.Info().
		Bool("ok", summary.OK()).
		Dur("elapsed", summary.Duration).
		Int("fighters", summary.Fighters).
		Msg("run finished")

	return summary, nil
}

// selected reports whether the mode runs a stage at all.
func (o *Orchestrator) selected(stage Stage, cmd Command, run *runState) bool {
	switch cmd.Mode {
	case ModeTargeted:
		for _, target := range cmd.Targets {
			if target == stage {
				return true
			}
		}
		return false
	case ModeIncremental:
		if _, isFetch := snapshotFiles[stage]; !isFetch {
			return true
		}
		// A fetch stage reruns when it never produced a snapshot or when
		// its ledger queues hold failures worth retrying.
		if !o.hasSnapshot(stage) {
			return true
		}
		return o.retryPending(stage)
	}
	return true
}

// retryPending reports whether any ledger queue feeding a stage holds
// entries.
func (o *Orchestrator) retryPending(stage Stage) bool {
	if o.ledger == nil {
		return false
	}
	for _, queue := range retryQueues(stage) {
		if o.ledger.Size(queue) > 0 {
			return true
		}
	}
	return false
}

// retryQueues names the ledger queues whose entries a stage retries: its
// own fetch failures, plus the reconcile match queue whose names a fresh
// fetch might now resolve.
func retryQueues(stage Stage) []string {
	switch stage {
	case StageFetchDetails:
		return []string{string(StageFetchDetails), reconcile.QueueDetailMatch}
	case StageFetchSecondary:
		return []string{string(StageFetchSecondary), reconcile.QueueSecondaryMatch}
	case StageFetchRankings:
		return []string{string(StageFetchRankings)}
	case StageFetchMatchups:
		return []string{string(StageFetchMatchups)}
	case StageFetchPrimary:
		return []string{string(StageFetchPrimary)}
	}
	return nil
}

// depsSatisfied reports whether every dependency either succeeded this
// run or left a usable artifact behind.
func (o *Orchestrator) depsSatisfied(stage Stage, run *runState) bool {
	for _, dep := range stage.Deps() {
		if run.done[dep] {
			continue
		}
		if dep == StageReconcile {
			// Reconciliation output only exists in-run.
			return run.result != nil
		}
		if !o.hasSnapshot(dep) {
			return false
		}
	}
	return true
}
