package pipeline

import (
	"context"

	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/identity"
	"github.com/fightdex/fightdex/pkg/ledger"
	"github.com/fightdex/fightdex/pkg/sources"
)

// runStage dispatches one selected stage.
func (o *Orchestrator) runStage(ctx context.Context, stage Stage, cmd Command, run *runState, summary *Summary) StageResult {
	switch stage {
	case StageFetchPrimary:
		return o.runFetchPrimary(ctx, run, summary)
	case StageFetchDetails:
		return o.runFetchDetails(ctx, cmd, run, summary)
	case StageFetchSecondary:
		return o.runFetchSecondary(ctx, cmd, run, summary)
	case StageFetchRankings:
		return o.runFetchRankings(ctx, run, summary)
	case StageFetchMatchups:
		return o.runFetchMatchups(ctx, run, summary)
	case StageReconcile:
		return o.runReconcile(ctx, run, summary)
	case StageLoad:
		return o.runLoad(ctx, run, summary)
	}
	return StageResult{Status: StatusFailed, Error: "unknown stage"}
}

// poolSize returns the worker pool size for a pass. Retry passes get the
// smaller pool.
func (o *Orchestrator) poolSize(cmd Command, retry bool) int {
	if retry {
		return o.retryWorkers
	}
	if cmd.Workers > 0 {
		return cmd.Workers
	}
	return o.workers
}

// ledgerAdd queues a recoverable failure. Unrecoverable errors are not
// worth retrying and only surface in the stage result.
func (o *Orchestrator) ledgerAdd(queue string, rec ledger.Record, err error) {
	if o.ledger == nil || !errors.IsRecoverable(err) {
		return
	}
	rec.Reason = err.Error()
	o.ledger.Add(queue, rec)
}

// ensurePrimary returns the primary records, loading the snapshot from
// disk when the fetch stage did not run this pass.
func (o *Orchestrator) ensurePrimary(run *runState) ([]sources.Record, error) {
	if run.snap.Primary == nil {
		if _, err := o.loadSnapshot(StageFetchPrimary, &run.snap.Primary); err != nil {
			return nil, err
		}
	}
	return run.snap.Primary, nil
}

func (o *Orchestrator) runFetchPrimary(ctx context.Context, run *runState, summary *Summary) StageResult {
	if o.primary == nil {
		return StageResult{Status: StatusFailed, Error: "primary source not configured"}
	}

	records, err := o.primary.Roster(ctx)
	if err != nil {
		o.ledgerAdd(string(StageFetchPrimary), ledger.Record{Subject: "roster"}, err)
		return StageResult{Status: StatusFailed, Error: err.Error()}
	}

	run.snap.Primary = records
	if o.ledger != nil {
		o.ledger.Remove(string(StageFetchPrimary), "roster")
	}
	if err := o.saveSnapshot(StageFetchPrimary, records); err != nil {
		summary.Warnings = append(summary.Warnings, err.Error())
	}
	return StageResult{Status: StatusOK, Records: len(records)}
}

func (o *Orchestrator) runFetchDetails(ctx context.Context, cmd Command, run *runState, summary *Summary) StageResult {
	if o.details == nil {
		return StageResult{Status: StatusFailed, Error: "detail source not configured"}
	}
	primary, err := o.ensurePrimary(run)
	if err != nil {
		return StageResult{Status: StatusFailed, Error: err.Error()}
	}

	items, existing, retry, err := o.selectItems(StageFetchDetails, cmd, primary, &run.snap.Details)
	if err != nil {
		return StageResult{Status: StatusFailed, Error: err.Error()}
	}

	successes, failures := fanOut(ctx, o.poolSize(cmd, retry), items, func(ctx context.Context, rec sources.Record) (sources.Record, error) {
		return o.details.Details(ctx, rec)
	})
	for _, f := range failures {
		o.ledgerAdd(string(StageFetchDetails), ledger.Record{
			Subject:   f.Item.Name,
			FighterID: f.Item.ExternalID,
			Ref:       f.Item.Ref,
			Source:    f.Item.Source.String(),
		}, f.Err)
	}
	if o.ledger != nil {
		// Queue entries are keyed by the queried name, so removal must be
		// too; the source may answer under its own spelling.
		for _, s := range successes {
			o.ledger.Remove(string(StageFetchDetails), s.Item.Name)
		}
	}

	run.snap.Details = mergeRecords(existing, successes)
	if err := o.saveSnapshot(StageFetchDetails, run.snap.Details); err != nil {
		summary.Warnings = append(summary.Warnings, err.Error())
	}
	return fetchResult(len(successes), failures)
}

func (o *Orchestrator) runFetchSecondary(ctx context.Context, cmd Command, run *runState, summary *Summary) StageResult {
	if o.secondary == nil {
		return StageResult{Status: StatusFailed, Error: "secondary source not configured"}
	}
	primary, err := o.ensurePrimary(run)
	if err != nil {
		return StageResult{Status: StatusFailed, Error: err.Error()}
	}

	items, existing, retry, err := o.selectItems(StageFetchSecondary, cmd, primary, &run.snap.Secondary)
	if err != nil {
		return StageResult{Status: StatusFailed, Error: err.Error()}
	}

	src := o.secondary.ID()
	successes, failures := fanOut(ctx, o.poolSize(cmd, retry), items, func(ctx context.Context, rec sources.Record) (sources.Record, error) {
		// A manual correction can carry the exact locator, skipping the
		// secondary source's own search.
		ref := o.overrides.Ref(identity.Normalize(rec.Name), src)
		return o.secondary.Lookup(ctx, rec.Name, ref)
	})
	for _, f := range failures {
		o.ledgerAdd(string(StageFetchSecondary), ledger.Record{
			Subject: f.Item.Name,
			Source:  src.String(),
		}, f.Err)
	}
	if o.ledger != nil {
		// The record keeper routinely answers under a different spelling
		// ("Weili Zhang" queried, "Zhang Weili" returned), so the queue is
		// drained by the queried name, never the result's.
		for _, s := range successes {
			o.ledger.Remove(string(StageFetchSecondary), s.Item.Name)
		}
	}

	run.snap.Secondary = mergeRecords(existing, successes)
	if err := o.saveSnapshot(StageFetchSecondary, run.snap.Secondary); err != nil {
		summary.Warnings = append(summary.Warnings, err.Error())
	}
	return fetchResult(len(successes), failures)
}

func (o *Orchestrator) runFetchRankings(ctx context.Context, run *runState, summary *Summary) StageResult {
	if o.rankings == nil {
		return StageResult{Status: StatusFailed, Error: "ranking source not configured"}
	}

	rows, err := o.rankings.Rankings(ctx)
	if err != nil {
		o.ledgerAdd(string(StageFetchRankings), ledger.Record{Subject: "rankings"}, err)
		return StageResult{Status: StatusFailed, Error: err.Error()}
	}

	run.snap.Rankings = rows
	if o.ledger != nil {
		o.ledger.Remove(string(StageFetchRankings), "rankings")
	}
	if err := o.saveSnapshot(StageFetchRankings, rows); err != nil {
		summary.Warnings = append(summary.Warnings, err.Error())
	}
	return StageResult{Status: StatusOK, Records: len(rows)}
}

func (o *Orchestrator) runFetchMatchups(ctx context.Context, run *runState, summary *Summary) StageResult {
	if o.matchups == nil {
		return StageResult{Status: StatusFailed, Error: "matchup source not configured"}
	}

	rows, err := o.matchups.Matchups(ctx)
	if err != nil {
		o.ledgerAdd(string(StageFetchMatchups), ledger.Record{Subject: "matchups"}, err)
		return StageResult{Status: StatusFailed, Error: err.Error()}
	}

	run.snap.Matchups = rows
	if o.ledger != nil {
		o.ledger.Remove(string(StageFetchMatchups), "matchups")
	}
	if err := o.saveSnapshot(StageFetchMatchups, rows); err != nil {
		summary.Warnings = append(summary.Warnings, err.Error())
	}
	return StageResult{Status: StatusOK, Records: len(rows)}
}

// selectItems decides which primary records a per-fighter fetch stage
// processes. A full pass takes everything; an incremental pass over an
// existing snapshot retries only the subjects its ledger queues hold,
// keeping the rest of the snapshot as-is.
func (o *Orchestrator) selectItems(stage Stage, cmd Command, primary []sources.Record, existing *[]sources.Record) (items, kept []sources.Record, retry bool, err error) {
	if cmd.Mode != ModeIncremental || !o.hasSnapshot(stage) || o.ledger == nil {
		return primary, nil, false, nil
	}

	subjects := make(map[string]bool)
	for _, queue := range retryQueues(stage) {
		for _, rec := range o.ledger.Records(queue) {
			subjects[identity.Normalize(rec.Subject)] = true
		}
	}
	if len(subjects) == 0 {
		return primary, nil, false, nil
	}

	if _, err := o.loadSnapshot(stage, existing); err != nil {
		return nil, nil, false, err
	}
	for _, rec := range primary {
		if subjects[identity.Normalize(rec.Name)] {
			items = append(items, rec)
		}
	}
	return items, *existing, true, nil
}

// mergeRecords folds a retry pass's successes into the kept snapshot.
// The replaced set is keyed on both the queried item and the result it
// produced: the first supersedes the stale record even when the source
// answered under its own spelling, the second stops a re-resolved name
// from stacking up a duplicate. Subjects that failed again keep their
// previous record. A full pass has no kept records and returns the
// results alone.
func mergeRecords(kept []sources.Record, successes []itemResult[sources.Record, sources.Record]) []sources.Record {
	results := make([]sources.Record, 0, len(successes))
	replaced := make(map[string]bool, 2*len(successes))
	for _, s := range successes {
		results = append(results, s.Out)
		replaced[identity.Normalize(s.Item.Name)] = true
		replaced[identity.Normalize(s.Out.Name)] = true
	}
	if len(kept) == 0 {
		return results
	}

	out := make([]sources.Record, 0, len(kept)+len(results))
	for _, rec := range kept {
		if !replaced[identity.Normalize(rec.Name)] {
			out = append(out, rec)
		}
	}
	return append(out, results...)
}

// fetchResult classifies a fan-out outcome: partial failure is still
// forward progress, but a pass where nothing succeeded is a failed stage.
func fetchResult(succeeded int, failures []itemError[sources.Record]) StageResult {
	if succeeded == 0 && len(failures) > 0 {
		return StageResult{
			Status:   StatusFailed,
			Failures: len(failures),
			Error:    failures[0].Err.Error(),
		}
	}
	return StageResult{Status: StatusOK, Records: succeeded, Failures: len(failures)}
}
