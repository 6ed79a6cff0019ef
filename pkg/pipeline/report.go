package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/ledger"
	"github.com/fightdex/fightdex/pkg/reconcile"
)

// reviewReportFile holds everything a human should look at after a run:
// identifier conflicts, structural warnings, and the pass statistics.
const reviewReportFile = "review_report.json"

// reviewReport is the persisted post-run review document.
type reviewReport struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Conflicts   []reconcile.Conflict  `json:"conflicts,omitempty"`
	Warnings    []string              `json:"warnings,omitempty"`
	Unmatched   []reconcile.Unmatched `json:"unmatched,omitempty"`
	Stats       reconcile.Stats       `json:"stats"`
}

func (o *Orchestrator) runReconcile(ctx context.Context, run *runState, summary *Summary) StageResult {
	// Fill snapshot gaps from disk so an incremental or targeted run can
	// reconcile stages it did not fetch this pass.
	if _, err := o.ensurePrimary(run); err != nil {
		return StageResult{Status: StatusFailed, Error: err.Error()}
	}
	if run.snap.Details == nil {
		if _, err := o.loadSnapshot(StageFetchDetails, &run.snap.Details); err != nil {
			return StageResult{Status: StatusFailed, Error: err.Error()}
		}
	}
	if run.snap.Secondary == nil {
		if _, err := o.loadSnapshot(StageFetchSecondary, &run.snap.Secondary); err != nil {
			return StageResult{Status: StatusFailed, Error: err.Error()}
		}
	}
	if run.snap.Rankings == nil {
		if _, err := o.loadSnapshot(StageFetchRankings, &run.snap.Rankings); err != nil {
			return StageResult{Status: StatusFailed, Error: err.Error()}
		}
	}
	if run.snap.Matchups == nil {
		if _, err := o.loadSnapshot(StageFetchMatchups, &run.snap.Matchups); err != nil {
			return StageResult{Status: StatusFailed, Error: err.Error()}
		}
	}

	res, err := o.reconciler.Reconcile(ctx, run.snap)
	if err != nil {
		return StageResult{Status: StatusFailed, Error: err.Error()}
	}
	run.result = res

	o.refreshMatchQueues(res)
	if err := o.writeReviewReport(res); err != nil {
		summary.Warnings = append(summary.Warnings, err.Error())
	}

	summary.Fighters = res.Stats.FightersTotal
	summary.Bouts = res.Stats.BoutsTotal
	summary.Conflicts = len(res.Conflicts)
	summary.Unmatched = len(res.Unmatched)
	summary.Warnings = append(summary.Warnings, res.Warnings...)

	return StageResult{Status: StatusOK, Records: res.Stats.FightersTotal, Failures: len(res.Unmatched)}
}

// refreshMatchQueues rewrites the reconcile-owned ledger queues from this
// pass's unmatched set. A subject seen before keeps its attempt count.
func (o *Orchestrator) refreshMatchQueues(res *reconcile.Result) {
	if o.ledger == nil {
		return
	}

	queues := []string{
		reconcile.QueueDetailMatch,
		reconcile.QueueSecondaryMatch,
		reconcile.QueueRankingMatch,
		reconcile.QueueMatchupMatch,
	}
	now := o.now().UTC()

	for _, queue := range queues {
		prior := make(map[string]int)
		for _, rec := range o.ledger.Records(queue) {
			prior[rec.Subject] = rec.Attempts
		}

		var records []ledger.Record
		for _, u := range res.UnmatchedIn(queue) {
			records = append(records, ledger.Record{
				Subject:     u.Name,
				Ref:         u.Ref,
				Source:      u.Source.String(),
				Reason:      u.Reason,
				Score:       u.Score,
				Attempts:    prior[u.Name] + 1,
				LastAttempt: now,
			})
		}
		o.ledger.Replace(queue, records)
	}
}

// writeReviewReport persists the post-run review document.
func (o *Orchestrator) writeReviewReport(res *reconcile.Result) error {
	if err := os.MkdirAll(o.dataDir, 0o755); err != nil {
		return errors.WrapIO("create", o.dataDir, err)
	}
	report := reviewReport{
		GeneratedAt: o.now().UTC(),
		Conflicts:   res.Conflicts,
		Warnings:    res.Warnings,
		Unmatched:   res.Unmatched,
		Stats:       res.Stats,
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.WrapIO("encode", reviewReportFile, err)
	}
	path := filepath.Join(o.dataDir, reviewReportFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func (o *Orchestrator) runLoad(ctx context.Context, run *runState, summary *Summary) StageResult {
	if o.loader == nil {
		return StageResult{Status: StatusFailed, Error: "loader not configured"}
	}

	report, err := o.loader.Load(ctx, run.result)
	if err != nil {
		result := StageResult{Status: StatusFailed, Error: err.Error()}
		if report != nil {
			result.Records = totalRows(report.Rows)
		}
		return result
	}

	summary.Orphans = len(report.Orphans)
	for _, orphan := range report.Orphans {
		summary.Warnings = append(summary.Warnings, "orphan: "+orphan)
	}
	return StageResult{Status: StatusOK, Records: totalRows(report.Rows)}
}

func totalRows(rows map[string]int) int {
	total := 0
	for _, n := range rows {
		total += n
	}
	return total
}
