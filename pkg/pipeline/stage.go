// Package pipeline orchestrates a refresh run: staged fetches with
// bounded worker pools, reconciliation, and persistence, with forward
// progress over all-or-nothing. A stage failure never aborts the run;
// every stage whose dependencies can still be satisfied executes, and a
// terminal summary is produced no matter how the run went.
package pipeline

// Stage is one unit of pipeline work.
type Stage string

// Pipeline stages in execution order.
const (
	StageFetchPrimary   Stage = "fetch-primary"
	StageFetchDetails   Stage = "fetch-details"
	StageFetchSecondary Stage = "fetch-secondary"
	StageFetchRankings  Stage = "fetch-rankings"
	StageFetchMatchups  Stage = "fetch-matchups"
	StageReconcile      Stage = "reconcile"
	StageLoad           Stage = "load"
)

// Stages returns all stages in execution order.
func Stages() []Stage {
	return []Stage{
		StageFetchPrimary,
		StageFetchDetails,
		StageFetchSecondary,
		StageFetchRankings,
		StageFetchMatchups,
		StageReconcile,
		StageLoad,
	}
}

// String returns the stage name.
func (s Stage) String() string {
	return string(s)
}

// IsValid reports whether the stage is one of the defined constants.
func (s Stage) IsValid() bool {
	for _, known := range Stages() {
		if s == known {
			return true
		}
	}
	return false
}

// Deps returns the stages whose output this stage consumes. A dependency
// is satisfied by success within the current run or by a snapshot left on
// disk by an earlier run.
func (s Stage) Deps() []Stage {
	switch s {
	case StageFetchDetails, StageFetchSecondary:
		return []Stage{StageFetchPrimary}
	case StageReconcile:
		return []Stage{StageFetchPrimary}
	case StageLoad:
		return []Stage{StageReconcile}
	}
	return nil
}

// Mode selects how much of the pipeline a run executes.
type Mode string

// Run modes.
const (
	// ModeFull refetches everything from scratch.
	ModeFull Mode = "full-refresh"

	// ModeIncremental reuses snapshots left by earlier runs, fetching only
	// what is missing and retrying what the ledger recorded as failed.
	ModeIncremental Mode = "incremental"

	// ModeTargeted runs only the named stages.
	ModeTargeted Mode = "targeted"
)

// IsValid reports whether the mode is one of the defined constants.
func (m Mode) IsValid() bool {
	switch m {
	case ModeFull, ModeIncremental, ModeTargeted:
		return true
	}
	return false
}

// Command describes one requested run.
type Command struct {
	// Mode selects the run strategy. Defaults to ModeFull.
	Mode Mode

	// Targets names the stages a targeted run executes. Ignored for
	// other modes.
	Targets []Stage

	// SkipLoad leaves the database untouched: reconcile still runs and
	// snapshots are still written.
	SkipLoad bool

	// Workers overrides the configured fetch pool size when positive.
	Workers int
}
