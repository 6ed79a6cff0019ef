package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// StageStatus is the terminal state of one stage within a run.
type StageStatus string

// Stage outcomes.
const (
	// StatusOK means the stage completed.
	StatusOK StageStatus = "ok"

	// StatusFailed means the stage ran and failed. Its failures are in
	// the ledger where the error class is recoverable.
	StatusFailed StageStatus = "failed"

	// StatusSkipped means the run's mode did not select the stage.
	StatusSkipped StageStatus = "skipped"

	// StatusBlocked means a dependency neither succeeded this run nor
	// left a snapshot to fall back on.
	StatusBlocked StageStatus = "blocked"
)

// StageResult is the terminal record of one stage.
type StageResult struct {
	Stage    Stage         `json:"stage"`
	Status   StageStatus   `json:"status"`
	Records  int           `json:"records"`
	Failures int           `json:"failures,omitempty"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Summary is the terminal report of one run. It is produced no matter how
// the run went, including a run where every stage failed.
type Summary struct {
	Mode      Mode          `json:"mode"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	Stages []StageResult `json:"stages"`

	// Ledger is the per-queue entry count after the run.
	Ledger map[string]int `json:"ledger,omitempty"`

	Fighters  int      `json:"fighters"`
	Bouts     int      `json:"bouts"`
	Conflicts int      `json:"conflicts"`
	Unmatched int      `json:"unmatched"`
	Orphans   int      `json:"orphans"`
	Warnings  []string `json:"warnings,omitempty"`
}

// record appends one stage's terminal state.
func (s *Summary) record(result StageResult) {
	s.Stages = append(s.Stages, result)
}

// OK reports whether every executed stage completed.
func (s *Summary) OK() bool {
	for _, st := range s.Stages {
		if st.Status == StatusFailed || st.Status == StatusBlocked {
			return false
		}
	}
	return true
}

// Render formats the summary for the terminal.
func (s *Summary) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "run summary (%s, %s)\n", s.Mode, s.Duration.Round(time.Millisecond))
	for _, st := range s.Stages {
		fmt.Fprintf(&b, "  %-16s %-8s", st.Stage, st.Status)
		switch st.Status {
		case StatusOK:
			fmt.Fprintf(&b, " %6d records", st.Records)
			if st.Failures > 0 {
				fmt.Fprintf(&b, ", %d failed", st.Failures)
			}
			fmt.Fprintf(&b, "  %s", st.Duration.Round(time.Millisecond))
		case StatusFailed:
			fmt.Fprintf(&b, " %s", st.Error)
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "  fighters %d, bouts %d, conflicts %d, unmatched %d, orphans %d\n",
		s.Fighters, s.Bouts, s.Conflicts, s.Unmatched, s.Orphans)

	if len(s.Ledger) > 0 {
		b.WriteString("  ledger:")
		for _, queue := range sortedKeys(s.Ledger) {
			fmt.Fprintf(&b, " %s=%d", queue, s.Ledger[queue])
		}
		b.WriteByte('\n')
	}
	for _, w := range s.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
