package reconcile

import (
	"fmt"
	"strings"

	"github.com/fightdex/fightdex/pkg/match"
	"github.com/fightdex/fightdex/pkg/roster"
	"github.com/fightdex/fightdex/pkg/sources"
)

// resolveRankings maps every ranking row to a canonical reference where
// possible. Unresolved rows keep their raw name with a nil reference and
// are flagged for the ranking-match queue rather than dropped.
func (r *Reconciler) resolveRankings(rows []sources.RankingRow, matcher *match.Matcher, res *Result) {
	if len(rows) == 0 {
		return
	}

	champions := make(map[string]int)
	seen := make(map[string]bool)
	divisions := make([]string, 0, 8)

	for _, row := range rows {
		entry := roster.RankingEntry{
			Division: row.Division,
			Rank:     row.Rank,
			Name:     row.Name,
			Change:   row.Change,
		}

		if !seen[row.Division] {
			seen[row.Division] = true
			divisions = append(divisions, row.Division)
		}
		if entry.Champion() {
			champions[row.Division]++
		}

		if m := matcher.Match(row.Name); m.Matched() {
			id := roster.FighterID(m.ID)
			entry.FighterID = &id
			res.Stats.RankingsResolved++
		} else {
			res.Stats.RankingsUnresolved++
			res.Unmatched = append(res.Unmatched, Unmatched{
				Queue:  QueueRankingMatch,
				Source: sources.UFC,
				Name:   row.Name,
				Score:  m.Score,
				Reason: fmt.Sprintf("ranked #%s in %s: %s", row.Rank, row.Division, m.Reason),
			})
		}

		res.Rankings = append(res.Rankings, entry)
	}

	// Structural checks from the official page layout: every division has
	// exactly one champion slot except pound-for-pound.
	for _, division := range divisions {
		if strings.Contains(strings.ToLower(division), "pound-for-pound") {
			continue
		}
		switch n := champions[division]; {
		case n == 0:
			res.Warnings = append(res.Warnings, fmt.Sprintf("division %q has no champion", division))
		case n > 1:
			res.Warnings = append(res.Warnings, fmt.Sprintf("division %q has %d champions", division, n))
		}
	}
}
