package reconcile

import (
	"fmt"

	"github.com/fightdex/fightdex/pkg/match"
	"github.com/fightdex/fightdex/pkg/roster"
	"github.com/fightdex/fightdex/pkg/sources"
)

// resolveMatchups maps each scheduled bout's two slots to canonical
// references. A slot that fails to resolve keeps its announced name and is
// flagged for the matchup-match queue; the matchup itself is always kept.
func (r *Reconciler) resolveMatchups(rows []sources.MatchupRow, matcher *match.Matcher, res *Result) {
	for _, row := range rows {
		mu := roster.Matchup{
			Event:       row.Event,
			EventType:   row.EventType,
			Date:        row.Date,
			Venue:       row.Venue,
			Location:    row.Location,
			CardSection: row.CardSection,
			BoutOrder:   row.BoutOrder,
			WeightClass: row.WeightClass,
			Red:         r.resolveSlot(row.Fighter1, row.Event, matcher, res),
			Blue:        r.resolveSlot(row.Fighter2, row.Event, matcher, res),
		}
		res.Matchups = append(res.Matchups, mu)
	}
}

// resolveSlot resolves one side of a matchup.
func (r *Reconciler) resolveSlot(name, event string, matcher *match.Matcher, res *Result) roster.Slot {
	slot := roster.Slot{Name: name}
	m := matcher.Match(name)
	if m.Matched() {
		id := roster.FighterID(m.ID)
		slot.FighterID = &id
		res.Stats.SlotsResolved++
		return slot
	}
	res.Stats.SlotsUnresolved++
	res.Unmatched = append(res.Unmatched, Unmatched{
		Queue:  QueueMatchupMatch,
		Source: sources.Tapology,
		Name:   name,
		Score:  m.Score,
		Reason: fmt.Sprintf("booked on %s: %s", event, m.Reason),
	})
	return slot
}
