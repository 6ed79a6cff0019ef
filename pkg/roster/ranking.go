package roster

// ChampionRank marks the champion slot in a division. All other positions
// are rendered as their 1-based number.
const ChampionRank = "C"

// RankingEntry is one position in a division's official rankings. FighterID
// is nil when the ranked name could not be resolved to a canonical identity;
// the entry is kept and flagged rather than dropped.
type RankingEntry struct {
	Division  string     `json:"division"`
	Rank      string     `json:"rank"`
	Name      string     `json:"name"`
	FighterID *FighterID `json:"fighter_id,omitempty"`
	Change    string     `json:"change,omitempty"`
}

// Champion reports whether this entry holds the champion slot.
func (e RankingEntry) Champion() bool {
	return e.Rank == ChampionRank
}

// Resolved reports whether the entry carries a canonical reference.
func (e RankingEntry) Resolved() bool {
	return e.FighterID != nil
}
