package roster

// Slot is one side of a scheduled matchup: the raw name as announced, plus
// the canonical reference when resolution succeeded. An unresolved slot keeps
// its name and a nil FighterID; it is never silently dropped.
type Slot struct {
	Name      string     `json:"name"`
	FighterID *FighterID `json:"fighter_id,omitempty"`
}

// Resolved reports whether the slot carries a canonical reference.
func (s Slot) Resolved() bool {
	return s.FighterID != nil
}

// Matchup is one scheduled bout between two slots, with event metadata.
type Matchup struct {
	Event       string `json:"event"`
	EventType   string `json:"event_type,omitempty"`
	Date        string `json:"event_date,omitempty"`
	Venue       string `json:"venue,omitempty"`
	Location    string `json:"location,omitempty"`
	CardSection string `json:"card_section,omitempty"`
	BoutOrder   int    `json:"bout_order,omitempty"`
	WeightClass string `json:"weight_class,omitempty"`

	Red  Slot `json:"red"`
	Blue Slot `json:"blue"`
}
