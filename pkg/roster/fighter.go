// Package roster holds the canonical data model: fighters, their bout
// histories, rankings, and scheduled matchups, plus the Roster container
// that keys fighters by their immutable canonical ID and indexes them by
// normalized name.
package roster

import (
	"time"

	"github.com/google/uuid"

	"github.com/fightdex/fightdex/pkg/sources"
)

// FighterID is the opaque canonical identifier for a fighter. Once assigned
// to a name it is never reassigned to a different one.
type FighterID string

// String returns the string representation of a fighter ID.
func (id FighterID) String() string {
	return string(id)
}

// idNamespace seeds deterministic ID minting so that reconciling an
// unchanged snapshot yields byte-identical output.
var idNamespace = uuid.MustParse("9f2c1c1e-3a84-4a1d-9f6b-1b1f6a3d7c42")

// MintID derives a stable canonical ID from a normalized name key. Used when
// no source supplied an external identifier for a previously-unseen name.
func MintID(key string) FighterID {
	return FighterID(uuid.NewSHA1(idNamespace, []byte(key)).String())
}

// Fighter is the single canonical representation of one athlete across all
// sources. Biographical fields are pointers so the merger can distinguish
// "absent" from zero values.
type Fighter struct {
	ID   FighterID `json:"id"`
	Name string    `json:"name"`

	Nickname    *string  `json:"nickname,omitempty"`
	Height      *float64 `json:"height,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Reach       *float64 `json:"reach,omitempty"`
	Country     *string  `json:"country,omitempty"`
	Age         *int     `json:"age,omitempty"`
	Gender      *string  `json:"gender,omitempty"`
	WeightClass *string  `json:"weight_class,omitempty"`

	// Refs holds one locator per source. Entries are additive: a locator,
	// once recorded, is never overwritten by a later source.
	Refs map[sources.ID]string `json:"refs,omitempty"`

	WinsTotal   *int `json:"wins_total,omitempty"`
	WinsKO      *int `json:"wins_ko,omitempty"`
	WinsSub     *int `json:"wins_sub,omitempty"`
	WinsDec     *int `json:"wins_dec,omitempty"`
	LossesTotal *int `json:"losses_total,omitempty"`
	LossesKO    *int `json:"losses_ko,omitempty"`
	LossesSub   *int `json:"losses_sub,omitempty"`
	LossesDec   *int `json:"losses_dec,omitempty"`

	// History is the ordered bout history, owned by this fighter.
	History []Bout `json:"history,omitempty"`

	// UpdatedAt records when any source last contributed a field.
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref returns the locator recorded for the given source, if any.
func (f *Fighter) Ref(src sources.ID) string {
	if f.Refs == nil {
		return ""
	}
	return f.Refs[src]
}

// SetRef records a locator for a source. Additive: an existing locator for
// the same source is kept.
func (f *Fighter) SetRef(src sources.ID, ref string) {
	if ref == "" {
		return
	}
	if f.Refs == nil {
		f.Refs = make(map[sources.ID]string)
	}
	if _, ok := f.Refs[src]; !ok {
		f.Refs[src] = ref
	}
}

// Bout is one historical fight. Opponent is a denormalized display name,
// deliberately not a foreign key.
type Bout struct {
	Opponent string `json:"opponent"`
	Result   string `json:"result,omitempty"`
	Method   string `json:"method,omitempty"`
	Round    string `json:"round,omitempty"`
	Time     string `json:"time,omitempty"`
	Date     string `json:"date,omitempty"`
}
