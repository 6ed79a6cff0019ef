package reconcile

import (
	"strconv"
	"strings"

	"github.com/fightdex/fightdex/pkg/roster"
	"github.com/fightdex/fightdex/pkg/sources"
)

// Field merge policy: a source's non-null value fills a prior null; a
// non-null value is never overwritten by a later source. Sources merge in
// priority order, so the highest-priority source that knows a field wins.

// applyFields folds a record's raw field map into the fighter.
func applyFields(f *roster.Fighter, rec sources.Record) {
	if len(rec.Fields) == 0 {
		return
	}

	setString(&f.Nickname, rec.Fields["nickname"])
	setString(&f.Country, rec.Fields["country"])
	setString(&f.Gender, rec.Fields["gender"])
	setString(&f.WeightClass, rec.Fields["weight_class"])

	setFloat(&f.Height, rec.Fields["height"])
	setFloat(&f.Weight, rec.Fields["weight"])
	setFloat(&f.Reach, rec.Fields["reach"])
	setInt(&f.Age, rec.Fields["age"])

	setInt(&f.WinsTotal, rec.Fields["wins_total"])
	setInt(&f.WinsKO, rec.Fields["wins_ko"])
	setInt(&f.WinsSub, rec.Fields["wins_sub"])
	setInt(&f.WinsDec, rec.Fields["wins_dec"])
	setInt(&f.LossesTotal, rec.Fields["losses_total"])
	setInt(&f.LossesKO, rec.Fields["losses_ko"])
	setInt(&f.LossesSub, rec.Fields["losses_sub"])
	setInt(&f.LossesDec, rec.Fields["losses_dec"])
}

// applyHistory adopts a record's bout history when the fighter has none
// yet. History is owned wholesale by the first source that supplies it;
// interleaving rows from two record keepers would corrupt ordering.
func applyHistory(f *roster.Fighter, rec sources.Record) {
	if len(rec.History) == 0 || len(f.History) > 0 {
		return
	}
	f.History = make([]roster.Bout, 0, len(rec.History))
	for _, row := range rec.History {
		f.History = append(f.History, roster.Bout{
			Opponent: row.Opponent,
			Result:   row.Result,
			Method:   row.Method,
			Round:    row.Round,
			Time:     row.Time,
			Date:     row.Date,
		})
	}
}

// setString fills dst with a cleaned string value if dst is still empty.
func setString(dst **string, v any) {
	if *dst != nil {
		return
	}
	if s, ok := cleanString(v); ok {
		*dst = &s
	}
}

// setFloat fills dst with a cleaned numeric value if dst is still empty.
func setFloat(dst **float64, v any) {
	if *dst != nil {
		return
	}
	if n, ok := cleanFloat(v); ok {
		*dst = &n
	}
}

// setInt fills dst with a cleaned integer value if dst is still empty.
func setInt(dst **int, v any) {
	if *dst != nil {
		return
	}
	if n, ok := cleanInt(v); ok {
		*dst = &n
	}
}

// placeholders are the strings sources use where they mean "unknown".
func placeholder(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unknown", "n/a", "-", "tbd":
		return true
	}
	return false
}

// cleanString trims a raw value and rejects placeholder text.
func cleanString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if placeholder(s) {
		return "", false
	}
	return s, true
}

// cleanFloat coerces raw numeric values: JSON numbers arrive as float64,
// scraped numbers as strings, and placeholder text means absent.
func cleanFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		if placeholder(n) {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// cleanInt coerces raw integer values with the same placeholder handling.
func cleanInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case string:
		if placeholder(n) {
			return 0, false
		}
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}
