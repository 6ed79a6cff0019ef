package match

import (
	"fmt"
	"strings"

	"github.com/fightdex/fightdex/pkg/identity"
	"github.com/fightdex/fightdex/pkg/overrides"
)

// Matcher resolves display names against an index of canonical identities.
// Resolution order: exact key, override correction, containment fuzzy
// fallback. At most one identity is returned.
type Matcher struct {
	index     *Index
	overrides *overrides.Table
	threshold float64
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithOverrides installs the static correction table.
func WithOverrides(t *overrides.Table) Option {
	return func(m *Matcher) {
		if t != nil {
			m.overrides = t
		}
	}
}

// WithThreshold sets the fuzzy acceptance threshold.
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) {
		if threshold > 0 {
			m.threshold = threshold
		}
	}
}

// New creates a Matcher over the given index.
func New(index *Index, opts ...Option) *Matcher {
	m := &Matcher{
		index:     index,
		overrides: overrides.New(),
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold returns the configured fuzzy acceptance threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match resolves a raw display name to at most one canonical identity.
func (m *Matcher) Match(name string) Result {
	key := identity.Normalize(name)
	if key == "" {
		return Result{Kind: NoMatch, Reason: "name normalizes to empty key"}
	}

	if id, ok := m.index.Get(key); ok {
		return Result{Kind: Exact, ID: id, Key: key, Score: 1.0}
	}

	// An override hit is authoritative over any computed similarity.
	if c, ok := m.overrides.Lookup(key); ok && c.Name != "" {
		corrected := identity.Normalize(c.Name)
		if id, ok := m.index.Get(corrected); ok {
			return Result{Kind: Override, ID: id, Key: corrected, Score: 1.0}
		}
	}

	return m.fuzzy(key)
}

// fuzzy runs the containment fallback: a candidate qualifies when the
// shorter normalized name is a substring of the longer; its score is
// min(len)/max(len) over the pair. Highest score wins; ties keep the
// first-seen candidate because iteration follows index insertion order
// and only a strictly greater score displaces the incumbent.
func (m *Matcher) fuzzy(key string) Result {
	var (
		bestKey   string
		bestScore float64
	)
	for _, cand := range m.index.Keys() {
		if !strings.Contains(cand, key) && !strings.Contains(key, cand) {
			continue
		}
		score := containmentScore(key, cand)
		if score > bestScore {
			bestScore = score
			bestKey = cand
		}
	}

	if bestKey != "" && bestScore >= m.threshold {
		id, _ := m.index.Get(bestKey)
		return Result{Kind: Fuzzy, ID: id, Key: bestKey, Score: bestScore}
	}

	reason := "no candidate contains the name"
	if bestKey != "" {
		reason = fmt.Sprintf("best score %.2f below threshold %.2f", bestScore, m.threshold)
	}
	return Result{Kind: NoMatch, Score: bestScore, Reason: reason}
}

// containmentScore is min(len)/max(len) over the matched pair.
func containmentScore(a, b string) float64 {
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	if la > lb {
		la, lb = lb, la
	}
	return float64(la) / float64(lb)
}
