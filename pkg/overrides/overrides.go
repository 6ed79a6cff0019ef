// Package overrides holds the static correction table for known aliasing and
// transliteration mismatches that normalization alone cannot repair: ring
// names, nickname-only listings, divergent romanizations. An override hit is
// authoritative; it is consulted before fuzzy matching and outranks any
// computed similarity.
package overrides

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/identity"
	"github.com/fightdex/fightdex/pkg/sources"
)

// Correction is the recorded fix for one normalized key: an alternate
// display name, a direct per-source locator, or both.
type Correction struct {
	// Name is the alternate display name to match under instead.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Refs maps a source to a direct locator, bypassing that source's
	// search entirely.
	Refs map[sources.ID]string `yaml:"refs,omitempty" json:"refs,omitempty"`
}

// Table is an immutable-after-load lookup from normalized name key to its
// correction.
type Table struct {
	entries map[string]Correction
}

// New creates an empty override table.
func New() *Table {
	return &Table{entries: make(map[string]Correction)}
}

// Set records a correction under the normalized form of name.
func (t *Table) Set(name string, c Correction) {
	key := identity.Normalize(name)
	if key == "" {
		return
	}
	t.entries[key] = c
}

// Lookup returns the correction for an already-normalized key.
func (t *Table) Lookup(key string) (Correction, bool) {
	c, ok := t.entries[key]
	return c, ok
}

// Ref returns the direct locator recorded for a key and source, if any.
func (t *Table) Ref(key string, src sources.ID) string {
	c, ok := t.entries[key]
	if !ok {
		return ""
	}
	return c.Refs[src]
}

// Len returns the number of corrections.
func (t *Table) Len() int {
	return len(t.entries)
}

// Load reads a YAML override file mapping display names to corrections:
//
//	"Alexander Pantoja":
//	  name: Alexandre Pantoja
//	"Weili Zhang":
//	  refs:
//	    sherdog: https://www.sherdog.com/fighter/Zhang-Weili-123456
//
// Keys are normalized on load, so the file can use natural spellings.
// A missing file yields an empty table rather than an error: overrides are
// an escape hatch, not a requirement.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var raw map[string]Correction
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &errors.ConfigError{Component: "overrides", Message: "invalid override file", Err: err}
	}

	t := New()
	for name, c := range raw {
		t.Set(name, c)
	}
	return t, nil
}
