// Package local implements every source interface from JSON fixture
// files in a directory. It backs offline runs and pipeline tests: point
// the orchestrator at a fixture directory and a full run executes with no
// network at all.
package local

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fightdex/fightdex/pkg/errors"
	"github.com/fightdex/fightdex/pkg/identity"
	"github.com/fightdex/fightdex/pkg/sources"
)

// Fixture file names within the directory.
const (
	rosterFile    = "roster.json"
	detailsFile   = "details.json"
	secondaryFile = "secondary.json"
	rankingsFile  = "rankings.json"
	matchupsFile  = "matchups.json"
)

// Provider serves records from fixture files. An absent file yields
// empty data, not an error, so a fixture directory only needs the files
// its test cares about.
type Provider struct {
	dir string
	id  sources.ID
}

// New creates a provider reading from dir, reporting the given source ID.
func New(dir string, id sources.ID) *Provider {
	return &Provider{dir: dir, id: id}
}

// ID returns the configured source identifier.
func (p *Provider) ID() sources.ID {
	return p.id
}

// load decodes one fixture file into v. A missing file leaves v as-is.
func (p *Provider) load(name string, v any) error {
	path := filepath.Join(p.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapIO("read", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.WrapIO("parse", path, err)
	}
	return nil
}

// Roster lists the fixture roster.
func (p *Provider) Roster(ctx context.Context) ([]sources.Record, error) {
	var records []sources.Record
	if err := p.load(rosterFile, &records); err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Source = p.id
	}
	return records, nil
}

// Details returns the fixture detail record keyed by external ID, or the
// input record unchanged when the fixture has no entry for it.
func (p *Provider) Details(ctx context.Context, rec sources.Record) (sources.Record, error) {
	details := make(map[string]sources.Record)
	if err := p.load(detailsFile, &details); err != nil {
		return sources.Record{}, err
	}
	d, ok := details[rec.ExternalID]
	if !ok {
		return rec, nil
	}
	d.Source = p.id
	if d.Name == "" {
		d.Name = rec.Name
	}
	if d.ExternalID == "" {
		d.ExternalID = rec.ExternalID
	}
	return d, nil
}

// Lookup resolves a name against the fixture secondary table, keyed by
// normalized name.
func (p *Provider) Lookup(ctx context.Context, name, ref string) (sources.Record, error) {
	table := make(map[string]sources.Record)
	if err := p.load(secondaryFile, &table); err != nil {
		return sources.Record{}, err
	}
	rec, ok := table[identity.Normalize(name)]
	if !ok {
		return sources.Record{}, &errors.MatchError{Subject: name, Reason: "no fixture entry"}
	}
	rec.Source = p.id
	if rec.Name == "" {
		rec.Name = name
	}
	return rec, nil
}

// Rankings lists the fixture rankings.
func (p *Provider) Rankings(ctx context.Context) ([]sources.RankingRow, error) {
	var rows []sources.RankingRow
	if err := p.load(rankingsFile, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Matchups lists the fixture matchups.
func (p *Provider) Matchups(ctx context.Context) ([]sources.MatchupRow, error) {
	var rows []sources.MatchupRow
	if err := p.load(matchupsFile, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
