package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fightdex/fightdex/pkg/errors"
)

// Snapshot file names under the data directory, one per fetch stage.
// They make incremental runs possible: a later run reuses any snapshot
// still on disk instead of refetching its stage.
var snapshotFiles = map[Stage]string{
	StageFetchPrimary:   "primary.json",
	StageFetchDetails:   "details.json",
	StageFetchSecondary: "secondary.json",
	StageFetchRankings:  "rankings.json",
	StageFetchMatchups:  "matchups.json",
}

// snapshotPath returns the snapshot file for a fetch stage, or empty for
// stages that produce no snapshot.
func (o *Orchestrator) snapshotPath(stage Stage) string {
	name, ok := snapshotFiles[stage]
	if !ok {
		return ""
	}
	return filepath.Join(o.dataDir, name)
}

// hasSnapshot reports whether a fetch stage left a snapshot on disk.
func (o *Orchestrator) hasSnapshot(stage Stage) bool {
	path := o.snapshotPath(stage)
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// SnapshotAges reports how old each fetch stage's snapshot on disk is.
// Stages with no snapshot are absent from the map. The status command
// reports this as data freshness.
func (o *Orchestrator) SnapshotAges() map[Stage]time.Duration {
	ages := make(map[Stage]time.Duration)
	for stage := range snapshotFiles {
		info, err := os.Stat(o.snapshotPath(stage))
		if err != nil {
			continue
		}
		ages[stage] = time.Since(info.ModTime())
	}
	return ages
}

// saveSnapshot writes a fetch stage's output atomically.
func (o *Orchestrator) saveSnapshot(stage Stage, v any) error {
	path := o.snapshotPath(stage)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(o.dataDir, 0o755); err != nil {
		return errors.WrapIO("create", o.dataDir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WrapIO("encode", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.WrapIO("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// loadSnapshot reads a fetch stage's snapshot into v. Returns false when
// no snapshot exists.
func (o *Orchestrator) loadSnapshot(stage Stage, v any) (bool, error) {
	path := o.snapshotPath(stage)
	if path == "" {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapIO("read", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, errors.WrapIO("parse", path, err)
	}
	return true, nil
}
