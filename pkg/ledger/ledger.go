// Package ledger persists per-stage failure queues between runs. Every
// failed unit of work is recorded with enough context to retry it without
// re-deriving anything, and a queue survives process restarts as a JSON
// file on disk. Clearing an entry is explicit: entries leave a queue only
// when a retry succeeds or an operator clears them.
package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fightdex/fightdex/pkg/errors"
)

const fileSuffix = ".json"

// Record is one persisted failure. Subject is the display name or URL that
// identifies the unit of work within its queue.
type Record struct {
	Subject     string    `json:"subject"`
	FighterID   string    `json:"fighter_id,omitempty"`
	Ref         string    `json:"ref,omitempty"`
	Source      string    `json:"source,omitempty"`
	Reason      string    `json:"reason"`
	Score       float64   `json:"score,omitempty"`
	Attempts    int       `json:"attempts"`
	LastAttempt time.Time `json:"last_attempt"`
}

// Ledger holds the failure queues for one data directory. One JSON file
// per queue; all mutation happens in memory and is persisted by Flush.
type Ledger struct {
	mu     sync.Mutex
	dir    string
	queues map[string][]Record
	dirty  map[string]bool
}

// Open loads all queues found under dir, creating the directory if needed.
func Open(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}

	l := &Ledger{
		dir:    dir,
		queues: make(map[string][]Record),
		dirty:  make(map[string]bool),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		queue := strings.TrimSuffix(name, fileSuffix)
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapIO("read", path, err)
		}
		var records []Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, errors.WrapIO("parse", path, err)
		}
		l.queues[queue] = records
	}
	return l, nil
}

// Add records a failure in a queue. Re-adding a subject already present
// updates its reason and bumps the attempt counter instead of duplicating
// the entry.
func (l *Ledger) Add(queue string, rec Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.LastAttempt.IsZero() {
		rec.LastAttempt = time.Now().UTC()
	}

	records := l.queues[queue]
	for i := range records {
		if records[i].Subject == rec.Subject {
			rec.Attempts = records[i].Attempts + 1
			records[i] = rec
			l.dirty[queue] = true
			return
		}
	}
	rec.Attempts = 1
	l.queues[queue] = append(records, rec)
	l.dirty[queue] = true
}

// Remove drops a subject from a queue, reporting whether it was present.
func (l *Ledger) Remove(queue, subject string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := l.queues[queue]
	for i := range records {
		if records[i].Subject == subject {
			l.queues[queue] = append(records[:i], records[i+1:]...)
			l.dirty[queue] = true
			return true
		}
	}
	return false
}

// Replace swaps a queue's contents wholesale. Used after a retry pass
// where the surviving failures are recomputed from scratch.
func (l *Ledger) Replace(queue string, records []Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.queues[queue] = append([]Record(nil), records...)
	l.dirty[queue] = true
}

// Records returns a copy of a queue's entries.
func (l *Ledger) Records(queue string) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Record(nil), l.queues[queue]...)
}

// Size returns the number of entries in a queue.
func (l *Ledger) Size(queue string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queues[queue])
}

// Counts returns the non-empty queues and their sizes.
func (l *Ledger) Counts() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]int, len(l.queues))
	for queue, records := range l.queues {
		if len(records) > 0 {
			out[queue] = len(records)
		}
	}
	return out
}

// Queues returns the known queue names, sorted.
func (l *Ledger) Queues() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, 0, len(l.queues))
	for queue := range l.queues {
		out = append(out, queue)
	}
	sort.Strings(out)
	return out
}

// Clear empties one queue.
func (l *Ledger) Clear(queue string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queues[queue]) == 0 {
		return
	}
	l.queues[queue] = nil
	l.dirty[queue] = true
}

// ClearAll empties every queue.
func (l *Ledger) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for queue, records := range l.queues {
		if len(records) == 0 {
			continue
		}
		l.queues[queue] = nil
		l.dirty[queue] = true
	}
}

// Flush persists every modified queue. Writes go through a temp file and
// an atomic rename so a crash mid-write never truncates a queue. An empty
// queue's file is removed rather than written as "[]".
func (l *Ledger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for queue := range l.dirty {
		path := filepath.Join(l.dir, queue+fileSuffix)
		records := l.queues[queue]

		if len(records) == 0 {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return errors.WrapIO("remove", path, err)
			}
			delete(l.dirty, queue)
			continue
		}

		data, err := json.MarshalIndent(records, "", "  ")
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
		delete(l.dirty, queue)
	}
	return nil
}
