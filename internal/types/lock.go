package types

import (
	"sort"
	"time"
)

// LockEntry records one resolved, installed dependency with enough
// identity to reproduce the install: where it came from, which version
// was selected, and a digest over the extracted tree.
type LockEntry struct {
	ID          SkillID
	Version     string
	SourceName  string
	SourceType  SourceType
	ContentHash string
	ResolvedAt  time.Time
}

// Lockfile is the recorded installed state, keyed by skill id. The
// on-disk skills directory is a cache that can always be rebuilt from
// it.
type Lockfile struct {
	GeneratedAt time.Time
	Entries     map[SkillID]LockEntry
}

// NewLockfile returns an empty lockfile.
func NewLockfile() Lockfile {
	return Lockfile{Entries: map[SkillID]LockEntry{}}
}

// Get returns the lock entry for id, if present.
func (l Lockfile) Get(id SkillID) (LockEntry, bool) {
	entry, ok := l.Entries[id]
	return entry, ok
}

// Put inserts or replaces the entry for entry.ID.
func (l *Lockfile) Put(entry LockEntry) {
	if l.Entries == nil {
		l.Entries = map[SkillID]LockEntry{}
	}
	l.Entries[entry.ID] = entry
}

// Remove drops the entry for id, reporting whether one existed.
func (l *Lockfile) Remove(id SkillID) bool {
	if _, ok := l.Entries[id]; !ok {
		return false
	}
	delete(l.Entries, id)
	return true
}

// Sorted returns the entries ordered by skill id. Persistence uses this
// ordering so the serialized lockfile is independent of map iteration
// and worker completion order.
func (l Lockfile) Sorted() []LockEntry {
	entries := make([]LockEntry, 0, len(l.Entries))
	for _, entry := range l.Entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries
}
