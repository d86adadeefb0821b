package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockfileSorted(t *testing.T) {
	lf := NewLockfile()
	now := time.Now().UTC()
	for _, id := range []SkillID{"zeta", "alpha", "mid"} {
		lf.Put(LockEntry{ID: id, Version: "1.0.0", SourceName: "main", SourceType: SourceTypeLocal, ResolvedAt: now})
	}

	got := lf.Sorted()
	ids := make([]SkillID, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []SkillID{"alpha", "mid", "zeta"}, ids)
}

func TestLockfilePutReplaces(t *testing.T) {
	lf := NewLockfile()
	lf.Put(LockEntry{ID: "code-review", Version: "1.0.0"})
	lf.Put(LockEntry{ID: "code-review", Version: "2.0.0"})

	entry, ok := lf.Get("code-review")
	assert.True(t, ok)
	assert.Equal(t, "2.0.0", entry.Version)
	assert.Len(t, lf.Entries, 1)
}

func TestLockfileRemove(t *testing.T) {
	lf := NewLockfile()
	lf.Put(LockEntry{ID: "code-review", Version: "1.0.0"})

	assert.True(t, lf.Remove("code-review"))
	assert.False(t, lf.Remove("code-review"))
	_, ok := lf.Get("code-review")
	assert.False(t, ok)
}
