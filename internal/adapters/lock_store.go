package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"

	"github.com/gofastskill/fastskill/internal/ports"
	"github.com/gofastskill/fastskill/internal/types"
)

// LockFileName is the lockfile written next to skill-project.toml.
const LockFileName = "skills-lock.toml"

// LockStoreAdapter persists skills-lock.toml. Saves go through a temp
// file, fsync, and rename so a crash leaves either the old or the new
// lockfile, never a truncated one.
type LockStoreAdapter struct{}

func NewLockStoreAdapter() LockStoreAdapter {
	return LockStoreAdapter{}
}

func (a LockStoreAdapter) Load(ctx types.ProjectContext) (types.Lockfile, error) {
	path := filepath.Join(ctx.ProjectRoot, LockFileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.NewLockfile(), nil
		}
		return types.Lockfile{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read skills-lock.toml").
			WithCause(err)
	}
	var doc types.LockFileDoc
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return types.Lockfile{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse skills-lock.toml").
			WithCause(err)
	}
	if doc.Version > types.LockSchemaVersion {
		return types.Lockfile{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("skills-lock.toml schema version %d is newer than supported %d", doc.Version, types.LockSchemaVersion))
	}

	lock := types.NewLockfile()
	if doc.GeneratedAt != "" {
		if generated, err := time.Parse(time.RFC3339, doc.GeneratedAt); err == nil {
			lock.GeneratedAt = generated
		}
	}
	for _, entry := range doc.Skills {
		id, err := types.ParseSkillID(entry.ID)
		if err != nil {
			return types.Lockfile{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("skills-lock.toml contains invalid skill id %q", entry.ID)).
				WithCause(err)
		}
		resolvedAt, _ := time.Parse(time.RFC3339, entry.ResolvedAt)
		lock.Put(types.LockEntry{
			ID:          id,
			Version:     entry.Version,
			SourceName:  entry.SourceName,
			SourceType:  types.SourceType(entry.SourceType),
			ContentHash: entry.ContentHash,
			ResolvedAt:  resolvedAt,
		})
	}
	return lock, nil
}

func (a LockStoreAdapter) Save(ctx types.ProjectContext, lock types.Lockfile) error {
	doc := types.LockFileDoc{
		Version:     types.LockSchemaVersion,
		GeneratedAt: lock.GeneratedAt.UTC().Format(time.RFC3339),
	}
	for _, entry := range lock.Sorted() {
		doc.Skills = append(doc.Skills, types.LockEntryDoc{
			ID:          string(entry.ID),
			Version:     entry.Version,
			SourceName:  entry.SourceName,
			SourceType:  string(entry.SourceType),
			ContentHash: entry.ContentHash,
			ResolvedAt:  entry.ResolvedAt.UTC().Format(time.RFC3339),
		})
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to serialize skills-lock.toml").
			WithCause(err)
	}
	return writeFileAtomic(filepath.Join(ctx.ProjectRoot, LockFileName), out)
}

// writeFileAtomic writes data to a sibling temp file, syncs it, and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create temp file").
			WithCause(err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write temp file").
			WithCause(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to sync temp file").
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to close temp file").
			WithCause(err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to replace %s", filepath.Base(path))).
			WithCause(err)
	}
	return nil
}

var _ ports.LockStorePort = LockStoreAdapter{}
