package ports

import "github.com/gofastskill/fastskill/internal/types"

// LockStorePort persists skills-lock.toml. Load on a missing file
// returns an empty lockfile; Save writes atomically so a crash cannot
// leave a truncated file behind.
type LockStorePort interface {
	Load(ctx types.ProjectContext) (types.Lockfile, error)
	Save(ctx types.ProjectContext, lock types.Lockfile) error
}
