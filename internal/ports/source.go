package ports

import (
	"context"

	"github.com/gofastskill/fastskill/internal/types"
)

// MarketplacePort lists skills advertised by a git-marketplace source:
// the catalog file at the repository root or under .claude-plugin/.
type MarketplacePort interface {
	List(ctx context.Context, source types.RepositorySource) ([]types.SkillListing, error)
}

// RegistryClientPort queries an http-registry source's flat JSON index.
type RegistryClientPort interface {
	List(ctx context.Context, source types.RepositorySource) ([]types.SkillListing, error)
}

// LocalSourcePort scans a local directory source for skills, one
// subdirectory per skill with a SKILL.md describing it.
type LocalSourcePort interface {
	List(ctx context.Context, source types.RepositorySource) ([]types.SkillListing, error)
}
