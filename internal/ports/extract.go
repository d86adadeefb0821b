package ports

import (
	"context"

	"github.com/gofastskill/fastskill/internal/types"
)

// ExtractorPort installs a fetched payload into the skills directory
// under the skill's id. Installation is atomic from the point of view
// of the destination: either the new tree fully replaces any prior
// install, or the prior install is left untouched.
type ExtractorPort interface {
	Install(ctx context.Context, payload Payload, skillsDir string, id types.SkillID) (string, error)
}

// ValidatorPort checks an installed skill tree before it is locked.
type ValidatorPort interface {
	Validate(installDir string, id types.SkillID) error
}
