package adapters

import (
	"github.com/gofastskill/fastskill/internal/ports"
	"github.com/gofastskill/fastskill/internal/types"
)

// ValidatorAdapter checks an installed skill tree: SKILL.md must exist
// at the root and carry parseable frontmatter with a name.
type ValidatorAdapter struct{}

func NewValidatorAdapter() ValidatorAdapter {
	return ValidatorAdapter{}
}

func (a ValidatorAdapter) Validate(installDir string, id types.SkillID) error {
	_, err := ReadSkillMeta(installDir)
	return err
}

var _ ports.ValidatorPort = ValidatorAdapter{}
