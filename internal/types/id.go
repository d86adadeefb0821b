package types

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// SkillID is a validated skill identifier. Values are only produced by
// ParseSkillID; the rest of the codebase never assembles one from raw
// string concatenation.
type SkillID string

const maxSkillIDLength = 64

// ParseSkillID validates a raw identifier: lowercase alphanumerics plus
// '-' and '_', starting with an alphanumeric, at most 64 characters.
func ParseSkillID(raw string) (SkillID, error) {
	if raw == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("skill id is empty")
	}
	if len(raw) > maxSkillIDLength {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("skill id exceeds %d characters: %s", maxSkillIDLength, raw))
	}
	for i, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
			if i == 0 {
				return "", errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("skill id must start with a lowercase letter or digit: %s", raw))
			}
		default:
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("skill id contains invalid character %q: %s", r, raw))
		}
	}
	return SkillID(raw), nil
}

func (id SkillID) String() string {
	return string(id)
}
