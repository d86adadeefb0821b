package types

// SkillMeta is the YAML frontmatter of a SKILL.md file. Only the
// fields the resolver needs are decoded; unknown keys are ignored.
type SkillMeta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Version     string `yaml:"version,omitempty"`
}
