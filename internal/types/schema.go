package types

// On-disk document shapes for skill-project.toml and skills-lock.toml.
// These mirror the file layout exactly; conversion to the in-memory
// Manifest and Lockfile types happens in the adapters.

// ProjectMetadata is the optional [metadata] table of skill-project.toml.
type ProjectMetadata struct {
	Name        string `toml:"name,omitempty"`
	Description string `toml:"description,omitempty"`
}

// ToolConfig is the [tool.fastskill] table. SkillsDirectory is
// required; a project file without it is rejected outright.
type ToolConfig struct {
	SkillsDirectory string             `toml:"skills_directory"`
	Repositories    []RepositorySource `toml:"repositories,omitempty"`
}

// ToolSection wraps ToolConfig under the [tool] table.
type ToolSection struct {
	Fastskill *ToolConfig `toml:"fastskill"`
}

// ProjectFile is the full skill-project.toml document. A dependency
// value is either a bare constraint string or a table with version and
// source keys, so Dependencies stays untyped until the adapter converts
// it.
type ProjectFile struct {
	Metadata     ProjectMetadata `toml:"metadata,omitempty"`
	Dependencies map[string]any  `toml:"dependencies,omitempty"`
	Tool         *ToolSection    `toml:"tool"`
}

// LockEntryDoc is one [[skills]] entry of skills-lock.toml.
type LockEntryDoc struct {
	ID          string `toml:"id"`
	Version     string `toml:"version"`
	SourceName  string `toml:"source_name"`
	SourceType  string `toml:"source_type"`
	ContentHash string `toml:"content_hash"`
	ResolvedAt  string `toml:"resolved_at"`
}

// LockFileDoc is the full skills-lock.toml document. Skills is kept
// sorted by id so the serialized file is stable across runs.
type LockFileDoc struct {
	Version     int            `toml:"version"`
	GeneratedAt string         `toml:"generated_at"`
	Skills      []LockEntryDoc `toml:"skills"`
}

// LockSchemaVersion is the current skills-lock.toml schema version.
const LockSchemaVersion = 1
