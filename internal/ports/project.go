package ports

import "github.com/gofastskill/fastskill/internal/types"

// ProjectContextPort locates the project root and resolves the skills
// directory. Loading fails rather than guessing: no project file, a
// skill-level directory, or a missing skills_directory key are all hard
// errors.
type ProjectContextPort interface {
	Load(startDir string) (types.ProjectContext, error)
}

// ProjectFilePort reads and writes skill-project.toml.
type ProjectFilePort interface {
	LoadManifest(ctx types.ProjectContext) (types.Manifest, []types.RepositorySource, error)
	SaveManifest(ctx types.ProjectContext, manifest types.Manifest) error
}
