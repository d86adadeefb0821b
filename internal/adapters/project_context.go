package adapters

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"

	"github.com/gofastskill/fastskill/internal/ports"
	"github.com/gofastskill/fastskill/internal/types"
)

// ProjectFileName is the manifest file every project must carry.
const ProjectFileName = "skill-project.toml"

// SkillFileName marks a skill directory. A project file sitting next to
// one is skill-level and never usable as a project root.
const SkillFileName = "SKILL.md"

// ProjectContextAdapter locates and validates the project. It fails
// rather than guesses: no fallback roots, no implicit skills directory.
type ProjectContextAdapter struct{}

func NewProjectContextAdapter() ProjectContextAdapter {
	return ProjectContextAdapter{}
}

// Load walks from startDir upwards looking for skill-project.toml,
// rejects skill-level files, and requires [tool.fastskill] with
// skills_directory. A relative skills_directory resolves against the
// project root.
func (a ProjectContextAdapter) Load(startDir string) (types.ProjectContext, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return types.ProjectContext{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to resolve working directory").
			WithCause(err)
	}

	projectRoot, found := findProjectRoot(absStart)
	if !found {
		return types.ProjectContext{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("skill-project.toml not found in this directory or any parent. " +
				"Run from within a project, or create skill-project.toml at the project root.")
	}

	if _, err := os.Stat(filepath.Join(projectRoot, SkillFileName)); err == nil {
		return types.ProjectContext{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("skill-project.toml here is for a skill (same directory as SKILL.md). " +
				"Run from the project root: a project-level skill-project.toml " +
				"declares [tool.fastskill] with skills_directory.")
	}

	projectFilePath := filepath.Join(projectRoot, ProjectFileName)
	raw, err := os.ReadFile(projectFilePath)
	if err != nil {
		return types.ProjectContext{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to load skill-project.toml").
			WithCause(err)
	}
	var doc types.ProjectFile
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return types.ProjectContext{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse skill-project.toml").
			WithCause(err)
	}

	if doc.Tool == nil || doc.Tool.Fastskill == nil || doc.Tool.Fastskill.SkillsDirectory == "" {
		return types.ProjectContext{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project-level skill-project.toml requires [tool.fastskill] with skills_directory. " +
				"Add it explicitly; there is no default.")
	}

	skillsDir := doc.Tool.Fastskill.SkillsDirectory
	if !filepath.IsAbs(skillsDir) {
		skillsDir = filepath.Join(projectRoot, skillsDir)
	}

	return types.ProjectContext{
		ProjectRoot:     projectRoot,
		ProjectFilePath: projectFilePath,
		SkillsDirectory: skillsDir,
	}, nil
}

// findProjectRoot walks up from dir until a skill-project.toml is found
// or the filesystem root is reached.
func findProjectRoot(dir string) (string, bool) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

var _ ports.ProjectContextPort = ProjectContextAdapter{}
