package adapters

import (
	"fmt"
	"os"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"

	"github.com/gofastskill/fastskill/internal/ports"
	"github.com/gofastskill/fastskill/internal/types"
)

// ProjectFileAdapter reads and writes skill-project.toml. Dependencies
// are kept sorted by id so a load/save round trip is byte-stable.
type ProjectFileAdapter struct{}

func NewProjectFileAdapter() ProjectFileAdapter {
	return ProjectFileAdapter{}
}

func (a ProjectFileAdapter) LoadManifest(ctx types.ProjectContext) (types.Manifest, []types.RepositorySource, error) {
	raw, err := os.ReadFile(ctx.ProjectFilePath)
	if err != nil {
		return types.Manifest{}, nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to load skill-project.toml").
			WithCause(err)
	}
	var doc types.ProjectFile
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return types.Manifest{}, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse skill-project.toml").
			WithCause(err)
	}

	var manifest types.Manifest
	for name, value := range doc.Dependencies {
		spec, err := decodeDependency(name, value)
		if err != nil {
			return types.Manifest{}, nil, err
		}
		manifest.Dependencies = append(manifest.Dependencies, spec)
	}
	sort.Slice(manifest.Dependencies, func(i, j int) bool {
		return manifest.Dependencies[i].ID < manifest.Dependencies[j].ID
	})

	var sources []types.RepositorySource
	if doc.Tool != nil && doc.Tool.Fastskill != nil {
		sources = doc.Tool.Fastskill.Repositories
	}
	return manifest, sources, nil
}

// SaveManifest rewrites the [dependencies] table while leaving the rest
// of the document as previously loaded. The whole file is re-marshaled,
// so hand-written comments do not survive a save.
func (a ProjectFileAdapter) SaveManifest(ctx types.ProjectContext, manifest types.Manifest) error {
	raw, err := os.ReadFile(ctx.ProjectFilePath)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to load skill-project.toml").
			WithCause(err)
	}
	var doc types.ProjectFile
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse skill-project.toml").
			WithCause(err)
	}

	doc.Dependencies = map[string]any{}
	for _, dep := range manifest.Dependencies {
		doc.Dependencies[string(dep.ID)] = encodeDependency(dep)
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to serialize skill-project.toml").
			WithCause(err)
	}
	return writeFileAtomic(ctx.ProjectFilePath, out)
}

// decodeDependency converts one [dependencies] value. A bare string is
// a constraint; a table may carry version and source.
func decodeDependency(name string, value any) (types.DependencySpec, error) {
	id, err := types.ParseSkillID(name)
	if err != nil {
		return types.DependencySpec{}, err
	}
	switch v := value.(type) {
	case string:
		return types.DependencySpec{ID: id, Constraint: v}, nil
	case map[string]any:
		spec := types.DependencySpec{ID: id}
		if raw, ok := v["version"]; ok {
			constraint, ok := raw.(string)
			if !ok {
				return types.DependencySpec{}, badDependency(name)
			}
			spec.Constraint = constraint
		}
		if raw, ok := v["source"]; ok {
			source, ok := raw.(string)
			if !ok {
				return types.DependencySpec{}, badDependency(name)
			}
			spec.Source = source
		}
		return spec, nil
	default:
		return types.DependencySpec{}, badDependency(name)
	}
}

func encodeDependency(dep types.DependencySpec) any {
	if dep.Source == "" {
		constraint := dep.Constraint
		if constraint == "" {
			constraint = "*"
		}
		return constraint
	}
	table := map[string]any{"source": dep.Source}
	if dep.Constraint != "" {
		table["version"] = dep.Constraint
	}
	return table
}

func badDependency(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid dependency entry for %s: expected a constraint string or a table with version/source", name))
}

var _ ports.ProjectFilePort = ProjectFileAdapter{}
