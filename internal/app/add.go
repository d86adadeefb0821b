package app

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/gofastskill/fastskill/internal/core"
	"github.com/gofastskill/fastskill/internal/types"
)

// Add declares a new dependency after verifying it resolves, then
// installs it unless NoInstall is set. The declaration is only written
// once resolution has succeeded, so a typo never lands in the project
// file.
func (s Service) Add(ctx context.Context, req AddRequest) (AddResult, error) {
	id, err := types.ParseSkillID(req.ID)
	if err != nil {
		return AddResult{}, err
	}
	if _, err := core.ParseConstraint(req.Constraint); err != nil {
		return AddResult{}, err
	}

	projectCtx, manifest, registry, lock, err := s.loadProject(req.StartDir)
	if err != nil {
		return AddResult{}, err
	}

	if _, ok := manifest.Get(id); ok {
		return AddResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("skill %s is already declared, remove it first to change its constraint", id))
	}

	spec := types.DependencySpec{ID: id, Constraint: req.Constraint, Source: req.Source}
	resolver := core.NewResolver(registry)
	candidate, _, err := resolver.Resolve(ctx, spec)
	if err != nil {
		return AddResult{}, err
	}

	manifest.Add(spec)
	if err := s.ProjectFile.SaveManifest(projectCtx, manifest); err != nil {
		return AddResult{}, err
	}

	result := AddResult{ID: id, Version: candidate.Version}
	if req.NoInstall {
		return result, nil
	}

	report, err := s.runPipeline(ctx, projectCtx, registry, &lock, []types.DependencySpec{spec}, 1, false)
	if err != nil {
		return AddResult{}, err
	}
	result.Report = report
	return result, nil
}
