package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/gofastskill/fastskill/internal/types"
)

// Update re-resolves dependencies against the sources, ignoring locked
// versions, and prunes lock entries whose declaration is gone. With ids
// given, only those dependencies are refreshed and nothing is pruned.
func (s Service) Update(ctx context.Context, req UpdateRequest) (UpdateResult, error) {
	projectCtx, manifest, registry, lock, err := s.loadProject(req.StartDir)
	if err != nil {
		return UpdateResult{}, err
	}

	deps := manifest.Dependencies
	targeted := len(req.IDs) > 0
	if targeted {
		deps, err = selectDependencies(manifest, req.IDs)
		if err != nil {
			return UpdateResult{}, err
		}
	}

	report := types.Report{Status: types.StatusAllSucceeded}
	if len(deps) > 0 {
		report, err = s.runPipeline(ctx, projectCtx, registry, &lock, deps, s.workerCount(req.Parallel), true)
		if err != nil {
			return UpdateResult{}, err
		}
	}

	// Orphans are pruned only after a clean refresh pass, so a failed
	// pass never persists deletions alongside its failures.
	var removed []types.SkillID
	if !targeted && report.Status != types.StatusPartialFailure {
		removed = s.pruneOrphans(ctx, projectCtx, manifest, &lock)
		if len(removed) > 0 {
			lock.GeneratedAt = s.Clock()
			if err := s.LockStore.Save(projectCtx, lock); err != nil {
				return UpdateResult{}, err
			}
		}
	}

	if len(deps) == 0 && len(removed) == 0 {
		report.Status = types.StatusNoDependencies
	}
	return UpdateResult{Report: report, Removed: removed}, nil
}

// pruneOrphans drops lock entries that are no longer declared and
// removes their installed trees. A tree that fails to delete keeps its
// lock entry so the next update retries.
func (s Service) pruneOrphans(ctx context.Context, projectCtx types.ProjectContext, manifest types.Manifest, lock *types.Lockfile) []types.SkillID {
	var removed []types.SkillID
	for id := range lock.Entries {
		if _, ok := manifest.Get(id); ok {
			continue
		}
		installDir, err := guardInstallDir(projectCtx, id)
		if err != nil {
			log.Ctx(ctx).Warn().
				Str("skill", string(id)).
				Err(err).
				Msg("skipping orphan with unsafe install path")
			continue
		}
		if err := os.RemoveAll(installDir); err != nil {
			log.Ctx(ctx).Warn().
				Str("skill", string(id)).
				Err(err).
				Msg("failed to remove orphaned install")
			continue
		}
		lock.Remove(id)
		removed = append(removed, id)
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return removed
}

// guardInstallDir rejects ids whose install directory would fall
// outside the skills directory. Ids are validated at parse time, so
// this failing means the lockfile was edited by hand.
func guardInstallDir(projectCtx types.ProjectContext, id types.SkillID) (string, error) {
	dir := filepath.Join(projectCtx.SkillsDirectory, string(id))
	if filepath.Dir(dir) != filepath.Clean(projectCtx.SkillsDirectory) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg(fmt.Sprintf("refusing install path outside skills directory for %s", id))
	}
	return dir, nil
}
