package app

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/gofastskill/fastskill/internal/types"
)

// Remove uninstalls a skill: its directory, its lock entry, and unless
// KeepManifest is set its declaration. Removing a skill that is neither
// locked nor declared is a no-op, not an error.
func (s Service) Remove(ctx context.Context, req RemoveRequest) (RemoveResult, error) {
	id, err := types.ParseSkillID(req.ID)
	if err != nil {
		return RemoveResult{}, err
	}

	projectCtx, err := s.ProjectContext.Load(req.StartDir)
	if err != nil {
		return RemoveResult{}, err
	}
	manifest, _, err := s.ProjectFile.LoadManifest(projectCtx)
	if err != nil {
		return RemoveResult{}, err
	}
	lock, err := s.LockStore.Load(projectCtx)
	if err != nil {
		return RemoveResult{}, err
	}

	result := RemoveResult{ID: id}

	installDir, err := guardInstallDir(projectCtx, id)
	if err != nil {
		return RemoveResult{}, err
	}
	if _, statErr := os.Stat(installDir); statErr == nil {
		if err := os.RemoveAll(installDir); err != nil {
			return RemoveResult{}, err
		}
		result.RemovedInstall = true
	}

	if lock.Remove(id) {
		lock.GeneratedAt = s.Clock()
		if err := s.LockStore.Save(projectCtx, lock); err != nil {
			return RemoveResult{}, err
		}
	}

	if !req.KeepManifest && manifest.Remove(id) {
		if err := s.ProjectFile.SaveManifest(projectCtx, manifest); err != nil {
			return RemoveResult{}, err
		}
		result.RemovedManifest = true
	}

	log.Ctx(ctx).Info().
		Str("skill", string(id)).
		Bool("removed_install", result.RemovedInstall).
		Bool("removed_manifest", result.RemovedManifest).
		Msg("removed")
	return result, nil
}
