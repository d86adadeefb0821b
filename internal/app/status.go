package app

import (
	"context"
	"os"

	"github.com/gofastskill/fastskill/internal/core"
)

// Status reports the locked state against the manifest and the skills
// directory without touching the network.
func (s Service) Status(_ context.Context, req StatusRequest) (StatusResult, error) {
	projectCtx, err := s.ProjectContext.Load(req.StartDir)
	if err != nil {
		return StatusResult{}, err
	}
	manifest, _, err := s.ProjectFile.LoadManifest(projectCtx)
	if err != nil {
		return StatusResult{}, err
	}
	lock, err := s.LockStore.Load(projectCtx)
	if err != nil {
		return StatusResult{}, err
	}

	result := StatusResult{
		ProjectRoot: projectCtx.ProjectRoot,
		SkillsDir:   projectCtx.SkillsDirectory,
		Drifts:      core.DetectDrift(manifest, lock),
	}

	for _, entry := range lock.Sorted() {
		status := StatusEntry{Entry: entry}
		installDir, err := guardInstallDir(projectCtx, entry.ID)
		if err == nil {
			if _, statErr := os.Stat(installDir); statErr == nil {
				status.Installed = true
				if hash, hashErr := core.HashTree(installDir); hashErr == nil {
					status.Modified = !core.SameHash(hash, entry.ContentHash)
				}
			}
		}
		result.Entries = append(result.Entries, status)
	}
	return result, nil
}

// Sources lists the configured repository sources in priority order.
func (s Service) Sources(_ context.Context, req SourcesRequest) (SourcesResult, error) {
	projectCtx, err := s.ProjectContext.Load(req.StartDir)
	if err != nil {
		return SourcesResult{}, err
	}
	_, sources, err := s.ProjectFile.LoadManifest(projectCtx)
	if err != nil {
		return SourcesResult{}, err
	}
	registry, err := core.NewRegistry(s.Marketplace, s.RegistryAPI, s.Local, sources)
	if err != nil {
		return SourcesResult{}, err
	}
	return SourcesResult{Sources: registry.Sources()}, nil
}
