package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gofastskill/fastskill/internal/adapters"
	"github.com/gofastskill/fastskill/internal/core"
	"github.com/gofastskill/fastskill/internal/ports"
	"github.com/gofastskill/fastskill/internal/types"
)

const defaultInstallWorkers = 4

type Service struct {
	ProjectContext ports.ProjectContextPort
	ProjectFile    ports.ProjectFilePort
	LockStore      ports.LockStorePort
	Marketplace    ports.MarketplacePort
	RegistryAPI    ports.RegistryClientPort
	Local          ports.LocalSourcePort
	Fetcher        ports.FetchPort
	Extractor      ports.ExtractorPort
	Validator      ports.ValidatorPort
	Clock          func() time.Time
	Workers        int
}

func NewService() Service {
	git := adapters.NewGitCache(filepath.Join(os.TempDir(), "fastskill-git"), 0)
	return Service{
		ProjectContext: adapters.NewProjectContextAdapter(),
		ProjectFile:    adapters.NewProjectFileAdapter(),
		LockStore:      adapters.NewLockStoreAdapter(),
		Marketplace:    adapters.NewMarketplaceGitAdapter(git),
		RegistryAPI:    adapters.NewRegistryHTTPAdapter(0, 0, 0),
		Local:          adapters.NewLocalSourceAdapter(),
		Fetcher:        adapters.NewFetchAdapter(git, 0, 0, 0),
		Extractor:      adapters.NewExtractorAdapter(),
		Validator:      adapters.NewValidatorAdapter(),
		Clock:          time.Now,
		Workers:        defaultInstallWorkers,
	}
}

// loadProject resolves the project context, manifest, configured
// sources, and lockfile in one step, since every operation needs all
// four.
func (s Service) loadProject(startDir string) (types.ProjectContext, types.Manifest, core.Registry, types.Lockfile, error) {
	projectCtx, err := s.ProjectContext.Load(startDir)
	if err != nil {
		return types.ProjectContext{}, types.Manifest{}, core.Registry{}, types.Lockfile{}, err
	}
	manifest, sources, err := s.ProjectFile.LoadManifest(projectCtx)
	if err != nil {
		return types.ProjectContext{}, types.Manifest{}, core.Registry{}, types.Lockfile{}, err
	}
	registry, err := core.NewRegistry(s.Marketplace, s.RegistryAPI, s.Local, sources)
	if err != nil {
		return types.ProjectContext{}, types.Manifest{}, core.Registry{}, types.Lockfile{}, err
	}
	lock, err := s.LockStore.Load(projectCtx)
	if err != nil {
		return types.ProjectContext{}, types.Manifest{}, core.Registry{}, types.Lockfile{}, err
	}
	return projectCtx, manifest, registry, lock, nil
}

func (s Service) workerCount(requested int) int {
	if requested > 0 {
		return requested
	}
	if s.Workers > 0 {
		return s.Workers
	}
	return defaultInstallWorkers
}
