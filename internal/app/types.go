package app

import "github.com/gofastskill/fastskill/internal/types"

type InstallRequest struct {
	StartDir string
	Parallel int
	Only     []string
}

type InstallResult struct {
	Report types.Report
}

type UpdateRequest struct {
	StartDir string
	Parallel int
	IDs      []string
}

type UpdateResult struct {
	Report  types.Report
	Removed []types.SkillID
}

type RemoveRequest struct {
	StartDir     string
	ID           string
	KeepManifest bool
}

type RemoveResult struct {
	ID              types.SkillID
	RemovedInstall  bool
	RemovedManifest bool
}

type AddRequest struct {
	StartDir   string
	ID         string
	Constraint string
	Source     string
	NoInstall  bool
	Parallel   int
}

type AddResult struct {
	ID      types.SkillID
	Version string
	Report  types.Report
}

type StatusRequest struct {
	StartDir string
}

// StatusEntry is one locked skill with its on-disk state.
type StatusEntry struct {
	Entry     types.LockEntry
	Installed bool
	Modified  bool
}

type StatusResult struct {
	ProjectRoot string
	SkillsDir   string
	Entries     []StatusEntry
	Drifts      []types.Drift
}

type SourcesRequest struct {
	StartDir string
}

type SourcesResult struct {
	Sources []types.RepositorySource
}
