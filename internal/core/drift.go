package core

import (
	"sort"

	"github.com/gofastskill/fastskill/internal/types"
)

// DetectDrift compares the manifest against the lockfile and reports
// every divergence: declared dependencies without a lock entry, lock
// entries no longer declared, and entries whose pinned source no longer
// matches the declaration. Results are sorted by id.
func DetectDrift(manifest types.Manifest, lock types.Lockfile) []types.Drift {
	var out []types.Drift

	for _, dep := range manifest.Dependencies {
		entry, ok := lock.Get(dep.ID)
		if !ok {
			out = append(out, types.Drift{ID: dep.ID, Kind: types.DriftMissing})
			continue
		}
		if dep.Source != "" && dep.Source != entry.SourceName {
			out = append(out, types.Drift{ID: dep.ID, Kind: types.DriftSourceChanged})
		}
	}

	for id := range lock.Entries {
		if _, ok := manifest.Get(id); !ok {
			out = append(out, types.Drift{ID: id, Kind: types.DriftOrphaned})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}
