package types

// EntryFailure records a single dependency that could not be brought to
// the locked state, together with the stage at which it failed.
type EntryFailure struct {
	ID      SkillID
	Stage   EntryStage
	Message string
}

// SourceFailure records a configured source that could not be queried
// during resolution. Resolution continues past unreachable sources as
// long as some source can still satisfy the dependency.
type SourceFailure struct {
	SourceName string
	Message    string
}

// Drift is a divergence between the lockfile and the skills directory
// detected by a status scan.
type Drift struct {
	ID   SkillID
	Kind DriftKind
}

// Report is the outcome of an install or update run. Succeeded and
// Failed partition the dependencies that were attempted; Skipped lists
// entries that were already locked at the requested version.
type Report struct {
	Status         OperationStatus
	Succeeded      []SkillID
	Skipped        []SkillID
	Failed         []EntryFailure
	SourceFailures []SourceFailure
}

// Failure returns true when at least one entry failed.
func (r Report) Failure() bool {
	return len(r.Failed) > 0
}
