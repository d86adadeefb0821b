package types

// SourceType identifies one of the four supported repository kinds.
// The set is closed: dispatch sites switch exhaustively on it.
type SourceType string

const (
	SourceTypeGitMarketplace SourceType = "git-marketplace"
	SourceTypeHTTPRegistry   SourceType = "http-registry"
	SourceTypeArchiveURL     SourceType = "archive-url"
	SourceTypeLocal          SourceType = "local"
)

// KnownSourceType reports whether value names a supported repository kind.
func KnownSourceType(value SourceType) bool {
	switch value {
	case SourceTypeGitMarketplace, SourceTypeHTTPRegistry, SourceTypeArchiveURL, SourceTypeLocal:
		return true
	default:
		return false
	}
}

// EntryStage is the per-dependency pipeline position. Locked and Failed
// are terminal.
type EntryStage string

const (
	StagePending    EntryStage = "pending"
	StageResolving  EntryStage = "resolving"
	StageFetching   EntryStage = "fetching"
	StageExtracting EntryStage = "extracting"
	StageValidating EntryStage = "validating"
	StageLocked     EntryStage = "locked"
	StageFailed     EntryStage = "failed"
)

// DriftKind classifies a manifest/lockfile mismatch.
type DriftKind string

const (
	DriftMissing       DriftKind = "missing"
	DriftOrphaned      DriftKind = "orphaned"
	DriftSourceChanged DriftKind = "source-changed"
)

// OperationStatus summarizes a whole install/update/remove pass.
type OperationStatus string

const (
	StatusAllSucceeded   OperationStatus = "all-succeeded"
	StatusPartialFailure OperationStatus = "partial-failure"
	StatusNoDependencies OperationStatus = "no-dependencies"
)

type ConstraintOp string

const (
	ConstraintOpNone   ConstraintOp = ""
	ConstraintOpEq     ConstraintOp = "="
	ConstraintOpEq2    ConstraintOp = "=="
	ConstraintOpNe     ConstraintOp = "!="
	ConstraintOpCompat ConstraintOp = "~="
	ConstraintOpGte    ConstraintOp = ">="
	ConstraintOpLte    ConstraintOp = "<="
	ConstraintOpGt     ConstraintOp = ">"
	ConstraintOpLt     ConstraintOp = "<"
)
