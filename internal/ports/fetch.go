package ports

import (
	"context"

	"github.com/gofastskill/fastskill/internal/types"
)

// FetchPort materializes a resolved candidate as a payload on disk.
// The returned path is either a directory tree or a downloaded archive
// file; cleanup releases any temporary state it created.
type FetchPort interface {
	Fetch(ctx context.Context, id types.SkillID, spec types.FetchSpec) (Payload, error)
}

// Payload is the fetched form of a skill before extraction.
type Payload struct {
	// Path points at a directory when IsArchive is false, or at a zip
	// file when it is true.
	Path      string
	IsArchive bool

	// Subdir selects the skill's directory inside a fetched repository
	// checkout; empty when Path already is the skill root.
	Subdir string

	// Cleanup removes temporary files backing the payload. Always
	// non-nil.
	Cleanup func()
}
