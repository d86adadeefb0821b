package types

// SkillListing is one skill as advertised by a source: the raw material
// the resolver filters by id and version constraint.
type SkillListing struct {
	ID          SkillID
	Name        string
	Description string
	Version     string

	// DownloadURL is set for registry listings; Path locates the skill
	// inside a repository checkout or on the local filesystem. Digest
	// carries an advertised sha256, when the source publishes one.
	DownloadURL string
	Path        string
	Digest      string
}

// Candidate is a resolver's proposed fetch target for a dependency.
// It is transient: produced by resolution, consumed by the fetch step,
// never persisted.
type Candidate struct {
	SourceName string
	SourceType SourceType
	Version    string
	Fetch      FetchSpec

	// ContentHash is set when the source advertises a digest upfront
	// (http-registry); empty otherwise and computed after extraction.
	ContentHash string
}
