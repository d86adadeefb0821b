package types

// SourceAuth configures credentials for a networked repository source.
// Secrets are never stored inline; they are read from the named
// environment variables at fetch time.
type SourceAuth struct {
	Type        string `toml:"type"`
	EnvVar      string `toml:"env_var,omitempty"`
	Username    string `toml:"username,omitempty"`
	PasswordEnv string `toml:"password_env,omitempty"`
}

// RepositorySource is one configured origin for skills. Which of the
// location fields is meaningful depends on Type:
//
//	git-marketplace: URL (+ optional Ref)
//	http-registry:   URL (index base)
//	archive-url:     URL (archive base)
//	local:           Path
//
// Lower Priority values are tried first. The set of sources is loaded
// once per operation and immutable afterwards.
type RepositorySource struct {
	Name     string      `toml:"name"`
	Type     SourceType  `toml:"type"`
	Priority int         `toml:"priority"`
	URL      string      `toml:"url,omitempty"`
	Ref      string      `toml:"ref,omitempty"`
	Path     string      `toml:"path,omitempty"`
	Auth     *SourceAuth `toml:"auth,omitempty"`
}

// FetchSpec tells the fetch layer how to obtain a candidate's raw
// content. Exactly one of the location fields is set, matching Kind.
type FetchSpec struct {
	Kind       SourceType
	GitURL     string
	GitRef     string
	ArchiveURL string
	LocalPath  string

	// Subdir selects the skill's directory inside a repository
	// checkout; empty when the fetched root is the skill itself.
	Subdir string
	Auth   *SourceAuth
}
