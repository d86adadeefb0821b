package types

// ProjectContext carries the validated project paths for one command
// invocation. It is constructed once by the project loader and passed
// by value to every component; nothing re-derives these paths from the
// process working directory.
type ProjectContext struct {
	// ProjectRoot is the directory containing the project file.
	ProjectRoot string

	// ProjectFilePath is the absolute path to skill-project.toml.
	ProjectFilePath string

	// SkillsDirectory is the managed installation directory, always
	// absolute (relative values are resolved against ProjectRoot).
	SkillsDirectory string
}
