// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// BuildBinary compiles the fastskill binary into a temp directory and
// returns its path. The binary is rebuilt per test, which keeps tests
// independent at the cost of a few seconds.
func BuildBinary(t *testing.T) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "fastskill")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/fastskill")
	cmd.Dir = RepoRoot(t)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return bin
}

// WriteSkill scaffolds a skill directory with a SKILL.md frontmatter
// under sourceDir, as a local source would serve it.
func WriteSkill(t *testing.T, sourceDir, id, version string) {
	t.Helper()
	dir := filepath.Join(sourceDir, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	frontmatter := fmt.Sprintf("---\nname: %s\nversion: %s\n---\n# %s\n", id, version, id)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(frontmatter), 0o644))
}

// WriteProjectFile writes a skill-project.toml into root declaring the
// given dependencies block and a single local source backed by sourceDir.
func WriteProjectFile(t *testing.T, root, sourceDir, dependencies string) {
	t.Helper()
	content := fmt.Sprintf(`[metadata]
name = "demo"

[dependencies]
%s

[tool.fastskill]
skills_directory = "skills"

[[tool.fastskill.repositories]]
name = "workspace"
type = "local"
priority = 0
path = %q
`, dependencies, sourceDir)
	require.NoError(t, os.WriteFile(filepath.Join(root, "skill-project.toml"), []byte(content), 0o644))
}
