package app

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofastskill/fastskill/internal/types"
)

// testProject scaffolds a project with one local source directory and
// the given [dependencies] block.
type testProject struct {
	Root      string
	SourceDir string
}

func newTestProject(t *testing.T, dependencies string) testProject {
	t.Helper()
	root := t.TempDir()
	sourceDir := t.TempDir()
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
	return testProject{Root: root, SourceDir: sourceDir}
}

func (p testProject) addSkill(t *testing.T, id string, version string) {
	t.Helper()
	dir := filepath.Join(p.SourceDir, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	frontmatter := fmt.Sprintf("---\nname: %s\nversion: %s\n---\n# %s\n", id, version, id)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(frontmatter), 0o644))
}

func newTestService() Service {
	service := NewService()
	service.Clock = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return service
}

func TestInstallAllSucceed(t *testing.T) {
	project := newTestProject(t, "code-review = \"*\"\npdf-tools = \"*\"")
	project.addSkill(t, "code-review", "1.2.0")
	project.addSkill(t, "pdf-tools", "2.0.0")
	service := newTestService()

	result, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)
	assert.Equal(t, types.StatusAllSucceeded, result.Report.Status)
	assert.Equal(t, []types.SkillID{"code-review", "pdf-tools"}, result.Report.Succeeded)
	assert.FileExists(t, filepath.Join(project.Root, "skills", "code-review", "SKILL.md"))
	assert.FileExists(t, filepath.Join(project.Root, "skills-lock.toml"))

	status, err := service.Status(t.Context(), StatusRequest{StartDir: project.Root})
	require.NoError(t, err)
	require.Len(t, status.Entries, 2)
	assert.Empty(t, status.Drifts)
	for _, entry := range status.Entries {
		assert.True(t, entry.Installed)
		assert.False(t, entry.Modified)
	}
}

func TestInstallPartialFailureLocksSurvivors(t *testing.T) {
	project := newTestProject(t, "code-review = \"*\"\nghost = \"*\"")
	project.addSkill(t, "code-review", "1.0.0")
	service := newTestService()

	result, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)
	assert.Equal(t, types.StatusPartialFailure, result.Report.Status)
	assert.Equal(t, []types.SkillID{"code-review"}, result.Report.Succeeded)
	require.Len(t, result.Report.Failed, 1)
	assert.Equal(t, types.SkillID("ghost"), result.Report.Failed[0].ID)
	assert.Equal(t, types.StageResolving, result.Report.Failed[0].Stage)

	// The survivor still made it into the lockfile.
	status, err := service.Status(t.Context(), StatusRequest{StartDir: project.Root})
	require.NoError(t, err)
	require.Len(t, status.Entries, 1)
	assert.Equal(t, types.SkillID("code-review"), status.Entries[0].Entry.ID)
}

func TestInstallIsIdempotent(t *testing.T) {
	project := newTestProject(t, "code-review = \"*\"")
	project.addSkill(t, "code-review", "1.0.0")
	service := newTestService()

	first, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)
	assert.Equal(t, []types.SkillID{"code-review"}, first.Report.Succeeded)

	second, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)
	assert.Empty(t, second.Report.Succeeded)
	assert.Equal(t, []types.SkillID{"code-review"}, second.Report.Skipped)
}

func TestInstallRepeatLeavesLockfileBytesUntouched(t *testing.T) {
	project := newTestProject(t, "code-review = \"*\"")
	project.addSkill(t, "code-review", "1.0.0")
	service := newTestService()

	// A ticking clock, so a re-stamped generated_at would show up.
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	service.Clock = func() time.Time {
		now = now.Add(time.Second)
		return now
	}

	_, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)
	lockPath := filepath.Join(project.Root, "skills-lock.toml")
	first, err := os.ReadFile(lockPath)
	require.NoError(t, err)

	_, err = service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)
	second, err := os.ReadFile(lockPath)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestInstallParallelMixedSkipAndInstall(t *testing.T) {
	var only []string
	var all string
	for i := 0; i < 16; i++ {
		id := fmt.Sprintf("skill-%02d", i)
		all += fmt.Sprintf("%s = \"*\"\n", id)
		if i%2 == 0 {
			only = append(only, id)
		}
	}
	project := newTestProject(t, all)
	for i := 0; i < 16; i++ {
		project.addSkill(t, fmt.Sprintf("skill-%02d", i), "1.0.0")
	}
	service := newTestService()

	first, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root, Only: only, Parallel: 8})
	require.NoError(t, err)
	assert.Len(t, first.Report.Succeeded, 8)

	// Half skip, half install, across 8 workers at once.
	second, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root, Parallel: 8})
	require.NoError(t, err)
	assert.Equal(t, types.StatusAllSucceeded, second.Report.Status)
	assert.Len(t, second.Report.Succeeded, 8)
	assert.Len(t, second.Report.Skipped, 8)

	status, err := service.Status(t.Context(), StatusRequest{StartDir: project.Root})
	require.NoError(t, err)
	assert.Len(t, status.Entries, 16)
}

func TestInstallReinstallsTamperedSkill(t *testing.T) {
	project := newTestProject(t, "code-review = \"*\"")
	project.addSkill(t, "code-review", "1.0.0")
	service := newTestService()

	_, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)

	tampered := filepath.Join(project.Root, "skills", "code-review", "SKILL.md")
	require.NoError(t, os.WriteFile(tampered, []byte("---\nname: hacked\n---\n"), 0o644))

	result, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)
	assert.Equal(t, []types.SkillID{"code-review"}, result.Report.Succeeded)

	raw, err := os.ReadFile(tampered)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hacked")
}

func TestInstallOnlyFilter(t *testing.T) {
	project := newTestProject(t, "code-review = \"*\"\npdf-tools = \"*\"")
	project.addSkill(t, "code-review", "1.0.0")
	project.addSkill(t, "pdf-tools", "1.0.0")
	service := newTestService()

	result, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root, Only: []string{"code-review"}})
	require.NoError(t, err)
	assert.Equal(t, []types.SkillID{"code-review"}, result.Report.Succeeded)
	assert.NoDirExists(t, filepath.Join(project.Root, "skills", "pdf-tools"))
}

func TestInstallOnlyUndeclared(t *testing.T) {
	project := newTestProject(t, "code-review = \"*\"")
	service := newTestService()

	_, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root, Only: []string{"mystery"}})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestInstallNoDependencies(t *testing.T) {
	project := newTestProject(t, "")
	service := newTestService()

	result, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)
	assert.Equal(t, types.StatusNoDependencies, result.Report.Status)
}

func TestInstallConstraintFiltersVersions(t *testing.T) {
	project := newTestProject(t, "code-review = \">=2.0\"")
	project.addSkill(t, "code-review", "1.0.0")
	service := newTestService()

	result, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)
	assert.Equal(t, types.StatusPartialFailure, result.Report.Status)
	require.Len(t, result.Report.Failed, 1)
	assert.Equal(t, types.StageResolving, result.Report.Failed[0].Stage)
}
