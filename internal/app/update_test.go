package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofastskill/fastskill/internal/types"
)

func TestUpdatePicksNewVersion(t *testing.T) {
	project := newTestProject(t, "code-review = \"*\"")
	project.addSkill(t, "code-review", "1.0.0")
	service := newTestService()

	_, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)

	// Source now carries a newer release.
	project.addSkill(t, "code-review", "2.0.0")

	result, err := service.Update(t.Context(), UpdateRequest{StartDir: project.Root})
	require.NoError(t, err)
	assert.Equal(t, []types.SkillID{"code-review"}, result.Report.Succeeded)

	status, err := service.Status(t.Context(), StatusRequest{StartDir: project.Root})
	require.NoError(t, err)
	require.Len(t, status.Entries, 1)
	assert.Equal(t, "2.0.0", status.Entries[0].Entry.Version)
}

func TestUpdatePrunesOrphans(t *testing.T) {
	project := newTestProject(t, "code-review = \"*\"\npdf-tools = \"*\"")
	project.addSkill(t, "code-review", "1.0.0")
	project.addSkill(t, "pdf-tools", "1.0.0")
	service := newTestService()

	_, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)

	// Drop pdf-tools from the manifest.
	raw, err := os.ReadFile(filepath.Join(project.Root, "skill-project.toml"))
	require.NoError(t, err)
	trimmed := strings.ReplaceAll(string(raw), "pdf-tools = \"*\"\n", "")
	require.NoError(t, os.WriteFile(filepath.Join(project.Root, "skill-project.toml"), []byte(trimmed), 0o644))

	result, err := service.Update(t.Context(), UpdateRequest{StartDir: project.Root})
	require.NoError(t, err)
	assert.Equal(t, []types.SkillID{"pdf-tools"}, result.Removed)
	assert.NoDirExists(t, filepath.Join(project.Root, "skills", "pdf-tools"))

	status, err := service.Status(t.Context(), StatusRequest{StartDir: project.Root})
	require.NoError(t, err)
	require.Len(t, status.Entries, 1)
	assert.Equal(t, types.SkillID("code-review"), status.Entries[0].Entry.ID)
	assert.Empty(t, status.Drifts)
}

func TestUpdateFailedPassKeepsOrphans(t *testing.T) {
	project := newTestProject(t, "code-review = \"*\"\npdf-tools = \"*\"")
	project.addSkill(t, "code-review", "1.0.0")
	project.addSkill(t, "pdf-tools", "1.0.0")
	service := newTestService()

	_, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)

	// pdf-tools becomes an orphan, and the remaining declared skill
	// vanishes from the source so the refresh pass fails.
	raw, err := os.ReadFile(filepath.Join(project.Root, "skill-project.toml"))
	require.NoError(t, err)
	trimmed := strings.ReplaceAll(string(raw), "pdf-tools = \"*\"\n", "")
	require.NoError(t, os.WriteFile(filepath.Join(project.Root, "skill-project.toml"), []byte(trimmed), 0o644))
	require.NoError(t, os.RemoveAll(filepath.Join(project.SourceDir, "code-review")))

	result, err := service.Update(t.Context(), UpdateRequest{StartDir: project.Root})
	require.NoError(t, err)
	assert.Equal(t, types.StatusPartialFailure, result.Report.Status)
	assert.Empty(t, result.Removed)
	assert.DirExists(t, filepath.Join(project.Root, "skills", "pdf-tools"))

	status, err := service.Status(t.Context(), StatusRequest{StartDir: project.Root})
	require.NoError(t, err)
	require.Len(t, status.Entries, 2)
}

func TestUpdateTargetedLeavesOthersAlone(t *testing.T) {
	project := newTestProject(t, "code-review = \"*\"\npdf-tools = \"*\"")
	project.addSkill(t, "code-review", "1.0.0")
	project.addSkill(t, "pdf-tools", "1.0.0")
	service := newTestService()

	_, err := service.Install(t.Context(), InstallRequest{StartDir: project.Root})
	require.NoError(t, err)

	project.addSkill(t, "code-review", "2.0.0")
	project.addSkill(t, "pdf-tools", "2.0.0")

	result, err := service.Update(t.Context(), UpdateRequest{StartDir: project.Root, IDs: []string{"code-review"}})
	require.NoError(t, err)
	assert.Equal(t, []types.SkillID{"code-review"}, result.Report.Succeeded)

	status, err := service.Status(t.Context(), StatusRequest{StartDir: project.Root})
	require.NoError(t, err)
	versions := map[types.SkillID]string{}
	for _, entry := range status.Entries {
		versions[entry.Entry.ID] = entry.Entry.Version
	}
	assert.Equal(t, "2.0.0", versions["code-review"])
	assert.Equal(t, "1.0.0", versions["pdf-tools"])
}

