package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofastskill/fastskill/internal/types"
)

func projectContextWith(t *testing.T, content string) types.ProjectContext {
	t.Helper()
	root := t.TempDir()
	writeProjectFile(t, root, content)
	return types.ProjectContext{
		ProjectRoot:     root,
		ProjectFilePath: filepath.Join(root, ProjectFileName),
		SkillsDirectory: filepath.Join(root, "skills"),
	}
}

func TestLoadManifest(t *testing.T) {
	ctx := projectContextWith(t, `[dependencies]
code-review = ">=1.0"
pdf-tools = { version = "~=2.1", source = "mirror" }
unpinned = "*"

[tool.fastskill]
skills_directory = "skills"

[[tool.fastskill.repositories]]
name = "main"
type = "git-marketplace"
priority = 0
url = "https://example.com/market.git"

[[tool.fastskill.repositories]]
name = "mirror"
type = "http-registry"
priority = 1
url = "https://example.com/registry"
`)

	manifest, sources, err := NewProjectFileAdapter().LoadManifest(ctx)
	require.NoError(t, err)

	require.Len(t, manifest.Dependencies, 3)
	assert.Equal(t, types.DependencySpec{ID: "code-review", Constraint: ">=1.0"}, manifest.Dependencies[0])
	assert.Equal(t, types.DependencySpec{ID: "pdf-tools", Constraint: "~=2.1", Source: "mirror"}, manifest.Dependencies[1])
	assert.Equal(t, types.DependencySpec{ID: "unpinned", Constraint: "*"}, manifest.Dependencies[2])

	require.Len(t, sources, 2)
	assert.Equal(t, "main", sources[0].Name)
	assert.Equal(t, types.SourceTypeGitMarketplace, sources[0].Type)
	assert.Equal(t, 1, sources[1].Priority)
}

func TestLoadManifestRejectsBadDependency(t *testing.T) {
	ctx := projectContextWith(t, `[dependencies]
broken = 42

[tool.fastskill]
skills_directory = "skills"
`)
	_, _, err := NewProjectFileAdapter().LoadManifest(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid dependency entry")
}

func TestSaveManifestRoundTrip(t *testing.T) {
	ctx := projectContextWith(t, minimalProject)
	adapter := NewProjectFileAdapter()

	var manifest types.Manifest
	manifest.Add(types.DependencySpec{ID: "code-review", Constraint: ">=1.0"})
	manifest.Add(types.DependencySpec{ID: "pdf-tools", Constraint: "~=2.1", Source: "mirror"})
	manifest.Add(types.DependencySpec{ID: "unpinned"})
	require.NoError(t, adapter.SaveManifest(ctx, manifest))

	loaded, _, err := adapter.LoadManifest(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Dependencies, 3)
	assert.Equal(t, types.DependencySpec{ID: "code-review", Constraint: ">=1.0"}, loaded.Dependencies[0])
	assert.Equal(t, types.DependencySpec{ID: "pdf-tools", Constraint: "~=2.1", Source: "mirror"}, loaded.Dependencies[1])
	assert.Equal(t, types.DependencySpec{ID: "unpinned", Constraint: "*"}, loaded.Dependencies[2])
}

func TestSaveManifestKeepsToolSection(t *testing.T) {
	ctx := projectContextWith(t, minimalProject)
	adapter := NewProjectFileAdapter()

	var manifest types.Manifest
	manifest.Add(types.DependencySpec{ID: "code-review"})
	require.NoError(t, adapter.SaveManifest(ctx, manifest))

	raw, err := os.ReadFile(ctx.ProjectFilePath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "skills_directory")
}
