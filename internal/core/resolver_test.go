package core

import (
	"context"
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofastskill/fastskill/internal/types"
)

// testSource serves canned listings keyed by source name, or an error
// for sources listed in down.
type testSource struct {
	listings map[string][]types.SkillListing
	down     map[string]error
}

func (s testSource) List(_ context.Context, source types.RepositorySource) ([]types.SkillListing, error) {
	if err, ok := s.down[source.Name]; ok {
		return nil, err
	}
	return s.listings[source.Name], nil
}

func newTestRegistry(t *testing.T, fake testSource, sources []types.RepositorySource) Registry {
	t.Helper()
	registry, err := NewRegistry(fake, fake, fake, sources)
	require.NoError(t, err)
	return registry
}

func TestResolvePriorityWinsOverVersion(t *testing.T) {
	fake := testSource{listings: map[string][]types.SkillListing{
		"primary":  {{ID: "code-review", Version: "1.0.0", Path: "skills/code-review"}},
		"fallback": {{ID: "code-review", Version: "9.0.0", Path: "skills/code-review"}},
	}}
	sources := []types.RepositorySource{
		{Name: "fallback", Type: types.SourceTypeLocal, Priority: 10, Path: "/srv/fallback"},
		{Name: "primary", Type: types.SourceTypeLocal, Priority: 0, Path: "/srv/primary"},
	}
	resolver := NewResolver(newTestRegistry(t, fake, sources))

	candidate, failures, err := resolver.Resolve(t.Context(), types.DependencySpec{ID: "code-review"})
	require.NoError(t, err)
	assert.Empty(t, failures)
	assert.Equal(t, "primary", candidate.SourceName)
	assert.Equal(t, "1.0.0", candidate.Version)
}

func TestResolveFallsThroughWhenConstraintUnmet(t *testing.T) {
	fake := testSource{listings: map[string][]types.SkillListing{
		"primary":  {{ID: "code-review", Version: "1.0.0"}},
		"fallback": {{ID: "code-review", Version: "2.0.0"}},
	}}
	sources := []types.RepositorySource{
		{Name: "primary", Type: types.SourceTypeLocal, Priority: 0, Path: "/srv/a"},
		{Name: "fallback", Type: types.SourceTypeLocal, Priority: 1, Path: "/srv/b"},
	}
	resolver := NewResolver(newTestRegistry(t, fake, sources))

	candidate, _, err := resolver.Resolve(t.Context(), types.DependencySpec{ID: "code-review", Constraint: ">=2.0"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", candidate.SourceName)
	assert.Equal(t, "2.0.0", candidate.Version)
}

func TestResolveEqualPriorityTakesFirstConfigured(t *testing.T) {
	fake := testSource{listings: map[string][]types.SkillListing{
		"left":  {{ID: "code-review", Version: "1.0.0"}},
		"right": {{ID: "code-review", Version: "2.0.0"}},
	}}
	sources := []types.RepositorySource{
		{Name: "left", Type: types.SourceTypeLocal, Priority: 0, Path: "/srv/l"},
		{Name: "right", Type: types.SourceTypeLocal, Priority: 0, Path: "/srv/r"},
	}
	resolver := NewResolver(newTestRegistry(t, fake, sources))

	// Configuration order breaks the tie, even against a higher
	// version in the other source.
	candidate, _, err := resolver.Resolve(t.Context(), types.DependencySpec{ID: "code-review"})
	require.NoError(t, err)
	assert.Equal(t, "left", candidate.SourceName)
	assert.Equal(t, "1.0.0", candidate.Version)
}

func TestResolvePinnedSourceOverridesTieBreak(t *testing.T) {
	fake := testSource{listings: map[string][]types.SkillListing{
		"left":  {{ID: "code-review", Version: "1.0.0"}},
		"right": {{ID: "code-review", Version: "1.0.0"}},
	}}
	sources := []types.RepositorySource{
		{Name: "left", Type: types.SourceTypeLocal, Priority: 0, Path: "/srv/l"},
		{Name: "right", Type: types.SourceTypeLocal, Priority: 0, Path: "/srv/r"},
	}
	resolver := NewResolver(newTestRegistry(t, fake, sources))

	candidate, _, err := resolver.Resolve(t.Context(), types.DependencySpec{ID: "code-review", Source: "right"})
	require.NoError(t, err)
	assert.Equal(t, "right", candidate.SourceName)
}

func TestResolveUnknownPinnedSource(t *testing.T) {
	resolver := NewResolver(newTestRegistry(t, testSource{}, []types.RepositorySource{
		{Name: "main", Type: types.SourceTypeLocal, Priority: 0, Path: "/srv/main"},
	}))

	_, _, err := resolver.Resolve(t.Context(), types.DependencySpec{ID: "code-review", Source: "nope"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestResolveSkipsUnreachableSource(t *testing.T) {
	fake := testSource{
		listings: map[string][]types.SkillListing{
			"fallback": {{ID: "code-review", Version: "1.0.0"}},
		},
		down: map[string]error{"primary": errors.New("connection refused")},
	}
	sources := []types.RepositorySource{
		{Name: "primary", Type: types.SourceTypeLocal, Priority: 0, Path: "/srv/a"},
		{Name: "fallback", Type: types.SourceTypeLocal, Priority: 1, Path: "/srv/b"},
	}
	resolver := NewResolver(newTestRegistry(t, fake, sources))

	candidate, failures, err := resolver.Resolve(t.Context(), types.DependencySpec{ID: "code-review"})
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "primary", failures[0].SourceName)
	assert.Equal(t, "fallback", candidate.SourceName)
}

func TestResolveNotFound(t *testing.T) {
	resolver := NewResolver(newTestRegistry(t, testSource{}, []types.RepositorySource{
		{Name: "main", Type: types.SourceTypeLocal, Priority: 0, Path: "/srv/main"},
	}))

	_, _, err := resolver.Resolve(t.Context(), types.DependencySpec{ID: "missing"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestNewRegistryRejectsBadSources(t *testing.T) {
	fake := testSource{}
	tests := []struct {
		name    string
		sources []types.RepositorySource
	}{
		{name: "unnamed", sources: []types.RepositorySource{{Type: types.SourceTypeLocal}}},
		{name: "duplicate", sources: []types.RepositorySource{
			{Name: "dup", Type: types.SourceTypeLocal},
			{Name: "dup", Type: types.SourceTypeLocal},
		}},
		{name: "unknown type", sources: []types.RepositorySource{{Name: "x", Type: "ftp"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(fake, fake, fake, tt.sources)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
		})
	}
}
