package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManifestAddPreservesOrder(t *testing.T) {
	var m Manifest
	m.Add(DependencySpec{ID: "zeta", Constraint: ">=1.0"})
	m.Add(DependencySpec{ID: "alpha"})
	m.Add(DependencySpec{ID: "zeta", Constraint: ">=2.0"})

	assert.Len(t, m.Dependencies, 2)
	assert.Equal(t, SkillID("zeta"), m.Dependencies[0].ID)
	assert.Equal(t, ">=2.0", m.Dependencies[0].Constraint)
	assert.Equal(t, SkillID("alpha"), m.Dependencies[1].ID)
}

func TestManifestRemove(t *testing.T) {
	var m Manifest
	m.Add(DependencySpec{ID: "alpha"})
	m.Add(DependencySpec{ID: "beta"})

	assert.True(t, m.Remove("alpha"))
	assert.False(t, m.Remove("alpha"))
	assert.Len(t, m.Dependencies, 1)

	_, ok := m.Get("beta")
	assert.True(t, ok)
}
