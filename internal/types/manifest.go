package types

// DependencySpec is one declared dependency from the manifest's
// [dependencies] table. Constraint is a raw version constraint string
// ("*", ">=1.0", "==1.2.3"); Source optionally pins resolution to a
// named configured repository.
type DependencySpec struct {
	ID         SkillID
	Constraint string
	Source     string
}

// Manifest is the set of declared dependencies. The loader keeps the
// slice sorted by id so saves are deterministic. The manifest is only
// mutated by explicit add/remove operations, never by resolution.
type Manifest struct {
	Dependencies []DependencySpec
}

// Get returns the spec for id, if declared.
func (m Manifest) Get(id SkillID) (DependencySpec, bool) {
	for _, dep := range m.Dependencies {
		if dep.ID == id {
			return dep, true
		}
	}
	return DependencySpec{}, false
}

// Add appends a dependency, or replaces an existing declaration with
// the same id in place so the declaration order does not churn.
func (m *Manifest) Add(spec DependencySpec) {
	for i, dep := range m.Dependencies {
		if dep.ID == spec.ID {
			m.Dependencies[i] = spec
			return
		}
	}
	m.Dependencies = append(m.Dependencies, spec)
}

// Remove drops the dependency with the given id, reporting whether an
// entry was removed.
func (m *Manifest) Remove(id SkillID) bool {
	for i, dep := range m.Dependencies {
		if dep.ID == id {
			m.Dependencies = append(m.Dependencies[:i], m.Dependencies[i+1:]...)
			return true
		}
	}
	return false
}
