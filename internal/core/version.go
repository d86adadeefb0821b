package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"github.com/gofastskill/fastskill/internal/types"
)

// versionCache memoizes parsed version objects to avoid repeated
// parsing during constraint evaluation and sorting.
type versionCache struct {
	versions map[string]pep440.Version
	specs    map[string]pep440.Specifiers
}

func newVersionCache() *versionCache {
	return &versionCache{
		versions: map[string]pep440.Version{},
		specs:    map[string]pep440.Specifiers{},
	}
}

// version returns a parsed version, caching the result.
func (c *versionCache) version(value string) (pep440.Version, error) {
	if parsed, ok := c.versions[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	c.versions[value] = parsed
	return parsed, nil
}

// spec returns parsed specifiers, caching the result.
func (c *versionCache) spec(value string) (pep440.Specifiers, error) {
	if parsed, ok := c.specs[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.NewSpecifiers(value)
	if err != nil {
		return pep440.Specifiers{}, err
	}
	c.specs[value] = parsed
	return parsed, nil
}

// compare returns -1, 0, or 1 comparing two version strings. Returns 0
// on parse errors so unparseable versions sort stably.
func (c *versionCache) compare(a string, b string) int {
	v1, err := c.version(a)
	if err != nil {
		return 0
	}
	v2, err := c.version(b)
	if err != nil {
		return 0
	}
	return v1.Compare(v2)
}

// bestCompatibleVersion selects the highest version from available that
// satisfies all constraints. Returns an error when no version does.
func bestCompatibleVersion(id types.SkillID, constraints []Constraint, available []string) (string, error) {
	if len(available) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no available versions for %s", id))
	}
	cache := newVersionCache()
	specs, err := prepareSpecs(constraints, cache)
	if err != nil {
		return "", err
	}
	var candidates []string
	for _, version := range available {
		ok, err := satisfiesAll(version, specs, cache)
		if err != nil {
			continue
		}
		if ok {
			candidates = append(candidates, version)
		}
	}
	if len(candidates) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no compatible version for %s", id))
	}
	sort.Slice(candidates, func(i, j int) bool {
		return cache.compare(candidates[i], candidates[j]) > 0
	})
	return candidates[0], nil
}

// prepareSpecs parses each constraint's version upfront so it can be
// reused across candidate comparisons. Wildcards contribute nothing.
func prepareSpecs(constraints []Constraint, cache *versionCache) ([]pep440.Specifiers, error) {
	var out []pep440.Specifiers
	for _, constraint := range constraints {
		if constraint.Op == types.ConstraintOpNone {
			continue
		}
		spec, err := cache.spec(toSpecString(constraint))
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid version constraint %s%s", constraint.Op, constraint.Version)).
				WithCause(err)
		}
		out = append(out, spec)
	}
	return out, nil
}

// satisfiesAll checks a version against all prepared specifiers.
func satisfiesAll(version string, specs []pep440.Specifiers, cache *versionCache) (bool, error) {
	if len(specs) == 0 {
		return true, nil
	}
	parsed, err := cache.version(version)
	if err != nil {
		return false, err
	}
	for _, spec := range specs {
		if !spec.Check(parsed) {
			return false, nil
		}
	}
	return true, nil
}

// versionSatisfies checks one version string against raw constraints,
// parsing on the spot. Used for cheap per-listing filtering.
func versionSatisfies(version string, constraints []Constraint) (bool, error) {
	cache := newVersionCache()
	specs, err := prepareSpecs(constraints, cache)
	if err != nil {
		return false, err
	}
	return satisfiesAll(version, specs, cache)
}

// toSpecString converts a constraint to a specifier string, mapping the
// single-equals alias onto "==".
func toSpecString(constraint Constraint) string {
	op := string(constraint.Op)
	if constraint.Op == types.ConstraintOpEq {
		op = "=="
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s", op, constraint.Version))
}
